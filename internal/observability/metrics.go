package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fixdecode",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fixdecode",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	decodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fixdecode",
			Subsystem: "decode",
			Name:      "messages_total",
			Help:      "Messages decoded, by resolved version and outcome.",
		},
		[]string{"version", "outcome"},
	)
	decodeFields = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fixdecode",
			Subsystem: "decode",
			Name:      "fields",
			Help:      "Fields per decoded message.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	unknownTags = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fixdecode",
			Subsystem: "decode",
			Name:      "unknown_tags_total",
			Help:      "Fields whose tag is not defined in the resolved dictionary.",
		},
		[]string{"version"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodeTotal, decodeFields, unknownTags)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one decoded message. defaulted marks a missing or
// unrecognised BeginString.
func RecordDecode(version string, defaulted bool, fields, unknown int) {
	RegisterMetrics()
	outcome := "ok"
	if defaulted {
		outcome = "version_defaulted"
	}
	decodeTotal.WithLabelValues(version, outcome).Inc()
	decodeFields.Observe(float64(fields))
	if unknown > 0 {
		unknownTags.WithLabelValues(version).Add(float64(unknown))
	}
}

// RecordDecodeRejected counts a message refused before decoding.
func RecordDecodeRejected() {
	RegisterMetrics()
	decodeTotal.WithLabelValues("", "rejected").Inc()
}
