package server

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/fixdecode/internal/config"
	"github.com/danmuck/fixdecode/internal/dictionary"
	"github.com/danmuck/fixdecode/internal/fix"
	"github.com/danmuck/fixdecode/internal/observability"
	"github.com/danmuck/fixdecode/internal/testutil/testlog"
	"github.com/danmuck/fixdecode/internal/testutil/tlstest"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logonPipe = "8=FIX.4.2|9=65|35=A|49=SENDER|56=TARGET|34=1|52=20240101-12:00:00|98=0|108=30|10=062|"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultServerConfig()
	cfg.Name = "fixdecode-test"
	return New(cfg, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(observability.RequestIDHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "fixdecode-test", body["service"])
}

func TestNewLogsRejectedTrustedProxies(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	cfg := config.DefaultServerConfig()
	cfg.TrustedProxies = []string{"not-an-address"}
	s := New(cfg, nil)
	assert.Contains(t, buf.String(), "trusted proxies rejected")
	assert.Contains(t, buf.String(), "not-an-address")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewAcceptsConfiguredTrustedProxies(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	cfg := config.DefaultServerConfig()
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	New(cfg, nil)
	assert.NotContains(t, buf.String(), "trusted proxies rejected")
}

func TestRequestIDIsPropagated(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(observability.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(observability.RequestIDHeader))
}

func TestDecodeLogon(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/decode", decodeRequest{Message: logonPipe})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got fix.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, fix.DelimiterPipe, got.Delimiter)
	assert.Equal(t, dictionary.FIX42, got.Version)
	assert.False(t, got.VersionDefaulted)
	assert.Equal(t, "Logon", got.MessageType)
	require.Len(t, got.Fields, 10)
	assert.Equal(t, "MsgType (Logon)", got.Fields[2].TagName)
	assert.Equal(t, "Logon", got.Fields[2].DecodedValue)
	assert.Equal(t, "HeartBtInt", got.Fields[8].TagName)
}

func TestDecodeExplicitDelimiter(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/decode", decodeRequest{
		Message:   "8=FIX.4.4\x0135=0\x01",
		Delimiter: "soh",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got fix.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, fix.DelimiterSOH, got.Delimiter)
	assert.Equal(t, "Heartbeat", got.MessageType)
	assert.Len(t, got.Fields, 2)
}

func TestDecodeEmptyMessageIsBadRequest(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/decode", decodeRequest{Message: "  \n "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "enter a FIX message")
}

func TestDecodeRejectsBadInput(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/decode", decodeRequest{Message: logonPipe, Delimiter: "comma"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/decode", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	out := httptest.NewRecorder()
	s.Handler().ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestDecodeBodyLimit(t *testing.T) {
	testlog.Start(t)
	cfg := config.DefaultServerConfig()
	cfg.MaxBodyBytes = 64
	s := New(cfg, nil)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/decode", decodeRequest{Message: strings.Repeat("8=FIX.4.4|", 20)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestConvert(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/convert", convertRequest{Message: "8=FIX.4.4|35=0|"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "8=FIX.4.4\x0135=0\x01", body["message"])
	assert.Equal(t, "pipe", body["from"])
	assert.Equal(t, "soh", body["delimiter"])

	rec = doJSON(t, s.Handler(), http.MethodPost, "/v1/convert", convertRequest{Message: body["message"], To: "pipe"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "8=FIX.4.4|35=0|", body["message"])
}

func TestVersions(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/versions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Default  dictionary.Version `json:"default"`
		Versions []versionInfo      `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, dictionary.DefaultVersion, body.Default)
	require.Len(t, body.Versions, len(dictionary.Versions()))
	last := body.Versions[len(body.Versions)-1]
	assert.Equal(t, dictionary.FIXT11, last.Version)
	assert.True(t, last.Transport)
}

func TestFieldLookup(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIX.4.4/fields/54", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info dictionary.FieldInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "Side", info.Name)
	assert.True(t, info.Known)
	assert.Equal(t, "Sell", info.Values["2"])

	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIX.9.9/fields/54", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIX.4.4/fields/99999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFieldsListing(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIXT.1.1/fields", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Version dictionary.Version `json:"version"`
		Fields  []fieldEntry       `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, dictionary.FIXT11, body.Version)
	require.NotEmpty(t, body.Fields)
	assert.Equal(t, fieldEntry{Tag: 7, Name: "BeginSeqNo", Type: "SEQNUM"}, body.Fields[0])
	for i := 1; i < len(body.Fields); i++ {
		require.Less(t, body.Fields[i-1].Tag, body.Fields[i].Tag)
	}

	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIX.9.9/fields", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDictionaryRoutesRequireLoadedVersion(t *testing.T) {
	testlog.Start(t)
	store := dictionary.NewStore([]dictionary.Dictionary{
		dictionary.NewDictionary(dictionary.FIX42, []dictionary.FieldDef{{Tag: 54, Name: "Side", Type: "CHAR"}}),
	}, dictionary.Builtin().Values())
	cfg := config.DefaultServerConfig()
	s := New(cfg, fix.NewDecoder(fix.WithStore(store)))

	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIX.4.2/fields/54", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIX.4.2/fields", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIX.4.4/fields/54", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no dictionary loaded")
	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/dictionaries/FIX.4.4/fields", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	doJSON(t, s.Handler(), http.MethodPost, "/v1/decode", decodeRequest{Message: logonPipe})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fixdecode_decode_messages_total")
	assert.Contains(t, rec.Body.String(), "fixdecode_http_requests_total")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	transport.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeTLS(t *testing.T) {
	testlog.Start(t)
	pair := tlstest.LocalServer(t)
	cfg := config.DefaultServerConfig()
	cfg.TLS = config.TLSConfig{Enabled: true, CertFile: pair.CertFile, KeyFile: pair.KeyFile}
	s := New(cfg, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	transport := &http.Transport{
		DisableKeepAlives: true,
		TLSClientConfig:   &tls.Config{RootCAs: pair.Pool},
	}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	resp, err := client.Get("https://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	transport.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunFailsOnBadAddr(t *testing.T) {
	testlog.Start(t)
	cfg := config.DefaultServerConfig()
	cfg.Addr = "127.0.0.1:-1"
	err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
}
