package dictionary

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownVersion = errors.New("dictionary: unknown version")

// Version is a FIX BeginString value with a bundled dictionary.
type Version string

const (
	FIX40    Version = "FIX.4.0"
	FIX41    Version = "FIX.4.1"
	FIX42    Version = "FIX.4.2"
	FIX43    Version = "FIX.4.3"
	FIX44    Version = "FIX.4.4"
	FIX50    Version = "FIX.5.0"
	FIX50SP1 Version = "FIX.5.0SP1"
	FIX50SP2 Version = "FIX.5.0SP2"
	FIXT11   Version = "FIXT.1.1"
)

// DefaultVersion is used when a message carries no usable BeginString.
const DefaultVersion = FIX44

var versions = []Version{FIX40, FIX41, FIX42, FIX43, FIX44, FIX50, FIX50SP1, FIX50SP2, FIXT11}

// Versions returns every supported version in protocol order.
func Versions() []Version {
	out := make([]Version, len(versions))
	copy(out, versions)
	return out
}

// ParseVersion matches a BeginString exactly (after trimming).
func ParseVersion(raw string) (Version, bool) {
	raw = strings.TrimSpace(raw)
	for _, v := range versions {
		if string(v) == raw {
			return v, true
		}
	}
	return "", false
}

// RequireVersion is ParseVersion with an error for config-supplied versions.
func RequireVersion(raw string) (Version, error) {
	v, ok := ParseVersion(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVersion, raw)
	}
	return v, nil
}

func (v Version) String() string {
	return string(v)
}

// Transport reports whether v is a session-layer-only BeginString.
func (v Version) Transport() bool {
	return v == FIXT11
}
