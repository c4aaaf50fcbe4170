package fix

import (
	"strings"

	"github.com/danmuck/fixdecode/internal/dictionary"
)

const (
	TagBeginString = "8"
	TagMsgType     = "35"
)

// VersionResolution records how the dictionary version was chosen.
type VersionResolution struct {
	Version dictionary.Version
	// BeginString is the trimmed value of the first non-empty tag 8, if any.
	BeginString string
	// Defaulted is true when BeginString was absent or unrecognised.
	Defaulted bool
}

// ResolveVersion picks the dictionary version from the first tag 8 with a
// non-empty value. Later tag 8 occurrences are ignored. Missing or unknown
// versions fall back to dictionary.DefaultVersion.
func ResolveVersion(pairs []Pair) VersionResolution {
	for _, p := range pairs {
		if p.Tag != TagBeginString || p.Value == "" {
			continue
		}
		begin := strings.TrimSpace(p.Value)
		if v, ok := dictionary.ParseVersion(begin); ok {
			return VersionResolution{Version: v, BeginString: begin}
		}
		return VersionResolution{Version: dictionary.DefaultVersion, BeginString: begin, Defaulted: true}
	}
	return VersionResolution{Version: dictionary.DefaultVersion, Defaulted: true}
}
