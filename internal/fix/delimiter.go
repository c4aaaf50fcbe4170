package fix

import (
	"fmt"
	"strings"
)

// Delimiter separates fields in a raw message. The zero value asks for the
// delimiter to be inferred from the message.
type Delimiter byte

const (
	DelimiterAuto Delimiter = 0
	DelimiterSOH  Delimiter = 0x01
	DelimiterPipe Delimiter = '|'
)

// ParseDelimiter accepts the spellings used on command lines, config files
// and HTTP requests.
func ParseDelimiter(raw string) (Delimiter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return DelimiterAuto, nil
	case "|", "pipe":
		return DelimiterPipe, nil
	case "soh", "^a", `\x01`, `\u0001`, `\001`, "0x01", "\x01":
		return DelimiterSOH, nil
	default:
		return DelimiterAuto, fmt.Errorf("fix: unknown delimiter %q (want pipe, soh or auto)", raw)
	}
}

// ResolveDelimiter returns explicit when it is set. Otherwise SOH wins if the
// message contains one, then pipe, and SOH is the fallback.
func ResolveDelimiter(raw string, explicit Delimiter) Delimiter {
	if explicit != DelimiterAuto {
		return explicit
	}
	return DetectDelimiter(raw)
}

// DetectDelimiter infers the delimiter from message content.
func DetectDelimiter(raw string) Delimiter {
	if strings.IndexByte(raw, byte(DelimiterSOH)) >= 0 {
		return DelimiterSOH
	}
	if strings.IndexByte(raw, byte(DelimiterPipe)) >= 0 {
		return DelimiterPipe
	}
	return DelimiterSOH
}

// ConvertDelimiter rewrites every occurrence of from into to.
func ConvertDelimiter(raw string, from, to Delimiter) string {
	if from == to || from == DelimiterAuto || to == DelimiterAuto {
		return raw
	}
	return strings.ReplaceAll(raw, from.String(), to.String())
}

// Toggle returns the other concrete delimiter. Auto toggles to pipe, the
// counterpart of the SOH fallback.
func (d Delimiter) Toggle() Delimiter {
	if d == DelimiterPipe {
		return DelimiterSOH
	}
	return DelimiterPipe
}

func (d Delimiter) String() string {
	if d == DelimiterAuto {
		return ""
	}
	return string(rune(d))
}

// Name is the config/CLI spelling of d.
func (d Delimiter) Name() string {
	switch d {
	case DelimiterPipe:
		return "pipe"
	case DelimiterSOH:
		return "soh"
	default:
		return "auto"
	}
}

// Label is the human description shown next to decoded output.
func (d Delimiter) Label() string {
	switch d {
	case DelimiterPipe:
		return "Pipe (|)"
	case DelimiterSOH:
		return "SOH (ASCII 0x01)"
	default:
		return "Auto"
	}
}

// Example is a short sample message using d, suitable as a placeholder.
func (d Delimiter) Example() string {
	if d == DelimiterPipe {
		return "8=FIX.4.2|9=12|35=A|..."
	}
	return `8=FIX.4.2\x019=12\x0135=A...`
}

// MarshalText encodes d by name so JSON and TOML carry "pipe"/"soh".
func (d Delimiter) MarshalText() ([]byte, error) {
	return []byte(d.Name()), nil
}

func (d *Delimiter) UnmarshalText(text []byte) error {
	v, err := ParseDelimiter(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
