package fix

import (
	"fmt"
	"strings"
)

// Pair is one tag=value segment in message order.
type Pair struct {
	Tag   string
	Value string
	// Malformed is set when the segment had no '='.
	Malformed bool
}

// MalformedPolicy decides what happens to a segment without '='.
type MalformedPolicy int

const (
	// MalformedEmptyValue keeps the segment as a tag with an empty value.
	MalformedEmptyValue MalformedPolicy = iota
	// MalformedSkip drops the segment.
	MalformedSkip
)

// ParseMalformedPolicy accepts "empty" (default) and "skip".
func ParseMalformedPolicy(raw string) (MalformedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "empty", "empty_value":
		return MalformedEmptyValue, nil
	case "skip", "drop":
		return MalformedSkip, nil
	default:
		return MalformedEmptyValue, fmt.Errorf("fix: unknown malformed segment policy %q (want empty or skip)", raw)
	}
}

func (p MalformedPolicy) String() string {
	if p == MalformedSkip {
		return "skip"
	}
	return "empty"
}

// Tokenizer splits raw messages into pairs.
type Tokenizer struct {
	Malformed MalformedPolicy
}

// Tokenize splits raw with the default tokenizer.
func Tokenize(raw string, delim Delimiter) ([]Pair, error) {
	return Tokenizer{}.Tokenize(raw, delim)
}

// Tokenize trims raw, drops trailing and repeated delimiters and splits every
// remaining segment on its first '='. delim must be concrete; Auto is
// resolved from raw.
func (t Tokenizer) Tokenize(raw string, delim Delimiter) ([]Pair, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &EmptyInputError{Len: len(raw)}
	}
	delim = ResolveDelimiter(trimmed, delim)
	sep := delim.String()
	trimmed = strings.TrimRight(trimmed, sep)

	segments := strings.Split(trimmed, sep)
	pairs := make([]Pair, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		tag, value, found := strings.Cut(seg, "=")
		if !found {
			if t.Malformed == MalformedSkip {
				continue
			}
			pairs = append(pairs, Pair{Tag: seg, Malformed: true})
			continue
		}
		pairs = append(pairs, Pair{Tag: tag, Value: value})
	}
	return pairs, nil
}
