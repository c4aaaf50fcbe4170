package fix

import "github.com/danmuck/fixdecode/internal/dictionary"

// UnknownMarker flags names that the resolved dictionary does not define.
const UnknownMarker = "(*)"

// AnnotatedField is the decode result for one pair.
type AnnotatedField struct {
	Tag          string `json:"tag"`
	TagName      string `json:"tagName"`
	Value        string `json:"value"`
	DecodedValue string `json:"decodedValue"`
	// Known is true when the tag is defined in the resolved dictionary.
	Known     bool `json:"known"`
	Malformed bool `json:"malformed,omitempty"`
}

// Annotator resolves display names and decoded values. The two lookups are
// independent: names come from the version dictionary, values from the
// version-agnostic value table.
type Annotator struct {
	Dictionary dictionary.Dictionary
	Values     dictionary.ValueTable
}

// Annotate maps pairs to annotated fields in the same order.
func (a Annotator) Annotate(pairs []Pair) []AnnotatedField {
	out := make([]AnnotatedField, len(pairs))
	for i, p := range pairs {
		out[i] = a.Field(p)
	}
	return out
}

// Field annotates a single pair.
func (a Annotator) Field(p Pair) AnnotatedField {
	name, known := a.DisplayName(p.Tag, p.Value)
	return AnnotatedField{
		Tag:          p.Tag,
		TagName:      name,
		Value:        p.Value,
		DecodedValue: a.Values.Decode(p.Tag, p.Value),
		Known:        known,
		Malformed:    p.Malformed,
	}
}

// DisplayName returns the name shown for tag. Tag 35 with a well-known
// MsgType is rendered "MsgType (label)". Tags missing from the dictionary
// fall back to the value table's name, then to "Tag N", both marked with
// UnknownMarker.
func (a Annotator) DisplayName(tag, value string) (string, bool) {
	name, known := a.Dictionary.FieldName(tag)
	if tag == TagMsgType {
		if label, ok := WellKnownMsgType(value); ok {
			return "MsgType (" + label + ")", known
		}
	}
	if known {
		return name, true
	}
	if fallback, ok := a.Values.FieldName(tag); ok {
		return fallback + " " + UnknownMarker, false
	}
	return "Tag " + tag + " " + UnknownMarker, false
}
