package dictionary

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ValueEntry is the value decode record for one tag.
type ValueEntry struct {
	Name   string            `yaml:"name" json:"name,omitempty"`
	Values map[string]string `yaml:"values" json:"values,omitempty"`
}

// Enumerated reports whether the entry carries at least one value label.
func (e ValueEntry) Enumerated() bool {
	return len(e.Values) > 0
}

// ValueTable maps tags to enumerated value labels regardless of version.
type ValueTable struct {
	entries map[string]ValueEntry
}

// NewValueTable copies entries into an immutable table.
func NewValueTable(entries map[string]ValueEntry) ValueTable {
	t := ValueTable{entries: make(map[string]ValueEntry, len(entries))}
	for tag, entry := range entries {
		t.entries[tag] = copyEntry(entry)
	}
	return t
}

// ParseValueTable reads the YAML value dataset.
func ParseValueTable(r io.Reader) (ValueTable, error) {
	raw := map[string]ValueEntry{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return ValueTable{}, DatasetError{Source: "values", Err: fmt.Errorf("%w: %v", ErrInvalidDataset, err)}
	}
	return NewValueTable(raw), nil
}

// Lookup returns the decode record for tag.
func (t ValueTable) Lookup(tag string) (ValueEntry, bool) {
	entry, ok := t.entries[tag]
	return entry, ok
}

// FieldName returns the table's canonical name for tag when it has one.
func (t ValueTable) FieldName(tag string) (string, bool) {
	entry, ok := t.entries[tag]
	if !ok || entry.Name == "" {
		return "", false
	}
	return entry.Name, true
}

// Label returns the label for raw under tag without the unknown-value marker.
func (t ValueTable) Label(tag, raw string) (string, bool) {
	entry, ok := t.entries[tag]
	if !ok {
		return "", false
	}
	label, ok := entry.Values[raw]
	return label, ok
}

// Decode returns the label for raw, UnknownValue(tag) when tag has an
// enumeration that does not contain raw, and "" when tag has none.
func (t ValueTable) Decode(tag, raw string) string {
	entry, ok := t.entries[tag]
	if !ok || !entry.Enumerated() {
		return ""
	}
	if label, ok := entry.Values[raw]; ok {
		return label
	}
	return UnknownValue(tag)
}

// UnknownValue is the decoded value shown for an out-of-enumeration value.
func UnknownValue(tag string) string {
	return "Unknown value for tag " + tag
}

func (t ValueTable) Len() int {
	return len(t.entries)
}

// Merge returns a table holding t plus every tag of other that t lacks.
// Existing tags are extended with values they do not already label.
func (t ValueTable) Merge(other ValueTable) ValueTable {
	merged := NewValueTable(t.entries)
	for tag, entry := range other.entries {
		cur, ok := merged.entries[tag]
		if !ok {
			merged.entries[tag] = copyEntry(entry)
			continue
		}
		if cur.Name == "" {
			cur.Name = entry.Name
		}
		if len(entry.Values) > 0 && cur.Values == nil {
			cur.Values = make(map[string]string, len(entry.Values))
		}
		for raw, label := range entry.Values {
			if _, exists := cur.Values[raw]; !exists {
				cur.Values[raw] = label
			}
		}
		merged.entries[tag] = cur
	}
	return merged
}

func copyEntry(e ValueEntry) ValueEntry {
	out := ValueEntry{Name: e.Name}
	if len(e.Values) > 0 {
		out.Values = make(map[string]string, len(e.Values))
		for k, v := range e.Values {
			out.Values[k] = v
		}
	}
	return out
}
