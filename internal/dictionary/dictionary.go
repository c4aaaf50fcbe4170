package dictionary

import (
	"sort"
	"strconv"
)

// FieldDef is one entry of a field dataset.
type FieldDef struct {
	Tag  int    `json:"Tag"`
	Name string `json:"Name"`
	Type string `json:"Type,omitempty"`
}

// Dictionary maps tag numbers to canonical field names for one version.
type Dictionary struct {
	version Version
	names   map[string]string
	types   map[string]string
}

// NewDictionary inverts defs into a tag keyed lookup. Later duplicates win.
func NewDictionary(version Version, defs []FieldDef) Dictionary {
	d := Dictionary{
		version: version,
		names:   make(map[string]string, len(defs)),
		types:   make(map[string]string, len(defs)),
	}
	for _, def := range defs {
		if def.Tag <= 0 || def.Name == "" {
			continue
		}
		key := strconv.Itoa(def.Tag)
		d.names[key] = def.Name
		if def.Type != "" {
			d.types[key] = def.Type
		}
	}
	return d
}

func (d Dictionary) Version() Version {
	return d.version
}

// FieldName returns the field name for tag; ok is false when the tag is not
// defined in this version.
func (d Dictionary) FieldName(tag string) (string, bool) {
	name, ok := d.names[tag]
	return name, ok
}

// FieldType returns the FIX data type for tag, if the dataset carried one.
func (d Dictionary) FieldType(tag string) string {
	return d.types[tag]
}

func (d Dictionary) Len() int {
	return len(d.names)
}

// Fields returns the dictionary contents ordered by tag number.
func (d Dictionary) Fields() []FieldDef {
	out := make([]FieldDef, 0, len(d.names))
	for key, name := range d.names {
		tag, _ := strconv.Atoi(key)
		out = append(out, FieldDef{Tag: tag, Name: name, Type: d.types[key]})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tag < out[j].Tag
	})
	return out
}
