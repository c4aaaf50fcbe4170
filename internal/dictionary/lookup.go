package dictionary

// FieldInfo describes one tag as seen from a single version.
type FieldInfo struct {
	Version Version           `json:"version"`
	Tag     string            `json:"tag"`
	Name    string            `json:"name"`
	Type    string            `json:"type,omitempty"`
	Known   bool              `json:"known"`
	Values  map[string]string `json:"values,omitempty"`
}

// Lookup reports what the store knows about tag under v. Known is true only
// when v's dictionary defines the tag; a tag the value table alone names is
// still returned. ok is false when neither source has it.
func (s *Store) Lookup(v Version, tag string) (FieldInfo, bool) {
	dict := s.DictionaryFor(v)
	info := FieldInfo{Version: dict.Version(), Tag: tag}
	if name, ok := dict.FieldName(tag); ok {
		info.Name = name
		info.Type = dict.FieldType(tag)
		info.Known = true
	}
	if entry, ok := s.values.Lookup(tag); ok {
		if info.Name == "" {
			info.Name = entry.Name
		}
		if entry.Enumerated() {
			info.Values = make(map[string]string, len(entry.Values))
			for raw, label := range entry.Values {
				info.Values[raw] = label
			}
		}
	}
	return info, info.Known || info.Name != "" || len(info.Values) > 0
}
