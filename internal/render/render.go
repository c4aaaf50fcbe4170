package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/danmuck/fixdecode/internal/dictionary"
	"github.com/danmuck/fixdecode/internal/fix"
)

type Format string

const (
	FormatTable Format = "table"
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
)

// ParseFormat accepts table, plain or json. Empty selects table.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatPlain:
		return FormatPlain, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, plain or json)", raw)
	}
}

// Renderer writes results in one format. The zero value renders
// uncoloured tables.
type Renderer struct {
	Format Format
	Color  bool
}

type jsonField struct {
	Tag          string `json:"tag"`
	TagName      string `json:"tagName"`
	Value        string `json:"value"`
	DecodedValue string `json:"decodedValue"`
}

type jsonResult struct {
	Version          dictionary.Version `json:"version"`
	VersionDefaulted bool               `json:"versionDefaulted"`
	Delimiter        fix.Delimiter      `json:"delimiter"`
	MessageType      string             `json:"messageType"`
	Fields           []jsonField        `json:"fields"`
}

// Result writes one decoded message.
func (r Renderer) Result(w io.Writer, res fix.Result) error {
	switch r.Format {
	case FormatJSON:
		out := jsonResult{
			Version:          res.Version,
			VersionDefaulted: res.VersionDefaulted,
			Delimiter:        res.Delimiter,
			MessageType:      res.MessageType,
			Fields:           make([]jsonField, 0, len(res.Fields)),
		}
		for _, f := range res.Fields {
			out.Fields = append(out.Fields, jsonField{
				Tag:          f.Tag,
				TagName:      f.TagName,
				Value:        f.Value,
				DecodedValue: f.DecodedValue,
			})
		}
		return writeJSON(w, out)
	case FormatPlain:
		var sb strings.Builder
		for _, f := range res.Fields {
			sb.WriteString(strings.Join([]string{f.Tag, f.TagName, f.Value, f.DecodedValue}, "\t"))
			sb.WriteString("\n")
		}
		_, err := io.WriteString(w, sb.String())
		return err
	default:
		st := newStyles(r.Color)
		t := &table{headers: []string{"Tag", "Field", "Value", "Decoded"}}
		for _, f := range res.Fields {
			name := st.Cell
			if !f.Known {
				name = st.Unknown
			}
			t.addRow(
				cell{text: f.Tag, style: st.Cell},
				cell{text: f.TagName, style: name},
				cell{text: f.Value, style: st.Cell},
				cell{text: f.DecodedValue, style: st.Decoded},
			)
		}
		_, err := io.WriteString(w, summary(st, res)+"\n"+t.render(st))
		return err
	}
}

// Field writes a single dictionary lookup.
func (r Renderer) Field(w io.Writer, info dictionary.FieldInfo) error {
	switch r.Format {
	case FormatJSON:
		return writeJSON(w, info)
	case FormatPlain:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%t\n", info.Tag, info.Name, info.Type, info.Known)
		for _, raw := range sortedKeys(info.Values) {
			fmt.Fprintf(&sb, "%s\t%s\n", raw, info.Values[raw])
		}
		_, err := io.WriteString(w, sb.String())
		return err
	default:
		st := newStyles(r.Color)
		var sb strings.Builder
		title := fmt.Sprintf("%s  tag %s  %s", info.Name, info.Tag, info.Version)
		sb.WriteString(st.Title.Render(title))
		sb.WriteString("\n")
		if info.Known {
			fmt.Fprintf(&sb, "type: %s\n", info.Type)
		} else {
			sb.WriteString(st.Unknown.Render(fmt.Sprintf("not defined in %s %s", info.Version, fix.UnknownMarker)))
			sb.WriteString("\n")
		}
		if len(info.Values) > 0 {
			t := &table{headers: []string{"Value", "Meaning"}}
			for _, raw := range sortedKeys(info.Values) {
				t.addRow(cell{text: raw, style: st.Cell}, cell{text: info.Values[raw], style: st.Decoded})
			}
			sb.WriteString(t.render(st))
		}
		_, err := io.WriteString(w, sb.String())
		return err
	}
}

type jsonFieldDef struct {
	Tag  int    `json:"tag"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Fields lists every field a dictionary defines, ordered by tag.
func (r Renderer) Fields(w io.Writer, d dictionary.Dictionary) error {
	defs := d.Fields()
	switch r.Format {
	case FormatJSON:
		rows := make([]jsonFieldDef, 0, len(defs))
		for _, def := range defs {
			rows = append(rows, jsonFieldDef(def))
		}
		return writeJSON(w, struct {
			Version dictionary.Version `json:"version"`
			Fields  []jsonFieldDef     `json:"fields"`
		}{d.Version(), rows})
	case FormatPlain:
		var sb strings.Builder
		for _, def := range defs {
			fmt.Fprintf(&sb, "%d\t%s\t%s\n", def.Tag, def.Name, def.Type)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	default:
		st := newStyles(r.Color)
		t := &table{headers: []string{"Tag", "Name", "Type"}}
		for _, def := range defs {
			t.addRow(
				cell{text: fmt.Sprint(def.Tag), style: st.Cell},
				cell{text: def.Name, style: st.Cell},
				cell{text: def.Type, style: st.Muted},
			)
		}
		title := st.Title.Render(fmt.Sprintf("%s  %d fields", d.Version(), len(defs)))
		_, err := io.WriteString(w, title+"\n"+t.render(st))
		return err
	}
}

type jsonVersion struct {
	Version   dictionary.Version `json:"version"`
	Fields    int                `json:"fields"`
	Transport bool               `json:"transport"`
	Default   bool               `json:"default"`
}

// Versions lists the dictionaries a store carries.
func (r Renderer) Versions(w io.Writer, store *dictionary.Store) error {
	rows := make([]jsonVersion, 0, len(store.Versions()))
	for _, v := range store.Versions() {
		rows = append(rows, jsonVersion{
			Version:   v,
			Fields:    store.DictionaryFor(v).Len(),
			Transport: v.Transport(),
			Default:   v == dictionary.DefaultVersion,
		})
	}
	switch r.Format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatPlain:
		var sb strings.Builder
		for _, row := range rows {
			fmt.Fprintf(&sb, "%s\t%d\t%t\t%t\n", row.Version, row.Fields, row.Transport, row.Default)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	default:
		st := newStyles(r.Color)
		t := &table{headers: []string{"Version", "Fields", "Notes"}}
		for _, row := range rows {
			var notes []string
			if row.Default {
				notes = append(notes, "default")
			}
			if row.Transport {
				notes = append(notes, "session layer")
			}
			t.addRow(
				cell{text: row.Version.String(), style: st.Cell},
				cell{text: fmt.Sprint(row.Fields), style: st.Cell},
				cell{text: strings.Join(notes, ", "), style: st.Muted},
			)
		}
		_, err := io.WriteString(w, t.render(st))
		return err
	}
}

func summary(st styles, res fix.Result) string {
	line := st.Title.Render(fmt.Sprintf("%s  %s", res.Version, res.MessageType))
	notes := []string{res.Delimiter.Label()}
	if res.VersionDefaulted {
		if res.BeginString != "" {
			notes = append(notes, fmt.Sprintf("BeginString %q not recognised, using %s", res.BeginString, res.Version))
		} else {
			notes = append(notes, "no BeginString, using "+res.Version.String())
		}
	}
	if n := res.UnknownTags(); n > 0 {
		notes = append(notes, fmt.Sprintf("%d unknown %s", n, fix.UnknownMarker))
	}
	return line + "  " + st.Muted.Render(strings.Join(notes, " · "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
