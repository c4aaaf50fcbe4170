package dictionary

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quickfixgo/quickfix/datadictionary"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// QuickFIXSpec is a dictionary and value table read from a QuickFIX XML
// data dictionary (FIX42.xml, FIXT11.xml, ...).
type QuickFIXSpec struct {
	Dictionary Dictionary
	Values     ValueTable
}

// LoadQuickFIX parses the QuickFIX data dictionary at path.
func LoadQuickFIX(path string) (QuickFIXSpec, error) {
	dd, err := datadictionary.Parse(path)
	if err != nil {
		return QuickFIXSpec{}, DatasetError{Source: path, Err: fmt.Errorf("%w: %v", ErrInvalidDataset, err)}
	}
	spec, err := fromDataDictionary(dd)
	if err != nil {
		return QuickFIXSpec{}, DatasetError{Source: path, Err: err}
	}
	log.Debug().
		Str("path", path).
		Str("version", spec.Dictionary.Version().String()).
		Int("fields", spec.Dictionary.Len()).
		Msg("dictionary.LoadQuickFIX")
	return spec, nil
}

// ParseQuickFIX parses a QuickFIX data dictionary from r.
func ParseQuickFIX(r io.Reader) (QuickFIXSpec, error) {
	dd, err := datadictionary.ParseSrc(r)
	if err != nil {
		return QuickFIXSpec{}, DatasetError{Source: "quickfix", Err: fmt.Errorf("%w: %v", ErrInvalidDataset, err)}
	}
	spec, err := fromDataDictionary(dd)
	if err != nil {
		return QuickFIXSpec{}, DatasetError{Source: "quickfix", Err: err}
	}
	return spec, nil
}

// Apply returns a store carrying the spec's dictionary and its enumerations.
func (q QuickFIXSpec) Apply(s *Store) *Store {
	return s.With(q.Dictionary).WithValues(q.Values)
}

func fromDataDictionary(dd *datadictionary.DataDictionary) (QuickFIXSpec, error) {
	raw := quickFIXVersion(dd)
	version, ok := ParseVersion(raw)
	if !ok {
		return QuickFIXSpec{}, fmt.Errorf("%w: %q", ErrUnknownVersion, raw)
	}

	title := cases.Title(language.English)
	defs := make([]FieldDef, 0, len(dd.FieldTypeByTag))
	entries := make(map[string]ValueEntry)
	for tag, ft := range dd.FieldTypeByTag {
		defs = append(defs, FieldDef{Tag: tag, Name: ft.Name(), Type: ft.Type})
		if len(ft.Enums) == 0 {
			continue
		}
		entry := ValueEntry{Name: ft.Name(), Values: make(map[string]string, len(ft.Enums))}
		for value, enum := range ft.Enums {
			entry.Values[value] = humanize(title, enum.Description)
		}
		entries[strconv.Itoa(tag)] = entry
	}
	return QuickFIXSpec{
		Dictionary: NewDictionary(version, defs),
		Values:     NewValueTable(entries),
	}, nil
}

func quickFIXVersion(dd *datadictionary.DataDictionary) string {
	v := fmt.Sprintf("%s.%d.%d", dd.FIXType, dd.Major, dd.Minor)
	if dd.ServicePack > 0 {
		v += "SP" + strconv.Itoa(dd.ServicePack)
	}
	return v
}

// humanize turns QuickFIX enum descriptions like ORDER_SINGLE into
// "Order Single".
func humanize(title cases.Caser, description string) string {
	if description == "" {
		return ""
	}
	return title.String(strings.ReplaceAll(description, "_", " "))
}
