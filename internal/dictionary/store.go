package dictionary

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed data/*.json data/values.yaml
var embedded embed.FS

var datasetFiles = map[Version]string{
	FIX40:    "data/fix40.json",
	FIX41:    "data/fix41.json",
	FIX42:    "data/fix42.json",
	FIX43:    "data/fix43.json",
	FIX44:    "data/fix44.json",
	FIX50:    "data/fix50.json",
	FIX50SP1: "data/fix50sp1.json",
	FIX50SP2: "data/fix50sp2.json",
	FIXT11:   "data/fixt11.json",
}

// Store selects a field dictionary by version and owns the value table.
type Store struct {
	dicts  map[Version]Dictionary
	values ValueTable
}

// NewStore builds a store from already loaded data.
func NewStore(dicts []Dictionary, values ValueTable) *Store {
	s := &Store{dicts: make(map[Version]Dictionary, len(dicts)), values: values}
	for _, d := range dicts {
		s.dicts[d.Version()] = d
	}
	return s
}

var builtin = sync.OnceValues(loadEmbedded)

// Builtin returns the process-wide store over the embedded datasets. It is
// built on first use and never modified afterwards.
func Builtin() *Store {
	s, err := builtin()
	if err != nil {
		panic(err)
	}
	return s
}

func loadEmbedded() (*Store, error) {
	dicts := make([]Dictionary, 0, len(datasetFiles))
	for _, v := range versions {
		raw, err := embedded.ReadFile(datasetFiles[v])
		if err != nil {
			return nil, fmt.Errorf("dictionary: read embedded %s: %w", v, err)
		}
		d, err := ParseDataset(bytes.NewReader(raw), v)
		if err != nil {
			return nil, err
		}
		if d.Version() != v {
			return nil, DatasetError{Source: datasetFiles[v], Err: fmt.Errorf("%w: declares %s", ErrInvalidDataset, d.Version())}
		}
		dicts = append(dicts, d)
	}
	raw, err := embedded.ReadFile("data/values.yaml")
	if err != nil {
		return nil, fmt.Errorf("dictionary: read embedded values: %w", err)
	}
	values, err := ParseValueTable(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("dictionaries", len(dicts)).
		Int("value_tags", values.Len()).
		Msg("dictionary.Builtin loaded")
	return NewStore(dicts, values), nil
}

// DictionaryFor returns the dictionary for v, or the default version's
// dictionary when v has none.
func (s *Store) DictionaryFor(v Version) Dictionary {
	if d, ok := s.dicts[v]; ok {
		return d
	}
	if d, ok := s.dicts[DefaultVersion]; ok {
		return d
	}
	return NewDictionary(v, nil)
}

// Has reports whether the store carries a dictionary for v.
func (s *Store) Has(v Version) bool {
	_, ok := s.dicts[v]
	return ok
}

// Values returns the value decode table.
func (s *Store) Values() ValueTable {
	return s.values
}

// Versions returns the versions this store carries, in protocol order.
func (s *Store) Versions() []Version {
	out := make([]Version, 0, len(s.dicts))
	for _, v := range versions {
		if _, ok := s.dicts[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// With returns a copy of s where each of dicts replaces the dictionary of
// the same version.
func (s *Store) With(dicts ...Dictionary) *Store {
	next := &Store{dicts: make(map[Version]Dictionary, len(s.dicts)+len(dicts)), values: s.values}
	for v, d := range s.dicts {
		next.dicts[v] = d
	}
	for _, d := range dicts {
		next.dicts[d.Version()] = d
	}
	return next
}

// WithValues returns a copy of s whose value table is s.Values() merged with
// extra. Entries already present in s win.
func (s *Store) WithValues(extra ValueTable) *Store {
	next := s.With()
	next.values = s.values.Merge(extra)
	return next
}
