package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidDataset = errors.New("dictionary: invalid dataset")

// DatasetError names the dataset that failed to load.
type DatasetError struct {
	Source string
	Err    error
}

func (e DatasetError) Error() string {
	return fmt.Sprintf("dictionary: dataset %s: %v", e.Source, e.Err)
}

func (e DatasetError) Unwrap() error {
	return e.Err
}

// Dataset is the JSON shape of one per-version field list.
type Dataset struct {
	Version string     `json:"Version"`
	Fields  []FieldDef `json:"Fields"`
}

// ParseDataset decodes a field dataset. When the dataset omits Version the
// caller-supplied fallback is used.
func ParseDataset(r io.Reader, fallback Version) (Dictionary, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dictionary{}, DatasetError{Source: string(fallback), Err: fmt.Errorf("%w: %v", ErrInvalidDataset, err)}
	}
	version := fallback
	if ds.Version != "" {
		v, ok := ParseVersion(ds.Version)
		if !ok {
			return Dictionary{}, DatasetError{Source: string(fallback), Err: fmt.Errorf("%w: %q", ErrUnknownVersion, ds.Version)}
		}
		version = v
	}
	if version == "" {
		return Dictionary{}, DatasetError{Source: "unnamed", Err: fmt.Errorf("%w: no version", ErrInvalidDataset)}
	}
	return NewDictionary(version, ds.Fields), nil
}
