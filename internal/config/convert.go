package config

import (
	"fmt"
	"strings"

	"github.com/danmuck/fixdecode/internal/dictionary"
	"github.com/danmuck/fixdecode/internal/fix"
)

// DefaultDelimiter parses the configured delimiter. Validation has already
// run, so a parse failure falls back to auto.
func (c DecodeConfig) DefaultDelimiter() fix.Delimiter {
	d, err := fix.ParseDelimiter(c.Delimiter)
	if err != nil {
		return fix.DelimiterAuto
	}
	return d
}

// BuildStore layers every configured QuickFIX spec over base in order.
func (c DecodeConfig) BuildStore(base *dictionary.Store) (*dictionary.Store, error) {
	store := base
	for _, path := range c.QuickFIXSpecs {
		spec, err := dictionary.LoadQuickFIX(strings.TrimSpace(path))
		if err != nil {
			return nil, fmt.Errorf("load quickfix spec: %w", err)
		}
		store = spec.Apply(store)
	}
	return store, nil
}

// BuildDecoder returns a decoder configured by c over the builtin store.
// extra options are applied after the configured ones.
func (c DecodeConfig) BuildDecoder(extra ...fix.Option) (*fix.Decoder, error) {
	if err := ValidateDecodeConfig(c); err != nil {
		return nil, err
	}
	policy, _ := fix.ParseMalformedPolicy(c.MalformedSegments)
	store, err := c.BuildStore(dictionary.Builtin())
	if err != nil {
		return nil, err
	}
	opts := append([]fix.Option{fix.WithStore(store), fix.WithMalformedPolicy(policy)}, extra...)
	return fix.NewDecoder(opts...), nil
}
