package fix

import (
	"sync"

	"github.com/danmuck/fixdecode/internal/dictionary"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Result is a decoded message.
type Result struct {
	Delimiter        Delimiter          `json:"delimiter"`
	Version          dictionary.Version `json:"version"`
	BeginString      string             `json:"beginString,omitempty"`
	VersionDefaulted bool               `json:"versionDefaulted"`
	MessageType      string             `json:"messageType"`
	Fields           []AnnotatedField   `json:"fields"`
}

// UnknownTags counts fields whose tag the resolved dictionary lacks.
func (r Result) UnknownTags() int {
	n := 0
	for _, f := range r.Fields {
		if !f.Known {
			n++
		}
	}
	return n
}

// Decoder runs the decode pipeline against a dictionary store. A Decoder is
// immutable and safe for concurrent use.
type Decoder struct {
	store     *dictionary.Store
	tokenizer Tokenizer
	logger    *zerolog.Logger
}

type Option func(*Decoder)

// WithStore decodes against s instead of dictionary.Builtin().
func WithStore(s *dictionary.Store) Option {
	return func(d *Decoder) {
		if s != nil {
			d.store = s
		}
	}
}

// WithMalformedPolicy sets how segments without '=' are handled.
func WithMalformedPolicy(p MalformedPolicy) Option {
	return func(d *Decoder) {
		d.tokenizer.Malformed = p
	}
}

// WithLogger routes decoder diagnostics to l instead of the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) {
		d.logger = &l
	}
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	if d.store == nil {
		d.store = dictionary.Builtin()
	}
	return d
}

// Store returns the dictionary store the decoder reads.
func (d *Decoder) Store() *dictionary.Store {
	return d.store
}

// MalformedPolicy returns the configured malformed segment policy.
func (d *Decoder) MalformedPolicy() MalformedPolicy {
	return d.tokenizer.Malformed
}

var defaultDecoder = sync.OnceValue(func() *Decoder { return NewDecoder() })

// Decode decodes raw against the builtin dictionaries.
func Decode(raw string, delim Delimiter) (Result, error) {
	return defaultDecoder().Decode(raw, delim)
}

// Decode tokenizes raw, resolves the version from the first BeginString and
// annotates every field in input order. The only error is *EmptyInputError.
func (d *Decoder) Decode(raw string, delim Delimiter) (Result, error) {
	delim = ResolveDelimiter(raw, delim)
	pairs, err := d.tokenizer.Tokenize(raw, delim)
	if err != nil {
		d.log().Debug().Err(err).Msg("fix.Decode rejected")
		return Result{}, err
	}

	res := ResolveVersion(pairs)
	values := d.store.Values()
	annotator := Annotator{
		Dictionary: d.store.DictionaryFor(res.Version),
		Values:     values,
	}
	out := Result{
		Delimiter:        delim,
		Version:          res.Version,
		BeginString:      res.BeginString,
		VersionDefaulted: res.Defaulted,
		MessageType:      MessageTypeOf(pairs, values),
		Fields:           annotator.Annotate(pairs),
	}

	d.log().Debug().
		Str("delimiter", delim.Name()).
		Str("version", out.Version.String()).
		Bool("version_defaulted", out.VersionDefaulted).
		Int("fields", len(out.Fields)).
		Int("unknown_tags", out.UnknownTags()).
		Msg("fix.Decode")
	return out, nil
}

func (d *Decoder) log() *zerolog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return &log.Logger
}
