package succinctly

import (
	"github.com/rust-works/succinctly/json"
)

// Dispatch re-exports the kernel dispatch enum.
type Dispatch = json.Dispatch

// Dispatch values.
const (
	Auto        = json.Auto
	ForceScalar = json.ForceScalar
	ForceSSE2   = json.ForceSSE2
	ForceSSE42  = json.ForceSSE42
	ForceAVX2   = json.ForceAVX2
	ForceNEON   = json.ForceNEON
)

type options struct {
	jsonOpts []json.Option
}

// Option configures IndexJSON.
//
// Options exist to avoid codec- and tuning-specific constructor
// variants; the zero set is the right choice for almost all callers.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// WithSelectSampleRate sets the select sampling rate K (default 256):
// higher values shrink the index and slow down select queries.
func WithSelectSampleRate(k int) Option {
	return func(o *options) {
		o.jsonOpts = append(o.jsonOpts, json.WithSelectSampleRate(k))
	}
}

// WithBPBlockSize sets the RangeMin L1 block size in words (default
// 32).
func WithBPBlockSize(words int) Option {
	return func(o *options) {
		o.jsonOpts = append(o.jsonOpts, json.WithBPBlockSize(words))
	}
}

// WithDispatch pins the SIMD classification kernel; Auto (the
// default) detects the best kernel at runtime.
func WithDispatch(d Dispatch) Option {
	return func(o *options) {
		o.jsonOpts = append(o.jsonOpts, json.WithDispatch(d))
	}
}

// WithLogger directs build diagnostics to l.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.jsonOpts = append(o.jsonOpts, json.WithLogger(l.Logger))
		}
	}
}
