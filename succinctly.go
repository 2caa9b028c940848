// Package succinctly provides semi-indexed navigation over JSON
// documents: a tiny auxiliary index over an immutable source buffer
// that makes the document's structure addressable in O(1) amortized
// time per operation, without parsing values.
//
// The heavy lifting lives in the subpackages: bits (rank/select
// bitvectors), bp (balanced-parentheses trees), json (the semi-indexer
// and cursor) and codec (index serialization). This package bundles
// them behind a small facade.
package succinctly

import (
	"github.com/rust-works/succinctly/json"
)

// ErrSourceTooLarge mirrors json.ErrSourceTooLarge.
var ErrSourceTooLarge = json.ErrSourceTooLarge

// Document co-owns a source buffer and its semi-index, so the
// source-outlives-index contract is carried by a single value. The
// source must not be modified while the Document is in use.
type Document struct {
	Source []byte
	Index  *json.Index
}

// IndexJSON builds a semi-index over src and returns the bundled
// document. src is retained, not copied.
func IndexJSON(src []byte, opts ...Option) (*Document, error) {
	cfg := newOptions(opts)
	idx, err := json.Build(src, cfg.jsonOpts...)
	if err != nil {
		return nil, err
	}
	return &Document{Source: src, Index: idx}, nil
}

// Root returns a cursor at the document root; ok is false for an
// empty document.
func (d *Document) Root() (json.Cursor, bool) {
	return json.Root(d.Index, d.Source)
}

// Validate runs the strict grammar validator over the source. Building
// never validates; this is the separate pass.
func (d *Document) Validate() error {
	return json.Validate(d.Source)
}
