// Package json builds and navigates semi-indexes over raw JSON bytes.
//
// A semi-index records a document's structure, not its values: an
// interest-bit vector (IB) over source byte positions, a
// balanced-parentheses vector (BP) encoding the node tree, and a
// compact map from nodes back to source offsets. Navigation never
// materializes values; a Cursor hands out slices of the original
// buffer.
//
// The source buffer is borrowed, never copied: callers must keep it
// alive and unmodified for as long as the index or any cursor derived
// from it is in use.
package json

import (
	"errors"
	"log/slog"
	"math"

	"github.com/rust-works/succinctly/bits"
	"github.com/rust-works/succinctly/bp"
	"github.com/rust-works/succinctly/internal/simd"
)

// ErrSourceTooLarge is returned for sources whose byte offsets do not
// fit the 32-bit offset tables.
var ErrSourceTooLarge = errors.New("json: source exceeds 4 GiB offset range")

// Dispatch selects the character-classification kernel, mirroring the
// runtime ISA targets. Auto detects the best kernel once per process;
// the Force values pin a code path for testing.
type Dispatch uint8

const (
	Auto Dispatch = iota
	ForceScalar
	ForceSSE2
	ForceSSE42
	ForceAVX2
	ForceNEON
)

func (d Dispatch) kernel() simd.Kernel {
	switch d {
	case ForceScalar:
		return simd.Select(simd.ForceScalar)
	case ForceSSE2:
		return simd.Select(simd.ForceSSE2)
	case ForceSSE42:
		return simd.Select(simd.ForceSSE42)
	case ForceAVX2:
		return simd.Select(simd.ForceAVX2)
	case ForceNEON:
		return simd.Select(simd.ForceNEON)
	default:
		return simd.Active()
	}
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	selectSampleRate int
	bpBlockSize      int
	dispatch         Dispatch
	logger           *slog.Logger
}

func defaultBuildConfig() buildConfig {
	return buildConfig{
		selectSampleRate: bits.DefaultSelectSampleRate,
		bpBlockSize:      bp.DefaultBlockSize,
		dispatch:         Auto,
	}
}

// WithSelectSampleRate sets the bitvector select sampling rate.
func WithSelectSampleRate(k int) Option {
	return func(c *buildConfig) {
		if k > 0 {
			c.selectSampleRate = k
		}
	}
}

// WithBPBlockSize sets the BP RangeMin L1 block size in words.
func WithBPBlockSize(words int) Option {
	return func(c *buildConfig) {
		if words > 0 {
			c.bpBlockSize = words
		}
	}
}

// WithDispatch pins the classification kernel.
func WithDispatch(d Dispatch) Option {
	return func(c *buildConfig) { c.dispatch = d }
}

// WithLogger directs build diagnostics to l. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *buildConfig) { c.logger = l }
}

// Index is a finalized semi-index. It is deeply immutable and safe for
// unlimited concurrent readers; cursors are by-value handles over it.
type Index struct {
	ib      *bits.BitVector
	bp      *bp.BalancedParens
	offsets []uint32 // node id -> start byte of the node
	ends    []uint32 // node id -> end byte (exclusive)
	srcLen  int
}

// IB returns the interest-bit vector: one bit per source byte, set at
// positions that begin a node.
func (x *Index) IB() *bits.BitVector { return x.ib }

// BP returns the balanced-parentheses tree vector.
func (x *Index) BP() *bp.BalancedParens { return x.bp }

// NumNodes returns the number of nodes (containers plus scalar
// leaves).
func (x *Index) NumNodes() int { return len(x.offsets) }

// SourceLen returns the length of the indexed source in bytes.
func (x *Index) SourceLen() int { return x.srcLen }

// Offsets returns the node start-offset table, indexed by node id
// (the rank of the node's BP open). The slice must not be modified.
func (x *Index) Offsets() []uint32 { return x.offsets }

// EndOffsets returns the node end-offset table (exclusive). For
// containers the entry is the offset one past the closing bracket; on
// malformed input an unclosed node keeps a zero entry. The slice must
// not be modified.
func (x *Index) EndOffsets() []uint32 { return x.ends }

// NodeAt returns a cursor for the node starting at the given source
// byte offset, using IB rank to locate it. The second result is false
// when no node starts there.
func (x *Index) NodeAt(src []byte, offset int) (Cursor, bool) {
	if offset < 0 || offset >= x.srcLen || !x.ib.Get(offset) {
		return Cursor{}, false
	}
	id := x.ib.Rank1(offset)
	pos, ok := x.bp.Bits().Select1(id)
	if !ok {
		return Cursor{}, false
	}
	return Cursor{src: src, idx: x, pos: pos}, true
}

// NewFromParts reassembles an Index from its persisted parts, building
// the rank, select and RangeMin directories afresh. It is used by the
// codec package; the derived directories are never serialized.
func NewFromParts(ibWords []uint64, ibLen int, bpWords []uint64, bpLen int, offsets, ends []uint32, srcLen int, opts ...Option) (*Index, error) {
	if uint64(srcLen) > math.MaxUint32 {
		return nil, ErrSourceTooLarge
	}
	cfg := defaultBuildConfig()
	for _, o := range opts {
		o(&cfg)
	}
	ib := bits.New(ibWords, ibLen, bits.WithSelectSampleRate(cfg.selectSampleRate))
	bpv := bits.New(bpWords, bpLen, bits.WithSelectSampleRate(cfg.selectSampleRate))
	return &Index{
		ib:      ib,
		bp:      bp.New(bpv, bp.WithBlockSize(cfg.bpBlockSize)),
		offsets: offsets,
		ends:    ends,
		srcLen:  srcLen,
	}, nil
}
