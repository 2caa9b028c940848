package json

import (
	"log/slog"
	"math"
	mathbits "math/bits"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/rust-works/succinctly/bits"
	"github.com/rust-works/succinctly/bp"
	"github.com/rust-works/succinctly/internal/simd"
)

// machineState is the 4-state standard cursor machine.
type machineState uint8

const (
	stateJSON   machineState = iota // between tokens
	stateString                     // between unescaped quotes
	stateEscape                     // one byte after a backslash
	stateValue                      // inside a number or keyword literal
)

// builder carries the transient state of one Build run. The stacks are
// reused across runs through a pool; everything the finished Index
// retains is allocated per run.
type builder struct {
	src    []byte
	kernel simd.Kernel

	ib    *bits.Writer
	bpw   *bits.Writer
	ibPos int

	offsets []uint32
	ends    []uint32

	// Container context. kinds holds one bit per nesting level
	// (1 = object); openIDs the node ids of unclosed containers.
	kinds     *bitset.BitSet
	openIDs   []uint32
	depth     uint
	expectKey bool

	// Current leaf being scanned.
	curLeaf uint32
	hasLeaf bool
	isKey   bool

	// One-window classification cache.
	winBase int
	win     simd.Masks
	haveWin bool
}

var builderPool = sync.Pool{
	New: func() any {
		return &builder{
			kinds:   bitset.New(256),
			openIDs: make([]uint32, 0, 64),
		}
	},
}

// Build scans src and returns its semi-index. Malformed input is not
// rejected: the machine is a tolerant scanner and the resulting BP may
// be unbalanced, which downstream navigation observes as missing
// nodes. Strict checking is Validate's job.
func Build(src []byte, opts ...Option) (*Index, error) {
	if uint64(len(src)) > math.MaxUint32 {
		return nil, ErrSourceTooLarge
	}
	cfg := defaultBuildConfig()
	for _, o := range opts {
		o(&cfg)
	}

	b := builderPool.Get().(*builder)
	b.reset(src, cfg.dispatch.kernel())
	b.run()
	idx := b.finish(cfg)

	b.src = nil
	b.kernel = nil
	b.ib, b.bpw = nil, nil
	b.offsets, b.ends = nil, nil
	builderPool.Put(b)

	if cfg.logger != nil {
		cfg.logger.Debug("semi-index built",
			slog.Int("source_bytes", idx.srcLen),
			slog.Int("nodes", idx.NumNodes()),
			slog.Int("bp_bits", idx.bp.Len()),
		)
	}
	return idx, nil
}

func (b *builder) reset(src []byte, kernel simd.Kernel) {
	b.src = src
	b.kernel = kernel
	b.ib = bits.NewWriter(len(src))
	b.bpw = bits.NewWriter(len(src) / 4)
	b.ibPos = 0
	b.offsets = make([]uint32, 0, len(src)/8+4)
	b.ends = make([]uint32, 0, len(src)/8+4)
	b.kinds.ClearAll()
	b.openIDs = b.openIDs[:0]
	b.depth = 0
	b.expectKey = false
	b.hasLeaf = false
	b.isKey = false
	b.haveWin = false
}

func (b *builder) run() {
	n := len(b.src)
	st := stateJSON
	i := 0
	for i < n {
		switch st {
		case stateJSON:
			c := b.src[i]
			switch {
			case c == '{' || c == '[':
				b.openContainer(i, c)
			case c == '}' || c == ']':
				b.closeContainer(i)
			case c == '"':
				b.beginString(i)
				st = stateString
			case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			case c == ',':
				if b.depth > 0 && b.kinds.Test(b.depth) {
					b.expectKey = true
				}
			case c == ':':
				b.expectKey = false
			default:
				b.beginValue(i)
				st = stateValue
			}
			i++

		case stateString:
			j := b.skipString(i)
			if j < 0 {
				b.endString(n)
				i = n
				st = stateJSON
				break
			}
			if b.src[j] == '\\' {
				st = stateEscape
			} else {
				b.endString(j + 1)
				st = stateJSON
			}
			i = j + 1

		case stateEscape:
			st = stateString
			i++

		case stateValue:
			j := b.skipValue(i)
			if j < 0 {
				b.endValue(n)
				i = n
			} else {
				// The terminating byte is re-dispatched in
				// stateJSON.
				b.endValue(j)
				i = j
			}
			st = stateJSON
		}
	}
	if st == stateString || st == stateEscape {
		b.endString(n)
	}
}

func (b *builder) openContainer(pos int, c byte) {
	id := uint32(len(b.offsets))
	b.ibMark(pos)
	b.bpw.PushBit(true)
	b.offsets = append(b.offsets, uint32(pos))
	b.ends = append(b.ends, 0)
	b.openIDs = append(b.openIDs, id)
	b.depth++
	b.kinds.SetTo(b.depth, c == '{')
	b.expectKey = c == '{'
}

func (b *builder) closeContainer(pos int) {
	// A stray close is still emitted: the imbalance stays observable
	// in the BP vector.
	b.bpw.PushBit(false)
	if b.depth == 0 || len(b.openIDs) == 0 {
		return
	}
	id := b.openIDs[len(b.openIDs)-1]
	b.openIDs = b.openIDs[:len(b.openIDs)-1]
	b.ends[id] = uint32(pos + 1)
	b.depth--
	b.expectKey = false
}

func (b *builder) beginString(pos int) {
	if b.depth > 0 && b.kinds.Test(b.depth) && b.expectKey {
		// Object keys are not nodes; they are recovered by scanning
		// backward from the member value.
		b.isKey = true
		return
	}
	b.isKey = false
	b.curLeaf = uint32(len(b.offsets))
	b.hasLeaf = true
	b.ibMark(pos)
	b.bpw.Push(0b01, 2) // leaf: open immediately followed by close
	b.offsets = append(b.offsets, uint32(pos))
	b.ends = append(b.ends, 0)
}

func (b *builder) endString(end int) {
	if b.isKey {
		b.isKey = false
		return
	}
	if b.hasLeaf {
		b.ends[b.curLeaf] = uint32(end)
		b.hasLeaf = false
	}
}

func (b *builder) beginValue(pos int) {
	b.curLeaf = uint32(len(b.offsets))
	b.hasLeaf = true
	b.expectKey = false
	b.ibMark(pos)
	b.bpw.Push(0b01, 2)
	b.offsets = append(b.offsets, uint32(pos))
	b.ends = append(b.ends, 0)
}

func (b *builder) endValue(end int) {
	if b.hasLeaf {
		b.ends[b.curLeaf] = uint32(end)
		b.hasLeaf = false
	}
}

// ibMark writes the zero run up to pos and a one at pos.
func (b *builder) ibMark(pos int) {
	b.ib.PushZeros(pos - b.ibPos)
	b.ib.PushBit(true)
	b.ibPos = pos + 1
}

// maskAt classifies the 64-byte window starting at base, caching the
// most recent window: the string and value skip loops revisit it.
func (b *builder) maskAt(base int) simd.Masks {
	if !b.haveWin || b.winBase != base {
		end := base + 64
		if end > len(b.src) {
			end = len(b.src)
		}
		b.win = b.kernel(b.src[base:end])
		b.winBase = base
		b.haveWin = true
	}
	return b.win
}

// skipString returns the position of the next quote or backslash at or
// after i, or -1. This is the dominant inner loop: every boring string
// byte is skipped via the classification masks.
func (b *builder) skipString(i int) int {
	for base := i &^ 63; base < len(b.src); base += 64 {
		m := b.maskAt(base)
		x := m.Quote | m.Backslash
		if base < i {
			x &= ^uint64(0) << uint(i-base)
		}
		if x != 0 {
			return base + mathbits.TrailingZeros64(x)
		}
	}
	return -1
}

// skipValue returns the position of the next whitespace, structural
// character or quote at or after i, or -1.
func (b *builder) skipValue(i int) int {
	for base := i &^ 63; base < len(b.src); base += 64 {
		m := b.maskAt(base)
		x := m.Whitespace | m.Structural | m.Quote
		if base < i {
			x &= ^uint64(0) << uint(i-base)
		}
		if x != 0 {
			return base + mathbits.TrailingZeros64(x)
		}
	}
	return -1
}

// finish drains both writers and builds the derived directories.
func (b *builder) finish(cfg buildConfig) *Index {
	b.ib.PushZeros(len(b.src) - b.ibPos)

	ib := b.ib.BitVector(bits.WithSelectSampleRate(cfg.selectSampleRate))
	bpWords, bpLen := b.bpw.Words()
	bpv := bits.New(bpWords, bpLen, bits.WithSelectSampleRate(cfg.selectSampleRate))

	return &Index{
		ib:      ib,
		bp:      bp.New(bpv, bp.WithBlockSize(cfg.bpBlockSize)),
		offsets: b.offsets,
		ends:    b.ends,
		srcLen:  len(b.src),
	}
}
