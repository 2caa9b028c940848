// Package bp implements a balanced-parentheses tree encoding over a
// bitvector (1 = open, 0 = close) with O(1) amortized matched-paren
// search via a hierarchical min-excess (RangeMin) index.
package bp

import (
	"github.com/rust-works/succinctly/bits"
)

// DefaultBlockSize is the RangeMin L1 block size in words.
const DefaultBlockSize = 32

// l2Factor is the number of L1 blocks per L2 block.
const l2Factor = 32

// BalancedParens wraps a finalized bitvector with per-word, per-block
// and per-superblock excess summaries. Like the bitvector it is
// immutable after construction and safe for concurrent readers.
//
// A globally balanced vector satisfies Excess(i) >= 0 for every prefix
// and Excess(Len()) == 0. Construction does not verify this: an
// unbalanced vector (from indexing malformed input) yields a structure
// whose searches simply fail to find matches.
type BalancedParens struct {
	bv *bits.BitVector

	// Per-word summaries, relative to the word's starting excess.
	wordMin   []int8
	wordTotal []int8

	// Absolute excess at block starts and minimum boundary excess
	// within each block. l1 blocks span blockSize words, l2 blocks
	// blockSize*l2Factor words.
	blockSize int
	l1Cum     []int32
	l1Min     []int32
	l2Cum     []int32
	l2Min     []int32
}

// Option configures BalancedParens construction.
type Option func(*config)

type config struct {
	blockSize int
}

// WithBlockSize sets the RangeMin L1 block size in words.
func WithBlockSize(words int) Option {
	return func(c *config) {
		if words > 0 {
			c.blockSize = words
		}
	}
}

// New builds the RangeMin index over bv. The vector is retained, not
// copied.
func New(bv *bits.BitVector, opts ...Option) *BalancedParens {
	cfg := config{blockSize: DefaultBlockSize}
	for _, o := range opts {
		o(&cfg)
	}
	b := &BalancedParens{bv: bv, blockSize: cfg.blockSize}
	b.buildRangeMin()
	return b
}

func (b *BalancedParens) buildRangeMin() {
	words := b.bv.Words()
	nw := len(words)
	l1w := b.blockSize
	l2w := l1w * l2Factor

	b.wordMin = make([]int8, nw)
	b.wordTotal = make([]int8, nw)
	b.l1Cum = make([]int32, (nw+l1w-1)/l1w)
	b.l1Min = make([]int32, (nw+l1w-1)/l1w)
	b.l2Cum = make([]int32, (nw+l2w-1)/l2w)
	b.l2Min = make([]int32, (nw+l2w-1)/l2w)

	cur := int32(0)
	for w := 0; w < nw; w++ {
		if w%l1w == 0 {
			b.l1Cum[w/l1w] = cur
			b.l1Min[w/l1w] = int32(1) << 30
		}
		if w%l2w == 0 {
			b.l2Cum[w/l2w] = cur
			b.l2Min[w/l2w] = int32(1) << 30
		}

		nbits := 64
		if w == nw-1 && b.bv.Len()%64 != 0 {
			nbits = b.bv.Len() % 64
		}
		min, total := wordExcess(words[w], nbits)
		b.wordMin[w] = min
		b.wordTotal[w] = total

		if m := cur + int32(min); m < b.l1Min[w/l1w] {
			b.l1Min[w/l1w] = m
		}
		if m := cur + int32(min); m < b.l2Min[w/l2w] {
			b.l2Min[w/l2w] = m
		}
		cur += int32(total)
	}
}

// wordExcess computes the minimum prefix excess and the total excess of
// the first nbits parens in word, via the byte tables with a bitwise
// tail.
func wordExcess(word uint64, nbits int) (min, total int8) {
	min = 127
	j := 0
	for ; j+8 <= nbits; j += 8 {
		bb := byte(word >> uint(j))
		if m := total + byteMinExcess[bb]; m < min {
			min = m
		}
		total += byteTotalExcess[bb]
	}
	for ; j < nbits; j++ {
		if word>>uint(j)&1 != 0 {
			total++
		} else {
			total--
		}
		if total < min {
			min = total
		}
	}
	return min, total
}

// Len returns the length of the underlying vector in parens.
func (b *BalancedParens) Len() int { return b.bv.Len() }

// Bits returns the underlying bitvector.
func (b *BalancedParens) Bits() *bits.BitVector { return b.bv }

// IsOpen reports whether position p holds an open paren.
func (b *BalancedParens) IsOpen(p int) bool { return b.bv.Get(p) }

// Rank1 returns the number of opens in [0, p).
func (b *BalancedParens) Rank1(p int) int { return b.bv.Rank1(p) }

// Excess returns the number of opens minus closes in [0, p), which is
// the tree depth at boundary p.
func (b *BalancedParens) Excess(p int) int {
	return 2*b.bv.Rank1(p) - p
}

// FindClose returns the position of the close matching the open at p.
// It returns (0, false) if p is out of range, not an open, or
// unmatched (malformed vector).
func (b *BalancedParens) FindClose(p int) (int, bool) {
	if p < 0 || p >= b.bv.Len() || !b.bv.Get(p) {
		return 0, false
	}
	return b.fwdSearch(p, b.Excess(p))
}

// FindOpen returns the position of the open matching the close at q.
func (b *BalancedParens) FindOpen(q int) (int, bool) {
	if q < 0 || q >= b.bv.Len() || b.bv.Get(q) {
		return 0, false
	}
	t := b.Excess(q + 1)
	return b.bwdSearch(q, t, t)
}

// Enclose returns the open paren of the node enclosing the open at p,
// or (0, false) at the root.
func (b *BalancedParens) Enclose(p int) (int, bool) {
	if p <= 0 || p >= b.bv.Len() || !b.bv.Get(p) {
		return 0, false
	}
	t := b.Excess(p)
	if t == 0 {
		return 0, false
	}
	return b.bwdSearch(p-1, t, t-1)
}

// FirstChild returns p+1 when the node at p has at least one child.
func (b *BalancedParens) FirstChild(p int) (int, bool) {
	if p+1 < b.bv.Len() && b.bv.Get(p) && b.bv.Get(p+1) {
		return p + 1, true
	}
	return 0, false
}

// NextSibling returns the open following this node's close, if any.
func (b *BalancedParens) NextSibling(p int) (int, bool) {
	c, ok := b.FindClose(p)
	if !ok {
		return 0, false
	}
	if r := c + 1; r < b.bv.Len() && b.bv.Get(r) {
		return r, true
	}
	return 0, false
}

// Parent is Enclose.
func (b *BalancedParens) Parent(p int) (int, bool) { return b.Enclose(p) }

// SubtreeSize returns the number of nodes in the subtree rooted at the
// open at p, including the node itself. Zero for invalid positions.
func (b *BalancedParens) SubtreeSize(p int) int {
	c, ok := b.FindClose(p)
	if !ok {
		return 0
	}
	return (c - p + 1) / 2
}
