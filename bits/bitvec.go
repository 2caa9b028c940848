// Package bits provides an immutable bitvector with O(1) rank and
// O(log n) select, the base layer for the succinct structures in this
// module.
//
// Bit i of the logical sequence is held in the (i mod 64)-th least
// significant bit of words[i/64]. This ordering is binding for
// serialization and for every structure built on top.
package bits

import (
	"fmt"
	mathbits "math/bits"
)

const (
	// wordBits is the basic block size: one 64-bit word.
	wordBits = 64

	// superWords is the number of words per superblock (512 bits).
	superWords = 8

	// megaWords is the number of words per megablock (32 Ki bits).
	megaWords = 512

	// DefaultSelectSampleRate records one select sample (a 32-bit
	// word index) for every 256 one-bits: an overhead of density/8
	// of the vector's bits, ~1% at 8% density and 12.5% when all
	// bits are set.
	DefaultSelectSampleRate = 256
)

// BitVector is an immutable fixed-length bit sequence with a three-level
// cumulative-popcount directory for rank and sparse samples for select.
//
// The directory and samples are derived from words at construction time
// and never change afterwards, so a BitVector may be shared across
// goroutines without synchronization.
type BitVector struct {
	words  []uint64
	length int
	ones   int

	// Rank directory. mega holds the absolute one-count before each
	// megablock; super the count before each superblock relative to
	// its megablock; basic the count before each word relative to its
	// superblock.
	mega  []uint64
	super []uint32
	basic []uint16

	// selectSamples[j] is the index of the word containing the
	// (j*sampleRate)-th one-bit.
	selectSamples []uint32
	sampleRate    int
}

// Option configures BitVector construction.
type Option func(*config)

type config struct {
	sampleRate int
}

// WithSelectSampleRate sets the select sampling rate K: one sample is
// recorded for every K one-bits. Higher values shrink the index and
// slow down Select1.
func WithSelectSampleRate(k int) Option {
	return func(c *config) {
		if k > 0 {
			c.sampleRate = k
		}
	}
}

// New builds a BitVector from packed words and a length in bits.
// Bits at positions >= length in the final word are cleared.
// New panics if length does not fit in words.
func New(words []uint64, length int, opts ...Option) *BitVector {
	if length < 0 || length > len(words)*wordBits {
		panic(fmt.Sprintf("bits: length %d out of range for %d words", length, len(words)))
	}
	cfg := config{sampleRate: DefaultSelectSampleRate}
	for _, o := range opts {
		o(&cfg)
	}

	nw := (length + wordBits - 1) / wordBits
	words = words[:nw]
	if length%wordBits != 0 && nw > 0 {
		words[nw-1] &= (uint64(1) << (length % wordBits)) - 1
	}

	v := &BitVector{
		words:      words,
		length:     length,
		sampleRate: cfg.sampleRate,
	}
	v.buildDirectory()
	return v
}

// buildDirectory fills the rank directory and select samples in a
// single pass over the words.
func (v *BitVector) buildDirectory() {
	nw := len(v.words)
	v.basic = make([]uint16, nw)
	v.super = make([]uint32, (nw+superWords-1)/superWords)
	v.mega = make([]uint64, (nw+megaWords-1)/megaWords)

	var abs uint64
	var megaStart, superStart uint64
	for w := 0; w < nw; w++ {
		if w%megaWords == 0 {
			v.mega[w/megaWords] = abs
			megaStart = abs
		}
		if w%superWords == 0 {
			v.super[w/superWords] = uint32(abs - megaStart)
			superStart = abs
		}
		v.basic[w] = uint16(abs - superStart)

		c := uint64(mathbits.OnesCount64(v.words[w]))
		// Record a sample for every k-th one that lands in this word.
		if c > 0 {
			first := (abs + uint64(v.sampleRate) - 1) / uint64(v.sampleRate) * uint64(v.sampleRate)
			for k := first; k < abs+c; k += uint64(v.sampleRate) {
				v.selectSamples = append(v.selectSamples, uint32(w))
			}
		}
		abs += c
	}
	v.ones = int(abs)
}

// Len returns the length in bits.
func (v *BitVector) Len() int { return v.length }

// Ones returns the total number of one-bits.
func (v *BitVector) Ones() int { return v.ones }

// Words returns the backing word slice. The slice must not be modified.
func (v *BitVector) Words() []uint64 { return v.words }

// Get returns the bit at position i. It panics if i is out of range.
func (v *BitVector) Get(i int) bool {
	if i < 0 || i >= v.length {
		panic(fmt.Sprintf("bits: Get(%d) out of range [0,%d)", i, v.length))
	}
	return v.words[i/wordBits]>>(uint(i)%wordBits)&1 != 0
}

// Rank1 returns the number of one-bits in [0, i). It panics if i is
// outside [0, Len()].
func (v *BitVector) Rank1(i int) int {
	if i < 0 || i > v.length {
		panic(fmt.Sprintf("bits: Rank1(%d) out of range [0,%d]", i, v.length))
	}
	if i == v.length {
		return v.ones
	}
	w := i / wordBits
	r := v.mega[w/megaWords] + uint64(v.super[w/superWords]) + uint64(v.basic[w])
	if rem := uint(i) % wordBits; rem != 0 {
		r += uint64(mathbits.OnesCount64(v.words[w] & ((uint64(1) << rem) - 1)))
	}
	return int(r)
}

// Rank0 returns the number of zero-bits in [0, i).
func (v *BitVector) Rank0(i int) int {
	return i - v.Rank1(i)
}

// rankWordStart returns the number of one-bits before word w. Callers
// guarantee 0 <= w <= len(words); w == len(words) yields the total.
func (v *BitVector) rankWordStart(w int) int {
	if w == len(v.words) {
		return v.ones
	}
	return int(v.mega[w/megaWords] + uint64(v.super[w/superWords]) + uint64(v.basic[w]))
}

// Select1 returns the position of the k-th one-bit (0-indexed) and
// true, or (0, false) when k >= Ones().
//
// The sparse samples bracket the candidate word range; a binary search
// over word-start ranks (each O(1) via the directory) narrows it to a
// single word, then selectInWord finishes.
func (v *BitVector) Select1(k int) (int, bool) {
	if k < 0 || k >= v.ones {
		return 0, false
	}
	j := k / v.sampleRate
	lo := int(v.selectSamples[j])
	hi := len(v.words)
	if j+1 < len(v.selectSamples) {
		hi = int(v.selectSamples[j+1]) + 1
	}
	// Largest word w in [lo, hi) with rankWordStart(w) <= k.
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if v.rankWordStart(mid) <= k {
			lo = mid
		} else {
			hi = mid
		}
	}
	rem := k - v.rankWordStart(lo)
	return lo*wordBits + selectInWord(v.words[lo], rem), true
}
