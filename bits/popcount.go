package bits

import mathbits "math/bits"

// PopcountSlice returns the total number of one-bits in words.
//
// Slices of 16 words and longer go through a Harley-Seal carry-save
// tree, which issues one hardware popcount per 16 words instead of one
// per word; the tail falls back to per-word counting. Both paths are
// bit-exact.
func PopcountSlice(words []uint64) uint64 {
	if len(words) < 16 {
		return popcountScalar(words)
	}
	return popcountHarleySeal(words)
}

func popcountScalar(words []uint64) uint64 {
	var total uint64
	for _, w := range words {
		total += uint64(mathbits.OnesCount64(w))
	}
	return total
}

// csa is a carry-save adder over bit-sliced counters: sum holds the low
// bit of a+b+c per lane, carry the high bit.
func csa(a, b, c uint64) (sum, carry uint64) {
	u := a ^ b
	return u ^ c, (a & b) | (u & c)
}

func popcountHarleySeal(words []uint64) uint64 {
	var total uint64
	var ones, twos, fours, eights, sixteens uint64
	i := 0
	for ; i+16 <= len(words); i += 16 {
		var twosA, twosB, foursA, foursB, eightsA, eightsB uint64

		ones, twosA = csa(ones, words[i], words[i+1])
		ones, twosB = csa(ones, words[i+2], words[i+3])
		twos, foursA = csa(twos, twosA, twosB)
		ones, twosA = csa(ones, words[i+4], words[i+5])
		ones, twosB = csa(ones, words[i+6], words[i+7])
		twos, foursB = csa(twos, twosA, twosB)
		fours, eightsA = csa(fours, foursA, foursB)
		ones, twosA = csa(ones, words[i+8], words[i+9])
		ones, twosB = csa(ones, words[i+10], words[i+11])
		twos, foursA = csa(twos, twosA, twosB)
		ones, twosA = csa(ones, words[i+12], words[i+13])
		ones, twosB = csa(ones, words[i+14], words[i+15])
		twos, foursB = csa(twos, twosA, twosB)
		fours, eightsB = csa(fours, foursA, foursB)
		eights, sixteens = csa(eights, eightsA, eightsB)

		total += uint64(mathbits.OnesCount64(sixteens))
	}
	total *= 16
	total += 8 * uint64(mathbits.OnesCount64(eights))
	total += 4 * uint64(mathbits.OnesCount64(fours))
	total += 2 * uint64(mathbits.OnesCount64(twos))
	total += uint64(mathbits.OnesCount64(ones))
	for ; i < len(words); i++ {
		total += uint64(mathbits.OnesCount64(words[i]))
	}
	return total
}
