package bits

import mathbits "math/bits"

// selectInWord returns the position of the k-th set bit in word,
// 0-indexed from the LSB. The caller guarantees k < OnesCount64(word).
//
// Clearing the k lowest set bits and taking the trailing-zero count of
// the remainder stays branch-free in the loop body; a BMI2 PDEP version
// would be observably identical.
func selectInWord(word uint64, k int) int {
	for ; k > 0; k-- {
		word &= word - 1
	}
	return mathbits.TrailingZeros64(word)
}
