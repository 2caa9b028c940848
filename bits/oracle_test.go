package bits

import (
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/require"
)

// Roaring bitmaps expose their own rank and select; they serve as an
// independent oracle for the directory-based implementations here.
func TestBitVector_RoaringOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, n := range []int{100, 5_000, 200_000} {
		words := make([]uint64, (n+63)/64)
		rb := roaring.New()
		for i := 0; i < n; i++ {
			if rng.Intn(4) == 0 {
				words[i/64] |= 1 << uint(i%64)
				rb.Add(uint32(i))
			}
		}
		v := New(words, n)
		require.Equal(t, int(rb.GetCardinality()), v.Ones())

		// roaring's Rank is inclusive of the argument: it counts
		// values <= i, which is Rank1(i+1) here.
		for i := 0; i < n; i += 37 {
			require.Equal(t, int(rb.Rank(uint32(i))), v.Rank1(i+1), "rank at %d", i)
		}

		for k := 0; k < v.Ones(); k += 53 {
			want, err := rb.Select(uint32(k))
			require.NoError(t, err)
			got, ok := v.Select1(k)
			require.True(t, ok)
			require.Equal(t, int(want), got, "select %d", k)
		}
	}
}
