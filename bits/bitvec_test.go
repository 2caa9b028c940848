package bits

import (
	"math/rand"
	"testing"
)

func TestBitVector_Basic(t *testing.T) {
	tests := []struct {
		name  string
		words []uint64
		len   int
		ones  int
	}{
		{"empty", nil, 0, 0},
		{"single word alternating", []uint64{0xAAAAAAAAAAAAAAAA}, 64, 32},
		{"partial word", []uint64{0xFF}, 4, 4},
		{"two words", []uint64{^uint64(0), 0}, 128, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(append([]uint64(nil), tt.words...), tt.len)
			if v.Len() != tt.len {
				t.Fatalf("Len: expected %d, got %d", tt.len, v.Len())
			}
			if v.Ones() != tt.ones {
				t.Fatalf("Ones: expected %d, got %d", tt.ones, v.Ones())
			}
			if v.Rank1(v.Len()) != tt.ones {
				t.Errorf("Rank1(len): expected %d, got %d", tt.ones, v.Rank1(v.Len()))
			}
			if v.Rank1(0) != 0 {
				t.Errorf("Rank1(0): expected 0, got %d", v.Rank1(0))
			}
		})
	}
}

func TestBitVector_PartialWordMasked(t *testing.T) {
	// Bits beyond len in the final word must be cleared.
	v := New([]uint64{^uint64(0)}, 4)
	if v.Ones() != 4 {
		t.Fatalf("expected 4 ones after masking, got %d", v.Ones())
	}
	if got := v.Rank1(4); got != 4 {
		t.Fatalf("Rank1(4): expected 4, got %d", got)
	}
}

func TestBitVector_RankAgainstNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 63, 64, 65, 511, 512, 513, 4096, 100_000} {
		words := make([]uint64, (n+63)/64)
		for i := range words {
			words[i] = rng.Uint64()
		}
		v := New(words, n)

		rank := 0
		for i := 0; i < n; i++ {
			if got := v.Rank1(i); got != rank {
				t.Fatalf("n=%d: Rank1(%d): expected %d, got %d", n, i, rank, got)
			}
			if got := v.Rank0(i); got != i-rank {
				t.Fatalf("n=%d: Rank0(%d): expected %d, got %d", n, i, i-rank, got)
			}
			if v.Get(i) {
				rank++
			}
		}
		if got := v.Rank1(n); got != rank {
			t.Fatalf("n=%d: Rank1(len): expected %d, got %d", n, rank, got)
		}
	}
}

func TestBitVector_SelectRankInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, n := range []int{64, 1000, 70_000} {
		for _, density := range []float64{0.01, 0.5, 0.99} {
			words := make([]uint64, (n+63)/64)
			for i := 0; i < n; i++ {
				if rng.Float64() < density {
					words[i/64] |= 1 << uint(i%64)
				}
			}
			v := New(words, n)

			for k := 0; k < v.Ones(); k++ {
				pos, ok := v.Select1(k)
				if !ok {
					t.Fatalf("n=%d d=%v: Select1(%d) failed", n, density, k)
				}
				if !v.Get(pos) {
					t.Fatalf("n=%d d=%v: Select1(%d)=%d is not a one", n, density, k, pos)
				}
				if got := v.Rank1(pos); got != k {
					t.Fatalf("n=%d d=%v: Rank1(Select1(%d))=%d", n, density, k, got)
				}
				if got := v.Rank1(pos + 1); got != k+1 {
					t.Fatalf("n=%d d=%v: Rank1(Select1(%d)+1)=%d", n, density, k, got)
				}
			}
			if _, ok := v.Select1(v.Ones()); ok {
				t.Fatalf("Select1(total) should fail")
			}
		}
	}
}

func TestBitVector_SelectSampleRates(t *testing.T) {
	words := make([]uint64, 64)
	for i := range words {
		words[i] = 0x5555555555555555
	}
	for _, rate := range []int{1, 7, 64, 256, 1024} {
		v := New(append([]uint64(nil), words...), 64*64, WithSelectSampleRate(rate))
		for k := 0; k < v.Ones(); k += 97 {
			pos, ok := v.Select1(k)
			if !ok || pos != 2*k {
				t.Fatalf("rate=%d: Select1(%d): expected %d, got %d (ok=%v)", rate, k, 2*k, pos, ok)
			}
		}
	}
}

func TestBitVector_OutOfRangePanics(t *testing.T) {
	v := New([]uint64{1}, 8)
	for name, fn := range map[string]func(){
		"Get negative":  func() { v.Get(-1) },
		"Get past end":  func() { v.Get(8) },
		"Rank past end": func() { v.Rank1(9) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestNew_LengthTooLargePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New([]uint64{0}, 65)
}
