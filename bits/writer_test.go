package bits

import (
	"math/rand"
	"testing"
)

func TestWriter_PushBit(t *testing.T) {
	w := NewWriter(0)
	pattern := []bool{true, false, true, true, false, false, true}
	for _, b := range pattern {
		w.PushBit(b)
	}
	v := w.BitVector()
	if v.Len() != len(pattern) {
		t.Fatalf("Len: expected %d, got %d", len(pattern), v.Len())
	}
	for i, b := range pattern {
		if v.Get(i) != b {
			t.Errorf("bit %d: expected %v, got %v", i, b, v.Get(i))
		}
	}
}

func TestWriter_PushSpansWords(t *testing.T) {
	w := NewWriter(0)
	w.PushZeros(60)
	w.Push(0b11111111, 8) // crosses the word 0 / word 1 boundary
	words, length := w.Words()
	if length != 68 {
		t.Fatalf("length: expected 68, got %d", length)
	}
	if words[0] != uint64(0b1111)<<60 {
		t.Fatalf("word 0: got %#x", words[0])
	}
	if words[1] != 0b1111 {
		t.Fatalf("word 1: got %#x", words[1])
	}
}

func TestWriter_PushMasksPayload(t *testing.T) {
	w := NewWriter(0)
	w.Push(^uint64(0), 3) // only the low 3 bits may land
	words, length := w.Words()
	if length != 3 || words[0] != 0b111 {
		t.Fatalf("got length=%d word=%#x", length, words[0])
	}
}

func TestWriter_PushZeros(t *testing.T) {
	w := NewWriter(0)
	w.PushBit(true)
	w.PushZeros(130)
	w.PushBit(true)
	v := w.BitVector()
	if v.Len() != 132 {
		t.Fatalf("Len: expected 132, got %d", v.Len())
	}
	if v.Ones() != 2 {
		t.Fatalf("Ones: expected 2, got %d", v.Ones())
	}
	if !v.Get(0) || !v.Get(131) {
		t.Fatalf("expected bits 0 and 131 set")
	}
}

func TestWriter_MatchesBitByBit(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	w := NewWriter(0)
	var ref []bool
	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			b := rng.Intn(2) == 1
			w.PushBit(b)
			ref = append(ref, b)
		case 1:
			n := rng.Intn(65)
			payload := rng.Uint64()
			w.Push(payload, n)
			for j := 0; j < n; j++ {
				ref = append(ref, payload>>uint(j)&1 != 0)
			}
		case 2:
			n := rng.Intn(100)
			w.PushZeros(n)
			for j := 0; j < n; j++ {
				ref = append(ref, false)
			}
		}
	}
	v := w.BitVector()
	if v.Len() != len(ref) {
		t.Fatalf("Len: expected %d, got %d", len(ref), v.Len())
	}
	for i, b := range ref {
		if v.Get(i) != b {
			t.Fatalf("bit %d: expected %v, got %v", i, b, v.Get(i))
		}
	}
}
