package simd

import (
	"math/rand"
	"testing"
)

// interesting covers every class plus bytes adjacent to the class
// constants, which is where broadword compares go wrong.
var interesting = []byte{
	'"', '\\', '{', '}', '[', ']', ',', ':',
	' ', '\t', '\n', '\r',
	'a', 'z', '0', '9', '-', '+', '.',
	0x00, 0x01, 0x1f, 0x21, 0x23, 0x5b, 0x5d, 0x7f, 0x80, 0xff,
}

func randomInput(rng *rand.Rand, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		if rng.Intn(2) == 0 {
			out[i] = interesting[rng.Intn(len(interesting))]
		} else {
			out[i] = byte(rng.Intn(256))
		}
	}
	return out
}

// TestKernelEquivalence drives every kernel explicitly over all input
// lengths up to twice the widest chunk, including lengths that are not
// multiples of any chunk width. Relying on the dispatched kernel alone
// would leave the others untested.
func TestKernelEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for _, nk := range AllKernels() {
		if nk.Name == "scalar" {
			continue
		}
		t.Run(nk.Name, func(t *testing.T) {
			for n := 1; n <= 128; n++ {
				for trial := 0; trial < 8; trial++ {
					in := randomInput(rng, n)
					if n > 64 {
						in = in[:64]
					}
					want := classifyScalar(in)
					got := nk.Kernel(in)
					if want != got {
						t.Fatalf("n=%d input=%q: masks differ:\nscalar: %+v\n%s: %+v", len(in), in, want, nk.Name, got)
					}
				}
			}
		})
	}
}

func TestClassifyScalar_KnownMasks(t *testing.T) {
	in := []byte(`{"a": [1,\`)
	// offsets:    0123456789
	m := classifyScalar(in)
	if m.Quote != 1<<1|1<<3 {
		t.Errorf("Quote: got %#b", m.Quote)
	}
	if m.Open != 1<<0|1<<6 {
		t.Errorf("Open: got %#b", m.Open)
	}
	if m.Structural != 1<<0|1<<4|1<<6|1<<8 {
		t.Errorf("Structural: got %#b", m.Structural)
	}
	if m.Whitespace != 1<<5 {
		t.Errorf("Whitespace: got %#b", m.Whitespace)
	}
	if m.Backslash != 1<<9 {
		t.Errorf("Backslash: got %#b", m.Backslash)
	}
	if m.ValueStart != 1<<2|1<<7|1<<9 {
		t.Errorf("ValueStart: got %#b", m.ValueStart)
	}
}

func TestClassify_EveryByteValue(t *testing.T) {
	// One window holding bytes 0..63, then 64..127, etc: every byte
	// value passes through every kernel.
	for base := 0; base < 256; base += 64 {
		in := make([]byte, 64)
		for i := range in {
			in[i] = byte(base + i)
		}
		want := classifyScalar(in)
		for _, nk := range AllKernels() {
			if got := nk.Kernel(in); got != want {
				t.Fatalf("kernel %s differs on byte range %d-%d", nk.Name, base, base+63)
			}
		}
	}
}

func TestDispatch_SelectAndParse(t *testing.T) {
	for _, d := range []Dispatch{Auto, ForceScalar, ForceSSE2, ForceSSE42, ForceAVX2, ForceNEON} {
		if Select(d) == nil {
			t.Fatalf("Select(%v) returned nil", d)
		}
		if d == Auto {
			continue
		}
		parsed, ok := ParseDispatch(d.String())
		if !ok || parsed != d {
			t.Errorf("ParseDispatch(%q): got %v, ok=%v", d.String(), parsed, ok)
		}
	}
	if _, ok := ParseDispatch("mmx"); ok {
		t.Errorf("ParseDispatch should reject unknown names")
	}
}

func TestActive_Idempotent(t *testing.T) {
	a := Active()
	b := Active()
	if a == nil || b == nil {
		t.Fatalf("Active returned nil")
	}
	if ActiveName() == "" {
		t.Fatalf("ActiveName empty")
	}
	// The cached kernel must classify like the scalar reference.
	in := []byte(`{"k":[true,null,1.5e3],"s":"a\"b"}`)
	if got, want := a(in), classifyScalar(in); got != want {
		t.Fatalf("active kernel differs from scalar reference")
	}
}
