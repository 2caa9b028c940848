package simd

import (
	"os"
	"strings"
	"sync/atomic"
)

// Dispatch selects a classification kernel. Auto resolves the best
// kernel for the host CPU once per process; the Force values exist for
// testing and pin a specific code path.
type Dispatch uint8

const (
	Auto Dispatch = iota
	ForceScalar
	ForceSSE2
	ForceSSE42
	ForceAVX2
	ForceNEON
)

// String returns the lowercase name of d.
func (d Dispatch) String() string {
	switch d {
	case Auto:
		return "auto"
	case ForceScalar:
		return "scalar"
	case ForceSSE2:
		return "sse2"
	case ForceSSE42:
		return "sse4.2"
	case ForceAVX2:
		return "avx2"
	case ForceNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// ParseDispatch parses a dispatch name, as used by the
// SUCCINCTLY_SIMD environment override.
func ParseDispatch(s string) (Dispatch, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return Auto, true
	case "scalar":
		return ForceScalar, true
	case "sse2":
		return ForceSSE2, true
	case "sse4.2", "sse42":
		return ForceSSE42, true
	case "avx2":
		return ForceAVX2, true
	case "neon":
		return ForceNEON, true
	default:
		return Auto, false
	}
}

// NamedKernel pairs a kernel with its dispatch name, for the
// equivalence test harness.
type NamedKernel struct {
	Name   string
	Kernel Kernel
}

// AllKernels returns every kernel implementation. All of them are
// portable Go and runnable on any host, so tests exercise each one
// directly rather than only the dispatched choice.
func AllKernels() []NamedKernel {
	return []NamedKernel{
		{Name: "scalar", Kernel: classifyScalar},
		{Name: "swar16", Kernel: classifySWAR16},
		{Name: "swar32", Kernel: classifySWAR32},
	}
}

// Select returns the kernel for a dispatch value. The 128-bit targets
// (SSE2, SSE4.2, NEON) share the 16-byte kernel; AVX2 maps to the
// 32-byte kernel.
func Select(d Dispatch) Kernel {
	switch d {
	case ForceScalar:
		return classifyScalar
	case ForceSSE2, ForceSSE42, ForceNEON:
		return classifySWAR16
	case ForceAVX2:
		return classifySWAR32
	default:
		return Active()
	}
}

// activeKernel caches the Auto resolution. The write is idempotent:
// every resolver computes the same value, so a racing double-store is
// harmless.
var activeKernel atomic.Pointer[NamedKernel]

// Active returns the process-wide kernel for Auto dispatch, resolving
// CPU features (and the SUCCINCTLY_SIMD override) on first use.
func Active() Kernel {
	if k := activeKernel.Load(); k != nil {
		return k.Kernel
	}
	k := resolve()
	activeKernel.Store(&k)
	return k.Kernel
}

// ActiveName returns the name of the Auto-dispatch kernel.
func ActiveName() string {
	Active()
	return activeKernel.Load().Name
}

func resolve() NamedKernel {
	if env := os.Getenv("SUCCINCTLY_SIMD"); env != "" {
		if d, ok := ParseDispatch(env); ok && d != Auto {
			return NamedKernel{Name: d.String(), Kernel: Select(d)}
		}
	}
	return detectBest()
}
