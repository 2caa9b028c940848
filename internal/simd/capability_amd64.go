//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// detectBest picks the widest kernel the CPU supports. SSE2 is part of
// the amd64 baseline, so the 16-byte kernel is always available.
func detectBest() NamedKernel {
	if cpu.X86.HasAVX2 {
		return NamedKernel{Name: "avx2", Kernel: classifySWAR32}
	}
	if cpu.X86.HasSSE42 {
		return NamedKernel{Name: "sse4.2", Kernel: classifySWAR16}
	}
	return NamedKernel{Name: "sse2", Kernel: classifySWAR16}
}
