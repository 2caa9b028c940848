//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func detectBest() NamedKernel {
	if cpu.ARM64.HasASIMD {
		return NamedKernel{Name: "neon", Kernel: classifySWAR16}
	}
	return NamedKernel{Name: "scalar", Kernel: classifyScalar}
}
