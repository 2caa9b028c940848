//go:build !amd64 && !arm64

package simd

func detectBest() NamedKernel {
	return NamedKernel{Name: "scalar", Kernel: classifyScalar}
}
