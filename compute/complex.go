//go:build !nocomplex

package compute

import "github.com/LynnColeArt/gemmcheck"

// addComplex fills the complex entries of ks from a BLAS Cgemm/Zgemm pair.
// Both are always called with NoTrans, never ConjTrans.
func addComplex(ks *gemmcheck.Kernels, cgemm blasGemm[complex64], zgemm blasGemm[complex128]) {
	ks.C64 = blasKernel[complex64]{gemm: cgemm}
	ks.C128 = blasKernel[complex128]{gemm: zgemm}
}

func addNaiveComplex(ks *gemmcheck.Kernels) {
	ks.C64 = gemmcheck.KernelFunc[complex64](naive[complex64])
	ks.C128 = gemmcheck.KernelFunc[complex128](naive[complex128])
}

func addRecursiveComplex(ks *gemmcheck.Kernels, r Recursive) {
	ks.C64 = recursiveKernel[complex64]{r}
	ks.C128 = recursiveKernel[complex128]{r}
}
