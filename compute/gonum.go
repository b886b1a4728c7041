package compute

import (
	"gonum.org/v1/gonum/blas/gonum"

	"github.com/LynnColeArt/gemmcheck"
)

// Gonum returns the kernels backed by gonum's pure Go BLAS. Complex
// entries are present unless the build has complex support compiled out.
func Gonum() *gemmcheck.Kernels {
	impl := gonum.Implementation{}
	ks := &gemmcheck.Kernels{
		Name: "gonum",
		F32:  blasKernel[float32]{gemm: impl.Sgemm},
		F64:  blasKernel[float64]{gemm: impl.Dgemm},
	}
	addComplex(ks, impl.Cgemm, impl.Zgemm)
	return ks
}

func init() {
	Register("gonum", Gonum)
}
