//go:build netlib && cgo

package compute

// Building with the netlib tag registers the system CBLAS (OpenBLAS on
// Linux, Accelerate on macOS) as the "netlib" provider.

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/netlib/blas/netlib"

	"github.com/LynnColeArt/gemmcheck"
)

// Netlib returns the kernels backed by the system CBLAS.
func Netlib() *gemmcheck.Kernels {
	impl := netlib.Implementation{}
	ks := &gemmcheck.Kernels{
		Name: "netlib",
		F32:  blasKernel[float32]{gemm: impl.Sgemm},
		F64:  blasKernel[float64]{gemm: impl.Dgemm},
	}
	addComplex(ks, impl.Cgemm, impl.Zgemm)
	return ks
}

func init() {
	Register("netlib", Netlib)
	log.Debug().Msg("netlib CBLAS kernels registered")
}
