package compute

import "github.com/LynnColeArt/gemmcheck"

// Naive returns strided triple-loop kernels. They are slow and simple, and
// serve as a second opinion next to the reference.
func Naive() *gemmcheck.Kernels {
	ks := &gemmcheck.Kernels{
		Name: "naive",
		F32:  gemmcheck.KernelFunc[float32](naive[float32]),
		F64:  gemmcheck.KernelFunc[float64](naive[float64]),
	}
	addNaiveComplex(ks)
	return ks
}

func naive[T gemmcheck.Scalar](m, k, n int, alpha T,
	a *T, rsa, csa int,
	b *T, rsb, csb int,
	beta T,
	c *T, rsc, csc int) {
	var zero T
	for i := range m {
		for j := range n {
			var v T
			if alpha != zero {
				var sum T
				for x := range k {
					sum += *gemmcheck.Elem(a, i, x, rsa, csa) * *gemmcheck.Elem(b, x, j, rsb, csb)
				}
				v = alpha * sum
			}
			p := gemmcheck.Elem(c, i, j, rsc, csc)
			if beta != zero {
				v += beta * *p
			}
			*p = v
		}
	}
}

func init() {
	Register("naive", Naive)
}
