package gemmcheck

// Kernel is the strided GEMM primitive under test. Gemm overwrites C with
// alpha·(A×B) + beta·C where A is m×k, B is k×n and C is m×n, element (i, j)
// of X living at x + i*rsx + j*csx. Strides are in elements and may be
// negative or non-contiguous.
//
// Gemm trusts its caller: no bounds or aliasing checks are performed and a
// violated precondition is undefined behavior. C must not be read or
// written by anyone else for the duration of the call.
type Kernel[T Scalar] interface {
	Gemm(m, k, n int, alpha T,
		a *T, rsa, csa int,
		b *T, rsb, csb int,
		beta T,
		c *T, rsc, csc int)
}

// KernelFunc adapts a plain function to the Kernel interface.
type KernelFunc[T Scalar] func(m, k, n int, alpha T, a *T, rsa, csa int, b *T, rsb, csb int, beta T, c *T, rsc, csc int)

// Gemm calls f.
func (f KernelFunc[T]) Gemm(m, k, n int, alpha T, a *T, rsa, csa int, b *T, rsb, csb int, beta T, c *T, rsc, csc int) {
	f(m, k, n, alpha, a, rsa, csa, b, rsb, csb, beta, c, rsc, csc)
}

// Kernels is the table of concrete kernels injected into the harness, one
// per element type. The complex entries are nil when the kernel provider
// has no complex capability.
type Kernels struct {
	Name string
	F32  Kernel[float32]
	F64  Kernel[float64]
	C64  Kernel[complex64]
	C128 Kernel[complex128]
}

// Supports reports whether ks provides a kernel for t in this build.
func (ks *Kernels) Supports(t Type) bool {
	if ks == nil {
		return false
	}
	switch t {
	case Float32:
		return ks.F32 != nil
	case Float64:
		return ks.F64 != nil
	case Complex64:
		return ComplexEnabled && ks.C64 != nil
	case Complex128:
		return ComplexEnabled && ks.C128 != nil
	}
	return false
}

// Types lists the element types ks supports, in AllTypes order.
func (ks *Kernels) Types() []Type {
	var out []Type
	for _, t := range AllTypes() {
		if ks.Supports(t) {
			out = append(out, t)
		}
	}
	return out
}

// KernelFor selects the kernel for T from ks. It returns nil when ks has
// none.
func KernelFor[T Scalar](ks *Kernels) Kernel[T] {
	if !ks.Supports(TypeOf[T]()) {
		return nil
	}
	var k any
	switch TypeOf[T]() {
	case Float32:
		k = ks.F32
	case Float64:
		k = ks.F64
	case Complex64:
		k = ks.C64
	case Complex128:
		k = ks.C128
	}
	return k.(Kernel[T])
}

// Gemm performs C := alpha·(A×B) + beta·C with the kernel ks provides for
// T. Complex kernels are always asked for the standard operation, with no
// transpose or conjugation. Nothing is validated; see Kernel.
func Gemm[T Scalar](ks *Kernels, m, k, n int, alpha T,
	a *T, rsa, csa int,
	b *T, rsb, csb int,
	beta T,
	c *T, rsc, csc int) {
	KernelFor[T](ks).Gemm(m, k, n, alpha, a, rsa, csa, b, rsb, csb, beta, c, rsc, csc)
}

// GemmView is Gemm with the shape and strides taken from views: m and k
// from a, n from b. The views are not validated; call View.Check first.
func GemmView[T Scalar](ks *Kernels, alpha T, a, b View[T], beta T, c View[T]) {
	Gemm(ks, a.Rows, a.Cols, b.Cols, alpha,
		a.Ptr(), a.RowStride, a.ColStride,
		b.Ptr(), b.RowStride, b.ColStride,
		beta,
		c.Ptr(), c.RowStride, c.ColStride)
}
