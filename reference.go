// Package gemmcheck reference implementation used as the oracle
package gemmcheck

import "fmt"

// Arith is the minimal arithmetic the reference multiply needs: a zero
// value, + and *. Complex arithmetic comes from Go's own operators.
type Arith interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// ReferenceMatMul computes C = A×B for packed row-major operands, A m×k,
// B k×n, C m×n. It is a plain triple loop: each C element is a left fold
// starting from zero over x = 0..k-1 in ascending order, which fixes the
// rounding the comparisons are calibrated against.
//
// Buffer lengths are asserted before any element is touched; a short
// buffer panics with an InvalidDimension *Error.
func ReferenceMatMul[T Arith](m, k, n int, a, b, c []T) {
	if m < 0 || k < 0 || n < 0 {
		panic(NewInvalidDimensionError("ReferenceMatMul",
			fmt.Sprintf("negative shape %dx%dx%d", m, k, n)))
	}
	if len(a) < m*k {
		panic(NewInvalidDimensionError("ReferenceMatMul",
			fmt.Sprintf("A has %d elements, need %d", len(a), m*k)))
	}
	if len(b) < k*n {
		panic(NewInvalidDimensionError("ReferenceMatMul",
			fmt.Sprintf("B has %d elements, need %d", len(b), k*n)))
	}
	if len(c) < m*n {
		panic(NewInvalidDimensionError("ReferenceMatMul",
			fmt.Sprintf("C has %d elements, need %d", len(c), m*n)))
	}
	a, b, c = a[:m*k], b[:k*n], c[:m*n]

	for i := range m {
		row := a[i*k : i*k+k]
		for j := range n {
			var s T
			for x, ax := range row {
				s = s + ax*b[x*n+j]
			}
			c[i*n+j] = s
		}
	}
}

// ReferenceGemm is the strided affine update C := alpha·(A×B) + beta·C
// built on ReferenceMatMul. The product term is skipped when alpha is zero
// and the old C is discarded when beta is zero, so NaNs in the skipped
// operands never reach the result.
//
// All three views are checked first; a violation panics with an
// InvalidDimension *Error.
func ReferenceGemm[T Arith](alpha T, a, b View[T], beta T, c View[T]) {
	for _, v := range []struct {
		name string
		err  error
	}{{"A", a.Check()}, {"B", b.Check()}, {"C", c.Check()}} {
		if v.err != nil {
			panic(NewInvalidDimensionError("ReferenceGemm", v.name+": "+v.err.Error()))
		}
	}
	m, k, n := a.Rows, a.Cols, b.Cols
	if b.Rows != k || c.Rows != m || c.Cols != n {
		panic(NewInvalidDimensionError("ReferenceGemm",
			fmt.Sprintf("incompatible shapes A %dx%d, B %dx%d, C %dx%d",
				a.Rows, a.Cols, b.Rows, b.Cols, c.Rows, c.Cols)))
	}

	var zero T
	var p []T
	if alpha != zero {
		p = make([]T, m*n)
		ReferenceMatMul(m, k, n, a.Pack(), b.Pack(), p)
	}
	for i := range m {
		for j := range n {
			var v T
			if alpha != zero {
				v = alpha * p[i*n+j]
			}
			if beta != zero {
				v = v + beta*c.At(i, j)
			}
			c.Set(i, j, v)
		}
	}
}
