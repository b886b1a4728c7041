package compute

import (
	"unsafe"

	"gonum.org/v1/gonum/blas"

	"github.com/LynnColeArt/gemmcheck"
)

// blasGemm is the row-major BLAS level 3 gemm signature shared by Sgemm,
// Dgemm, Cgemm and Zgemm.
type blasGemm[T gemmcheck.Scalar] func(tA, tB blas.Transpose, m, n, k int,
	alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int)

// blasKernel adapts a row-major BLAS gemm to the strided kernel contract.
// Operands whose strides a BLAS leading dimension can express are passed
// in place; anything else is packed into a temporary first.
type blasKernel[T gemmcheck.Scalar] struct {
	gemm blasGemm[T]
}

// operand is a matrix as BLAS sees it.
type operand[T any] struct {
	trans blas.Transpose
	data  []T
	ld    int
}

// asOperand expresses the rows×cols strided matrix at p as a BLAS operand
// without copying when the strides allow it.
func asOperand[T any](p *T, rows, cols, rs, cs int) operand[T] {
	switch {
	case cs == 1 && (rows == 1 || rs >= cols):
		ld := rs
		if rows == 1 {
			ld = max(cols, 1)
		}
		return operand[T]{trans: blas.NoTrans, data: unsafe.Slice(p, (rows-1)*ld+cols), ld: ld}
	case rs == 1 && (cols == 1 || cs >= rows):
		ld := cs
		if cols == 1 {
			ld = max(rows, 1)
		}
		return operand[T]{trans: blas.Trans, data: unsafe.Slice(p, (cols-1)*ld+rows), ld: ld}
	}
	return operand[T]{trans: blas.NoTrans, data: pack(p, rows, cols, rs, cs), ld: cols}
}

// flip returns the operand's transpose, which BLAS reads from the same
// storage with the opposite flag.
func (o operand[T]) flip() operand[T] {
	if o.trans == blas.NoTrans {
		o.trans = blas.Trans
	} else {
		o.trans = blas.NoTrans
	}
	return o
}

func pack[T any](p *T, rows, cols, rs, cs int) []T {
	out := make([]T, rows*cols)
	for i := range rows {
		for j := range cols {
			out[i*cols+j] = *gemmcheck.Elem(p, i, j, rs, cs)
		}
	}
	return out
}

func unpack[T any](src []T, p *T, rows, cols, rs, cs int) {
	for i := range rows {
		for j := range cols {
			*gemmcheck.Elem(p, i, j, rs, cs) = src[i*cols+j]
		}
	}
}

// Gemm implements gemmcheck.Kernel.
func (k blasKernel[T]) Gemm(m, kk, n int, alpha T,
	a *T, rsa, csa int,
	b *T, rsb, csb int,
	beta T,
	c *T, rsc, csc int) {
	if m == 0 || n == 0 {
		return
	}
	if kk == 0 {
		scale(m, n, beta, c, rsc, csc)
		return
	}

	opA := asOperand(a, m, kk, rsa, csa)
	opB := asOperand(b, kk, n, rsb, csb)

	switch {
	case csc == 1 && (m == 1 || rsc >= n):
		ldc := rsc
		if m == 1 {
			ldc = n
		}
		cs := unsafe.Slice(c, (m-1)*ldc+n)
		k.gemm(opA.trans, opB.trans, m, n, kk, alpha, opA.data, opA.ld, opB.data, opB.ld, beta, cs, ldc)
	case rsc == 1 && (n == 1 || csc >= m):
		// Column-major C: compute Cᵀ = Bᵀ·Aᵀ into it as row-major.
		ldc := csc
		if n == 1 {
			ldc = m
		}
		cs := unsafe.Slice(c, (n-1)*ldc+m)
		tb, ta := opB.flip(), opA.flip()
		k.gemm(tb.trans, ta.trans, n, m, kk, alpha, tb.data, tb.ld, ta.data, ta.ld, beta, cs, ldc)
	default:
		tmp := pack(c, m, n, rsc, csc)
		k.gemm(opA.trans, opB.trans, m, n, kk, alpha, opA.data, opA.ld, opB.data, opB.ld, beta, tmp, n)
		unpack(tmp, c, m, n, rsc, csc)
	}
}

// scale sets C := beta·C, storing exact zeros when beta is zero so NaN in
// C does not survive.
func scale[T gemmcheck.Scalar](m, n int, beta T, c *T, rs, cs int) {
	var zero T
	for i := range m {
		for j := range n {
			p := gemmcheck.Elem(c, i, j, rs, cs)
			if beta == zero {
				*p = zero
			} else {
				*p = beta * *p
			}
		}
	}
}
