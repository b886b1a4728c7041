package gemmcheck

import (
	"testing"
	"time"
)

// sink keeps benchmarked reference results observable.
var sink any

// BenchGemm times C := 1·(A×B) + 0·C through ks on zero-filled packed
// operands, reusing the same buffers every iteration.
func BenchGemm[T Scalar](b *testing.B, ks *Kernels, s Shape) {
	b.Helper()
	if !ks.Supports(TypeOf[T]()) {
		b.Skipf("%s: no %s kernel", ks.Name, TypeOf[T]())
	}
	benchGemm[T](b, ks, NewCase[T](s, LayoutRow))
}

// BenchIotaIdentity times the kernel with A = 0, 1, 2, ... and B = I.
func BenchIotaIdentity[T Scalar](b *testing.B, ks *Kernels, s Shape) {
	b.Helper()
	if !ks.Supports(TypeOf[T]()) {
		b.Skipf("%s: no %s kernel", ks.Name, TypeOf[T]())
	}
	c := NewCase[T](s, LayoutRow)
	c.FillIotaIdentity()
	benchGemm[T](b, ks, c)
}

func benchGemm[T Scalar](b *testing.B, ks *Kernels, c *Case[T]) {
	num := NumericOf[T]()
	alpha, beta := num.One(), num.Zero()
	k := KernelFor[T](ks)
	a, bb, cc := c.A, c.B, c.C
	ap, bp, cp := a.Ptr(), bb.Ptr(), cc.Ptr()

	b.SetBytes(int64((a.Rows*a.Cols + bb.Rows*bb.Cols + cc.Rows*cc.Cols) * TypeOf[T]().Size()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k.Gemm(c.Shape.M, c.Shape.K, c.Shape.N, alpha,
			ap, a.RowStride, a.ColStride,
			bp, bb.RowStride, bb.ColStride,
			beta,
			cp, cc.RowStride, cc.ColStride)
	}
	reportGFLOPS(b, c.Shape.Flops(TypeOf[T]()))
}

// BenchReference times ReferenceMatMul on zero-filled packed operands, the
// baseline the kernel's numbers are read against.
func BenchReference[T Scalar](b *testing.B, s Shape) {
	b.Helper()
	a := make([]T, s.M*s.K)
	bb := make([]T, s.K*s.N)
	c := make([]T, s.M*s.N)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ReferenceMatMul(s.M, s.K, s.N, a, bb, c)
		if len(c) > 0 {
			sink = c[0]
		}
	}
	reportGFLOPS(b, s.Flops(TypeOf[T]()))
}

func reportGFLOPS(b *testing.B, flops float64) {
	if b.N == 0 {
		return
	}
	perOp := b.Elapsed().Seconds() / float64(b.N)
	if perOp > 0 {
		b.ReportMetric(flops/perOp/1e9, "GFLOPS")
	}
}

// Timing is one benchmark measurement.
type Timing struct {
	Iterations int
	Elapsed    time.Duration
	NsPerOp    float64
	GFLOPS     float64
}

// Measure runs BenchGemm outside go test and returns its timing.
func Measure[T Scalar](ks *Kernels, s Shape) Timing {
	return timingOf(testing.Benchmark(func(b *testing.B) {
		BenchGemm[T](b, ks, s)
	}), s.Flops(TypeOf[T]()))
}

// MeasureReference runs BenchReference outside go test.
func MeasureReference[T Scalar](s Shape) Timing {
	return timingOf(testing.Benchmark(func(b *testing.B) {
		BenchReference[T](b, s)
	}), s.Flops(TypeOf[T]()))
}

func timingOf(r testing.BenchmarkResult, flops float64) Timing {
	t := Timing{Iterations: r.N, Elapsed: r.T}
	if r.N > 0 {
		t.NsPerOp = float64(r.T.Nanoseconds()) / float64(r.N)
	}
	if t.NsPerOp > 0 {
		t.GFLOPS = flops / t.NsPerOp
	}
	return t
}
