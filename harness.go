package gemmcheck

import (
	"golang.org/x/exp/rand"
)

// Case owns the operand buffers of one (type, shape, layout) combination.
// Buffers are fresh per case and never shared between cases.
type Case[T Scalar] struct {
	Shape  Shape
	Layout Layout
	A      View[T] // M×K
	B      View[T] // K×N
	C      View[T] // M×N
}

// NewCase allocates zeroed operands for s laid out per l.
func NewCase[T Scalar](s Shape, l Layout) *Case[T] {
	return &Case[T]{
		Shape:  s,
		Layout: l,
		A:      alloc[T](l, s.M, s.K),
		B:      alloc[T](l, s.K, s.N),
		C:      alloc[T](l, s.M, s.N),
	}
}

// Check runs the caller-side length assertions on all three operands.
func (c *Case[T]) Check() error {
	for _, v := range []View[T]{c.A, c.B, c.C} {
		if err := v.Check(); err != nil {
			return err
		}
	}
	return nil
}

// Fill sets A, B and C to small random integers in [-3, 3] (both
// components for complex types). Products and sums of such values are
// exact even at k = 10000, so any rounding slack in a comparison is the
// kernel's reordering, never the data.
func (c *Case[T]) Fill(seed uint64) {
	c.fill(seed, false)
}

// FillNonZero is Fill without zero components. Kernels may skip zero
// multiplicands, which would hide a NaN in the other operand.
func (c *Case[T]) FillNonZero(seed uint64) {
	c.fill(seed, true)
}

func (c *Case[T]) fill(seed uint64, nonZero bool) {
	num := NumericOf[T]()
	rng := rand.New(rand.NewSource(seed))
	small := func() int64 {
		if nonZero {
			v := int64(rng.Intn(3)) + 1
			if rng.Intn(2) == 0 {
				v = -v
			}
			return v
		}
		return int64(rng.Intn(7)) - 3
	}
	gen := func(int, int) T { return num.FromInts(small(), small()) }
	c.A.Fill(gen)
	c.B.Fill(gen)
	c.C.Fill(gen)
}

// FillFractional sets A, B and C to multiples of 1/997 in [-1, 1]. Unlike
// Fill, products and sums round, so agreement depends on the tolerance.
func (c *Case[T]) FillFractional(seed uint64) {
	num := NumericOf[T]()
	rng := rand.New(rand.NewSource(seed))
	den := num.FromInt(997)
	part := func() int64 { return int64(rng.Intn(1995)) - 997 }
	gen := func(int, int) T { return num.FromInts(part(), part()) / den }
	c.A.Fill(gen)
	c.B.Fill(gen)
	c.C.Fill(gen)
}

// Magnitude returns |alpha|·Σ|A(i,x)|·|B(x,j)| + |beta|·|C(i,j)| per element
// of C, packed row-major. It scales the rounding error any summation order
// can make, for VerifyScaled.
func (c *Case[T]) Magnitude(alpha, beta T) []float64 {
	m, k, n := c.Shape.M, c.Shape.K, c.Shape.N
	abs := func(v View[T]) []float64 {
		out := make([]float64, v.Rows*v.Cols)
		for i, x := range v.Pack() {
			out[i] = magnitude(x)
		}
		return out
	}
	a, b, cc := abs(c.A), abs(c.B), abs(c.C)
	ma, mb := magnitude(alpha), magnitude(beta)
	out := make([]float64, m*n)
	for i := range m {
		for j := range n {
			var sum float64
			for x := range k {
				sum += a[i*k+x] * b[x*n+j]
			}
			out[i*n+j] = ma*sum + mb*cc[i*n+j]
		}
	}
	return out
}

// FillIotaIdentity sets A to 0, 1, 2, ... in row-major order and B to the
// identity pattern, leaving C alone.
func (c *Case[T]) FillIotaIdentity() {
	num := NumericOf[T]()
	c.A.Fill(func(i, j int) T { return num.FromInt(int64(i*c.Shape.K + j)) })
	c.B.Fill(func(i, j int) T {
		if i == j {
			return num.One()
		}
		return num.Zero()
	})
}

// LaceNaN overwrites every every-th element of v (in row-major order)
// with NaN, starting at the first.
func LaceNaN[T Scalar](v View[T], every int) {
	if every < 1 {
		every = 1
	}
	nan := NumericOf[T]().NaN()
	for i := range v.Rows {
		for j := range v.Cols {
			if (i*v.Cols+j)%every == 0 {
				v.Set(i, j, nan)
			}
		}
	}
}

// Gemm runs C := alpha·(A×B) + beta·C through the kernel table.
func (c *Case[T]) Gemm(ks *Kernels, alpha, beta T) {
	GemmView(ks, alpha, c.A, c.B, beta, c.C)
}

// Reference returns what C := alpha·(A×B) + beta·C must produce, packed
// row-major, without touching the case's own C.
func (c *Case[T]) Reference(alpha, beta T) []T {
	want := c.C.Clone()
	ReferenceGemm(alpha, c.A, c.B, beta, want)
	return want.Pack()
}

// ScalarPair is an (alpha, beta) pair for the affine update.
type ScalarPair[T Scalar] struct {
	Alpha T
	Beta  T
}

// DefaultScalars returns the scalar pairs agreement checks sweep: a pure
// product, an accumulate, and a general pair with nonzero imaginary parts
// for complex types.
func DefaultScalars[T Scalar]() []ScalarPair[T] {
	num := NumericOf[T]()
	return []ScalarPair[T]{
		{Alpha: num.One(), Beta: num.Zero()},
		{Alpha: num.One(), Beta: num.One()},
		{Alpha: num.FromInts(2, 1), Beta: num.FromInts(-3, 2)},
	}
}
