package gemmcheck

import (
	"fmt"
)

// CheckOptions tunes a correctness check.
type CheckOptions[T Scalar] struct {
	// Seed for the operand fill
	Seed uint64
	// Scalars swept by CheckAgreement; DefaultScalars when empty
	Scalars []ScalarPair[T]
	// Tolerance per element before depth widening; DefaultTolerance when zero
	Tolerance ToleranceConfig
	// LaceNaN also runs an agreement pass with NaNs laced into A
	LaceNaN bool
	// NaNEvery is the NaN lacing period; DefaultNaNEvery when zero
	NaNEvery int
}

func (o CheckOptions[T]) withDefaults() CheckOptions[T] {
	if len(o.Scalars) == 0 {
		o.Scalars = DefaultScalars[T]()
	}
	if o.Tolerance == (ToleranceConfig{}) {
		o.Tolerance = DefaultTolerance(TypeOf[T]())
	}
	if o.NaNEvery == 0 {
		o.NaNEvery = DefaultNaNEvery
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// compare checks got against want element by element and returns a
// mismatch *Error naming the first offending index. With nanFree set, any
// NaN in got is a mismatch even if want has one too.
func compare[T Scalar](op string, s Shape, want, got []T, tol ToleranceConfig, nanFree bool) error {
	num := NumericOf[T]()
	typ := TypeOf[T]()
	if len(want) != len(got) {
		return NewMismatchError(op, typ, s, min(len(want), len(got)),
			fmt.Sprintf("length %d, want %d", len(got), len(want)))
	}
	if nanFree {
		for i, g := range got {
			if num.IsNaN(g) {
				return NewMismatchError(op, typ, s, i, fmt.Sprintf("got NaN %v, want %v", g, want[i]))
			}
		}
	}
	res := Verify(want, got, tol)
	if res.OK() {
		return nil
	}
	i := res.FirstError
	return NewMismatchError(op, typ, s, i,
		fmt.Sprintf("got %v, want %v (%d/%d differ)", got[i], want[i], res.NumErrors, res.TotalItems))
}

// CheckAgreement runs the kernel and the reference on identical inputs
// for every scalar pair in opts and requires matching results. NaN at the
// same position on both sides is a match.
func CheckAgreement[T Scalar](ks *Kernels, s Shape, l Layout, opts CheckOptions[T]) error {
	const op = "CheckAgreement"
	if !ks.Supports(TypeOf[T]()) {
		return NewUnsupportedError(op, TypeOf[T]())
	}
	opts = opts.withDefaults()

	// Integer fills sum exactly in any order, so they get the undeepened
	// tolerance.
	run := func(c *Case[T], p ScalarPair[T]) error {
		if err := c.Check(); err != nil {
			return err
		}
		want := c.Reference(p.Alpha, p.Beta)
		c.Gemm(ks, p.Alpha, p.Beta)
		return compare(op, s, want, c.C.Pack(), opts.Tolerance, false)
	}

	for _, p := range opts.Scalars {
		c := NewCase[T](s, l)
		c.Fill(opts.Seed)
		if err := run(c, p); err != nil {
			return err
		}
	}
	if opts.LaceNaN {
		p := opts.Scalars[len(opts.Scalars)-1]
		c := NewCase[T](s, l)
		c.FillNonZero(opts.Seed)
		LaceNaN(c.A, opts.NaNEvery)
		if err := run(c, p); err != nil {
			return err
		}
	}
	return checkRounded(op, ks, s, l, opts)
}

// checkRounded is the agreement pass on fractional data, where the kernel
// and the reference round differently. Errors are measured against
// Case.Magnitude with the tolerance widened for depth K.
func checkRounded[T Scalar](op string, ks *Kernels, s Shape, l Layout, opts CheckOptions[T]) error {
	p := opts.Scalars[len(opts.Scalars)-1]
	c := NewCase[T](s, l)
	c.FillFractional(opts.Seed)
	if err := c.Check(); err != nil {
		return err
	}
	want := c.Reference(p.Alpha, p.Beta)
	scale := c.Magnitude(p.Alpha, p.Beta)
	c.Gemm(ks, p.Alpha, p.Beta)
	got := c.C.Pack()

	res := VerifyScaled(want, got, scale, opts.Tolerance.ForDepth(s.K))
	if res.OK() {
		return nil
	}
	i := res.FirstError
	return NewMismatchError(op, TypeOf[T](), s, i,
		fmt.Sprintf("fractional fill: got %v, want %v (%d/%d differ)", got[i], want[i], res.NumErrors, res.TotalItems))
}

// CheckIdentity sets alpha = 1, beta = 0 and B to the k×n identity pattern
// (ones on the diagonal) and requires C to equal A extended with zero
// columns or truncated to m×n. C starts out NaN-laced to show it is
// discarded.
func CheckIdentity[T Scalar](ks *Kernels, s Shape, l Layout, opts CheckOptions[T]) error {
	const op = "CheckIdentity"
	if !ks.Supports(TypeOf[T]()) {
		return NewUnsupportedError(op, TypeOf[T]())
	}
	opts = opts.withDefaults()
	num := NumericOf[T]()

	c := NewCase[T](s, l)
	c.Fill(opts.Seed)
	c.B.Fill(func(i, j int) T {
		if i == j {
			return num.One()
		}
		return num.Zero()
	})
	LaceNaN(c.C, opts.NaNEvery)
	if err := c.Check(); err != nil {
		return err
	}

	want := make([]T, s.M*s.N)
	for i := range s.M {
		for j := range min(s.K, s.N) {
			want[i*s.N+j] = c.A.At(i, j)
		}
	}
	c.Gemm(ks, num.One(), num.Zero())
	return compare(op, s, want, c.C.Pack(), opts.Tolerance, true)
}

// CheckAnnihilation sets alpha = 0 with NaN-laced A and B and requires
// C = beta·C0 with no NaN: the product must not leak into the result.
func CheckAnnihilation[T Scalar](ks *Kernels, s Shape, l Layout, opts CheckOptions[T]) error {
	const op = "CheckAnnihilation"
	if !ks.Supports(TypeOf[T]()) {
		return NewUnsupportedError(op, TypeOf[T]())
	}
	opts = opts.withDefaults()
	num := NumericOf[T]()
	beta := num.FromInts(2, -1)

	c := NewCase[T](s, l)
	c.Fill(opts.Seed)
	LaceNaN(c.A, opts.NaNEvery)
	LaceNaN(c.B, opts.NaNEvery)
	if err := c.Check(); err != nil {
		return err
	}

	want := c.C.Pack()
	for i := range want {
		want[i] = beta * want[i]
	}
	c.Gemm(ks, num.Zero(), beta)
	return compare(op, s, want, c.C.Pack(), opts.Tolerance, true)
}

// CheckScale sets beta = 0 with a NaN-laced C and requires
// C = alpha·(A×B) with no NaN: the old C must not leak into the result.
func CheckScale[T Scalar](ks *Kernels, s Shape, l Layout, opts CheckOptions[T]) error {
	const op = "CheckScale"
	if !ks.Supports(TypeOf[T]()) {
		return NewUnsupportedError(op, TypeOf[T]())
	}
	opts = opts.withDefaults()
	num := NumericOf[T]()
	alpha := num.FromInts(3, 1)

	c := NewCase[T](s, l)
	c.Fill(opts.Seed)
	LaceNaN(c.C, opts.NaNEvery)
	if err := c.Check(); err != nil {
		return err
	}

	want := make([]T, s.M*s.N)
	ReferenceMatMul(s.M, s.K, s.N, c.A.Pack(), c.B.Pack(), want)
	for i := range want {
		want[i] = alpha * want[i]
	}
	c.Gemm(ks, alpha, num.Zero())
	return compare(op, s, want, c.C.Pack(), opts.Tolerance, true)
}

// Law names one correctness property.
type Law string

const (
	LawAgreement    Law = "agreement"
	LawIdentity     Law = "identity"
	LawAnnihilation Law = "annihilation"
	LawScale        Law = "scale"
)

// Laws lists every law in the order CheckAll runs them.
func Laws() []Law {
	return []Law{LawAgreement, LawIdentity, LawAnnihilation, LawScale}
}

// CheckLaw runs a single law.
func CheckLaw[T Scalar](law Law, ks *Kernels, s Shape, l Layout, opts CheckOptions[T]) error {
	switch law {
	case LawAgreement:
		return CheckAgreement(ks, s, l, opts)
	case LawIdentity:
		return CheckIdentity(ks, s, l, opts)
	case LawAnnihilation:
		return CheckAnnihilation(ks, s, l, opts)
	case LawScale:
		return CheckScale(ks, s, l, opts)
	}
	return NewConfigError("CheckLaw", fmt.Sprintf("unknown law %q", law), nil)
}

// CheckAll runs every law and returns the first failure.
func CheckAll[T Scalar](ks *Kernels, s Shape, l Layout, opts CheckOptions[T]) error {
	for _, law := range Laws() {
		if err := CheckLaw(law, ks, s, l, opts); err != nil {
			return err
		}
	}
	return nil
}
