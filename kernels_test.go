package gemmcheck_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LynnColeArt/gemmcheck"
	"github.com/LynnColeArt/gemmcheck/compute"
)

func providers() []*gemmcheck.Kernels {
	return []*gemmcheck.Kernels{compute.Gonum(), compute.Naive(), compute.DefaultRecursive().Kernels()}
}

// boundaryShapes are the shapes that straddle typical blocking and packing
// edges.
var boundaryShapes = []gemmcheck.Shape{
	{Name: "m004", M: 4, K: 4, N: 4},
	{Name: "m032", M: 32, K: 32, N: 32},
	{Name: "mix97", M: 97, K: 97, N: 125},
}

func checkAllTypes(t *testing.T, ks *gemmcheck.Kernels, s gemmcheck.Shape, l gemmcheck.Layout) {
	t.Helper()
	require.NoError(t, gemmcheck.CheckAll(ks, s, l, gemmcheck.CheckOptions[float32]{LaceNaN: true}))
	require.NoError(t, gemmcheck.CheckAll(ks, s, l, gemmcheck.CheckOptions[float64]{LaceNaN: true}))
	if !gemmcheck.ComplexEnabled {
		return
	}
	require.NoError(t, gemmcheck.CheckAll(ks, s, l, gemmcheck.CheckOptions[complex64]{LaceNaN: true}))
	require.NoError(t, gemmcheck.CheckAll(ks, s, l, gemmcheck.CheckOptions[complex128]{LaceNaN: true}))
}

func TestKernelsBoundaryShapes(t *testing.T) {
	for _, ks := range providers() {
		for _, s := range boundaryShapes {
			for _, l := range gemmcheck.Layouts() {
				t.Run(ks.Name+"/"+s.Label()+"/"+string(l), func(t *testing.T) {
					checkAllTypes(t, ks, s, l)
				})
			}
		}
	}
}

func TestKernelsTinySuite(t *testing.T) {
	ks := compute.Gonum()
	// The f32 tiny suite is a superset of the others.
	for _, s := range gemmcheck.Suite(gemmcheck.Float32, gemmcheck.FamilyTiny) {
		t.Run(s.Label(), func(t *testing.T) {
			checkAllTypes(t, ks, s, gemmcheck.LayoutRow)
		})
	}
}

func TestKernelsSkewShapes(t *testing.T) {
	ks := compute.Gonum()
	for _, s := range gemmcheck.FamilyShapes(gemmcheck.Float32, gemmcheck.FamilySkew) {
		if s.K > 1000 {
			continue
		}
		for _, l := range gemmcheck.Layouts() {
			t.Run(s.Label()+"/"+string(l), func(t *testing.T) {
				checkAllTypes(t, ks, s, l)
			})
		}
	}
}

// The 128×10000×128 shape runs row-major only; the k = 10000 reduction
// is the point, not the layout.
func TestKernelsDeepReduction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 128x10000x128 in short mode")
	}
	s := gemmcheck.Shape{Name: "mix128x10000x128", M: 128, K: 10000, N: 128}
	for _, ks := range []*gemmcheck.Kernels{compute.Gonum(), compute.DefaultRecursive().Kernels()} {
		t.Run(ks.Name, func(t *testing.T) {
			opts32 := gemmcheck.CheckOptions[float32]{LaceNaN: true}
			opts64 := gemmcheck.CheckOptions[float64]{LaceNaN: true}
			require.NoError(t, gemmcheck.CheckAgreement(ks, s, gemmcheck.LayoutRow, opts32))
			require.NoError(t, gemmcheck.CheckAgreement(ks, s, gemmcheck.LayoutRow, opts64))
			require.NoError(t, gemmcheck.CheckScale(ks, s, gemmcheck.LayoutRow, opts32))
			require.NoError(t, gemmcheck.CheckAnnihilation(ks, s, gemmcheck.LayoutRow, opts64))
		})
	}
}

// The recursive kernel splits k into leaf-sized partial sums, so on
// fractional data its results differ from the reference in the low bits
// and agreement rests on the depth-widened tolerance.
func TestKernelsRoundedAgreement(t *testing.T) {
	ks := compute.Recursive{Leaf: 8, Tile: 4, MinParallel: 16, Workers: 4}.Kernels()
	s := gemmcheck.Shape{M: 64, K: 1000, N: 64}

	c := gemmcheck.NewCase[float32](s, gemmcheck.LayoutRow)
	c.FillFractional(gemmcheck.DefaultSeed)
	want := c.Reference(1, 0)
	scale := c.Magnitude(1, 0)
	c.Gemm(ks, 1, 0)
	got := c.C.Pack()
	require.NotEqual(t, want, got, "reordered sums round differently")
	res := gemmcheck.VerifyScaled(want, got, scale, gemmcheck.DefaultTolerance(gemmcheck.Float32).ForDepth(s.K))
	require.True(t, res.OK(), res.String())

	for _, l := range []gemmcheck.Layout{gemmcheck.LayoutRow, gemmcheck.LayoutReversed} {
		require.NoError(t, gemmcheck.CheckAgreement(ks, s, l, gemmcheck.CheckOptions[float32]{}))
		require.NoError(t, gemmcheck.CheckAgreement(ks, s, l, gemmcheck.CheckOptions[float64]{}))
	}
}

// perturbed wraps the f32 gonum kernel and scales every element of C by
// 1+rel after the multiply.
func perturbed(rel float32) *gemmcheck.Kernels {
	inner := compute.Gonum().F32
	return &gemmcheck.Kernels{
		Name: "perturbed",
		F32: gemmcheck.KernelFunc[float32](func(m, k, n int, alpha float32, a *float32, rsa, csa int, b *float32, rsb, csb int, beta float32, c *float32, rsc, csc int) {
			inner.Gemm(m, k, n, alpha, a, rsa, csa, b, rsb, csb, beta, c, rsc, csc)
			for i := range m {
				for j := range n {
					*gemmcheck.Elem(c, i, j, rsc, csc) *= 1 + rel
				}
			}
		}),
	}
}

func TestAgreementRejectsRelativeError(t *testing.T) {
	for _, tc := range []struct {
		k   int
		rel float32
	}{
		{k: 10000, rel: 1e-3},
		{k: 10000, rel: 5e-3},
		{k: 127, rel: 5e-5},
	} {
		s := gemmcheck.Shape{M: 16, K: tc.k, N: 16}
		t.Run(s.String(), func(t *testing.T) {
			require.NoError(t, gemmcheck.CheckAgreement(perturbed(0), s, gemmcheck.LayoutRow, gemmcheck.CheckOptions[float32]{}))

			err := gemmcheck.CheckAgreement(perturbed(tc.rel), s, gemmcheck.LayoutRow, gemmcheck.CheckOptions[float32]{})
			require.Error(t, err)
			require.True(t, gemmcheck.IsMismatch(err), "got %v", err)
		})
	}
}
