package gemmcheck

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat32NearEqual(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name     string
		a, b     float32
		expected bool
	}{
		{"Exact_Equal", 1, 1, true},
		{"Within_AbsTol", 1e-8, 2e-8, true},
		{"Outside_AbsTol", 1e-3, 2e-3, false},
		{"Within_RelTol", 1000, 1000.0005, true},
		{"Outside_RelTol", 1000, 1001, false},
		{"Both_Zero", 0, float32(math.Copysign(0, -1)), true},
		{"Both_NaN", nan, nan, true},
		{"NaN_vs_Number", nan, 1, false},
		{"Number_vs_NaN", 1, nan, false},
		{"Same_Inf", inf, inf, true},
		{"Opposite_Inf", inf, -inf, false},
	}

	tol := DefaultTolerance(Float32)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NearEqual(tt.a, tt.b, tol))
		})
	}
}

func TestFloat64NearEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected bool
	}{
		{"Exact_Equal", 3, 3, true},
		{"Within_AbsTol", 1e-16, 2e-16, true},
		{"Outside_AbsTol", 1e-10, 2e-10, false},
		{"Adjacent_ULP", 1, math.Nextafter(1, 2), true},
		{"Far_ULP", 1, 1 + 1e-9, false},
		{"Both_NaN", math.NaN(), math.NaN(), true},
		{"NaN_vs_Zero", math.NaN(), 0, false},
	}

	tol := DefaultTolerance(Float64)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NearEqual(tt.a, tt.b, tol))
		})
	}
}

func TestComplexNearEqual(t *testing.T) {
	tol := DefaultTolerance(Complex128)
	nan := math.NaN()

	assert.True(t, NearEqual(complex(1, 2), complex(1, 2), tol))
	assert.False(t, NearEqual(complex(1, 2), complex(1, 3), tol), "imaginary part differs")
	assert.False(t, NearEqual(complex(1, 2), complex(2, 2), tol), "real part differs")
	assert.True(t, NearEqual(complex(nan, 0), complex(0, nan), tol), "NaN in any component matches NaN")
	assert.False(t, NearEqual(complex(nan, 0), complex(0, 0), tol))

	tol32 := DefaultTolerance(Complex64)
	assert.True(t, NearEqual(complex64(complex(4, -1)), complex64(complex(4, -1)), tol32))
	assert.False(t, NearEqual(complex64(complex(4, -1)), complex64(complex(4, 1)), tol32))
}

func TestULPDiff(t *testing.T) {
	assert.Equal(t, int64(0), Float32ULPDiff(1, 1))
	assert.Equal(t, int64(1), Float32ULPDiff(1, math.Nextafter32(1, 2)))
	assert.Equal(t, int64(1), Float32ULPDiff(math.Nextafter32(1, 2), 1))
	assert.Equal(t, int64(math.MaxInt64), Float32ULPDiff(1, -1))

	assert.Equal(t, int64(0), Float64ULPDiff(2, 2))
	assert.Equal(t, int64(2), Float64ULPDiff(2, math.Nextafter(math.Nextafter(2, 3), 3)))
	assert.Equal(t, int64(math.MaxInt64), Float64ULPDiff(-2, 2))
}

func TestForDepth(t *testing.T) {
	base := ToleranceConfig{AbsTol: 1e-6, RelTol: 1e-6, ULPTol: 4}
	assert.Equal(t, base, base.ForDepth(0))
	assert.Equal(t, base, base.ForDepth(1))

	wide := base.ForDepth(100)
	assert.Equal(t, base.AbsTol, wide.AbsTol)
	assert.InDelta(t, 1e-5, wide.RelTol, 1e-12)
	assert.Equal(t, int64(40), wide.ULPTol)

	// The deepest suite shape must still reject a 0.1% error.
	deep := DefaultTolerance(Float32).ForDepth(10000)
	assert.InDelta(t, 1e-4, deep.RelTol, 1e-12)
	assert.Equal(t, int64(400), deep.ULPTol)
	assert.False(t, NearEqual(float32(1000), float32(1001), deep))
	assert.True(t, NearEqual(float32(1000), float32(1000.05), deep))
}

func TestVerifyScaled(t *testing.T) {
	nan := math.NaN()
	tol := ToleranceConfig{AbsTol: 1e-9, RelTol: 1e-6}

	// A near-zero result is judged against its scale, not its value.
	r := VerifyScaled([]float64{1e-7, 5, nan}, []float64{2e-7, 5.000001, nan}, []float64{1, 10, 1}, tol)
	assert.True(t, r.OK(), r.String())
	assert.Equal(t, 1, r.NumNaN)

	r = VerifyScaled([]float64{1, 5, 3}, []float64{1, 5.0001, nan}, []float64{1, 10, 1}, tol)
	assert.False(t, r.OK())
	assert.Equal(t, 2, r.NumErrors)
	assert.Equal(t, 1, r.FirstError)

	r = VerifyScaled([]complex128{complex(3, 4)}, []complex128{complex(3, 4.00001)}, []float64{1}, tol)
	assert.False(t, r.OK())
	assert.InDelta(t, 1e-5, r.MaxAbsError, 1e-9)

	r = VerifyScaled([]float32{1, 2}, []float32{1, 2}, []float64{1}, tol)
	assert.Equal(t, 2, r.NumErrors, "scale length must match")
}

func TestVerify(t *testing.T) {
	nan := math.NaN()
	tol := DefaultTolerance(Float64)

	t.Run("Match", func(t *testing.T) {
		r := Verify([]float64{1, 2, nan}, []float64{1, 2, nan}, tol)
		assert.True(t, r.OK())
		assert.Equal(t, 1, r.NumNaN)
		assert.Equal(t, -1, r.FirstError)
		assert.Contains(t, r.String(), "PASS")
	})

	t.Run("Mismatch", func(t *testing.T) {
		r := Verify([]float64{1, 2, 3, 4}, []float64{1, 2.5, 3, nan}, tol)
		assert.False(t, r.OK())
		assert.Equal(t, 2, r.NumErrors)
		assert.Equal(t, 1, r.FirstError)
		assert.InDelta(t, 0.5, r.MaxAbsError, 1e-12)
		assert.Contains(t, r.String(), "FAIL")
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		r := Verify([]float32{1, 2, 3}, []float32{1, 2}, DefaultTolerance(Float32))
		assert.False(t, r.OK())
		assert.Equal(t, 2, r.FirstError)
	})
}

func TestDefaultToleranceByPrecision(t *testing.T) {
	assert.Equal(t, DefaultTolerance(Float32), DefaultTolerance(Complex64))
	assert.Equal(t, DefaultTolerance(Float64), DefaultTolerance(Complex128))
	assert.Less(t, DefaultTolerance(Float64).RelTol, DefaultTolerance(Float32).RelTol)
}
