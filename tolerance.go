// Package gemmcheck tolerance-based verification for floating-point comparisons
package gemmcheck

import (
	"fmt"
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison.
// Complex values are compared component by component.
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64 `yaml:"abs"`

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64 `yaml:"rel"`

	// ULPTol is the maximum allowed difference in ULPs at the element's
	// native precision
	ULPTol int64 `yaml:"ulp"`
}

// DefaultTolerance returns the tolerance for one multiply-accumulate chain
// of the given element type.
func DefaultTolerance(t Type) ToleranceConfig {
	switch t {
	case Float32, Complex64:
		return ToleranceConfig{AbsTol: 1e-6, RelTol: 1e-6, ULPTol: 4}
	default:
		return ToleranceConfig{AbsTol: 1e-14, RelTol: 1e-14, ULPTol: 4}
	}
}

// ForDepth widens the relative and ULP tolerances by √k for a k-term sum,
// roughly how far a reordered sum drifts from the in-order one.
func (tol ToleranceConfig) ForDepth(k int) ToleranceConfig {
	if k > 1 {
		f := math.Sqrt(float64(k))
		tol.RelTol *= f
		tol.ULPTol = int64(math.Ceil(float64(tol.ULPTol) * f))
	}
	return tol
}

// NearEqual reports whether a and b match within tolerance. Two NaNs at
// the same position match; a NaN against a number does not.
func NearEqual[T Scalar](a, b T, tol ToleranceConfig) bool {
	switch x := any(a).(type) {
	case float32:
		return near32(x, any(b).(float32), tol)
	case float64:
		return near64(x, any(b).(float64), tol)
	case complex64:
		y := any(b).(complex64)
		aNaN := real(x) != real(x) || imag(x) != imag(x)
		bNaN := real(y) != real(y) || imag(y) != imag(y)
		if aNaN || bNaN {
			return aNaN && bNaN
		}
		return near32(real(x), real(y), tol) && near32(imag(x), imag(y), tol)
	case complex128:
		y := any(b).(complex128)
		aNaN := math.IsNaN(real(x)) || math.IsNaN(imag(x))
		bNaN := math.IsNaN(real(y)) || math.IsNaN(imag(y))
		if aNaN || bNaN {
			return aNaN && bNaN
		}
		return near64(real(x), real(y), tol) && near64(imag(x), imag(y), tol)
	}
	return false
}

func near32(a, b float32, tol ToleranceConfig) bool {
	if withinAbsRel(float64(a), float64(b), tol) {
		return true
	}
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return false
	}
	return tol.ULPTol > 0 && Float32ULPDiff(a, b) <= tol.ULPTol
}

func near64(a, b float64, tol ToleranceConfig) bool {
	if withinAbsRel(a, b, tol) {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return tol.ULPTol > 0 && Float64ULPDiff(a, b) <= tol.ULPTol
}

func withinAbsRel(a, b float64, tol ToleranceConfig) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	// Exact equality also covers ±0 and matching infinities
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	diff := math.Abs(a - b)
	if diff <= tol.AbsTol {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	return diff <= larger*tol.RelTol
}

// Float32ULPDiff computes the difference in ULPs between two float32 values.
// Values of different sign are maximally far apart.
func Float32ULPDiff(a, b float32) int64 {
	aBits := math.Float32bits(a)
	bBits := math.Float32bits(b)
	if (aBits^bBits)&0x80000000 != 0 {
		return math.MaxInt64
	}
	if aBits > bBits {
		return int64(aBits - bBits)
	}
	return int64(bBits - aBits)
}

// Float64ULPDiff computes the difference in ULPs between two float64 values.
func Float64ULPDiff(a, b float64) int64 {
	aBits := math.Float64bits(a)
	bBits := math.Float64bits(b)
	if (aBits^bBits)&(1<<63) != 0 {
		return math.MaxInt64
	}
	d := aBits - bBits
	if bBits > aBits {
		d = bBits - aBits
	}
	if d > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(d)
}

// VerificationResult summarises an element-wise comparison
type VerificationResult struct {
	MaxAbsError float64
	NumErrors   int
	NumNaN      int // positions where both sides are NaN
	TotalItems  int
	FirstError  int // Index of first error, -1 if none
}

// Verify compares expected and actual element by element.
func Verify[T Scalar](expected, actual []T, tol ToleranceConfig) VerificationResult {
	num := NumericOf[T]()
	result := VerificationResult{
		TotalItems: len(expected),
		FirstError: -1,
	}
	if len(expected) != len(actual) {
		result.NumErrors = len(expected)
		result.FirstError = min(len(expected), len(actual))
		return result
	}
	for i := range expected {
		if num.IsNaN(expected[i]) && num.IsNaN(actual[i]) {
			result.NumNaN++
			continue
		}
		if NearEqual(expected[i], actual[i], tol) {
			continue
		}
		result.NumErrors++
		if result.FirstError == -1 {
			result.FirstError = i
		}
		if d := absDiff(expected[i], actual[i]); d > result.MaxAbsError {
			result.MaxAbsError = d
		}
	}
	return result
}

// VerifyScaled compares expected and actual against a per-element error
// scale rather than the values themselves: element i matches when it is
// within AbsTol + RelTol·scale[i]. For a GEMM, scale is
// |alpha|·Σ|a||b| + |beta|·|c|, which bounds rounding even where the sum
// cancels to near zero.
func VerifyScaled[T Scalar](expected, actual []T, scale []float64, tol ToleranceConfig) VerificationResult {
	num := NumericOf[T]()
	result := VerificationResult{
		TotalItems: len(expected),
		FirstError: -1,
	}
	if len(expected) != len(actual) || len(expected) != len(scale) {
		result.NumErrors = len(expected)
		result.FirstError = min(len(expected), len(actual), len(scale))
		return result
	}
	for i := range expected {
		eNaN, aNaN := num.IsNaN(expected[i]), num.IsNaN(actual[i])
		if eNaN && aNaN {
			result.NumNaN++
			continue
		}
		d := absDiff(expected[i], actual[i])
		if !eNaN && !aNaN && d <= tol.AbsTol+tol.RelTol*scale[i] {
			continue
		}
		result.NumErrors++
		if result.FirstError == -1 {
			result.FirstError = i
		}
		if d > result.MaxAbsError {
			result.MaxAbsError = d
		}
	}
	return result
}

func absDiff[T Scalar](a, b T) float64 {
	return magnitude(a - b)
}

// magnitude is |x|, the modulus for complex types.
func magnitude[T Scalar](x T) float64 {
	switch x := any(x).(type) {
	case float32:
		return math.Abs(float64(x))
	case float64:
		return math.Abs(x)
	case complex64:
		return math.Hypot(float64(real(x)), float64(imag(x)))
	case complex128:
		return math.Hypot(real(x), imag(x))
	}
	return math.NaN()
}

// OK reports whether every element matched.
func (r VerificationResult) OK() bool {
	return r.NumErrors == 0
}

// String formats the verification result for display
func (r VerificationResult) String() string {
	if r.NumErrors == 0 {
		return fmt.Sprintf("PASS: %d values match within tolerance (%d matching NaN)", r.TotalItems, r.NumNaN)
	}
	errorRate := float64(r.NumErrors) / float64(max(r.TotalItems, 1)) * 100
	return fmt.Sprintf("FAIL: %d/%d values differ (%.2f%%), max absolute error %e, first error at index %d",
		r.NumErrors, r.TotalItems, errorRate, r.MaxAbsError, r.FirstError)
}
