package gemmcheck

import (
	"fmt"
	"math"
	"strings"
)

// Scalar is the closed set of element types the harness exercises.
// complex64 and complex128 are Go's (real, imaginary) pairs of float32
// and float64 respectively.
type Scalar interface {
	float32 | float64 | complex64 | complex128
}

// Type identifies an element type at runtime.
type Type int

const (
	Float32 Type = iota
	Float64
	Complex64
	Complex128
)

// String returns the short name used in case names: f32, f64, c32, c64.
func (t Type) String() string {
	switch t {
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	case Complex64:
		return "c32"
	case Complex128:
		return "c64"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// IsComplex reports whether t is one of the complex element types.
func (t Type) IsComplex() bool {
	return t == Complex64 || t == Complex128
}

// Size returns the element size in bytes.
func (t Type) Size() int {
	switch t {
	case Float32:
		return 4
	case Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		return 0
	}
}

// ParseType parses a short element type name.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f32", "float32", "s":
		return Float32, nil
	case "f64", "float64", "d":
		return Float64, nil
	case "c32", "complex64", "c":
		return Complex64, nil
	case "c64", "complex128", "z":
		return Complex128, nil
	}
	return 0, NewConfigError("ParseType", fmt.Sprintf("unknown element type %q", s), nil)
}

// AllTypes lists every element type, including complex ones that may be
// compiled out.
func AllTypes() []Type {
	return []Type{Float32, Float64, Complex64, Complex128}
}

// ActiveTypes lists the element types available in this build.
func ActiveTypes() []Type {
	if ComplexEnabled {
		return AllTypes()
	}
	return []Type{Float32, Float64}
}

// TypeOf returns the Type tag of T.
func TypeOf[T Scalar]() Type {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	default:
		return Complex128
	}
}

// Numeric is the per-element-type capability set used by the harness and
// its assertions. Real implementations treat the imaginary part as zero.
type Numeric[T Scalar] interface {
	Zero() T
	One() T
	// FromInt embeds x as a T.
	FromInt(x int64) T
	// FromInts embeds x + y·i; y is ignored for real types.
	FromInts(x, y int64) T
	// NaN returns a value with every component NaN.
	NaN() T
	// Real returns the real part as a T with the imaginary part zeroed.
	Real(v T) T
	// Imag returns the imaginary part in the real slot of a T, other
	// component zeroed. Always zero for real types.
	Imag(v T) T
	// IsNaN reports whether any component of v is NaN.
	IsNaN(v T) bool
	IsComplex() bool
	Type() Type
}

// NumericOf returns the capability set for T.
func NumericOf[T Scalar]() Numeric[T] {
	var zero T
	var n any
	switch any(zero).(type) {
	case float32:
		n = f32Numeric{}
	case float64:
		n = f64Numeric{}
	case complex64:
		n = complexNumeric64()
	case complex128:
		n = complexNumeric128()
	}
	return n.(Numeric[T])
}

type f32Numeric struct{}

func (f32Numeric) Zero() float32 { return 0 }
func (f32Numeric) One() float32 { return 1 }
func (f32Numeric) FromInt(x int64) float32 { return float32(x) }
func (f32Numeric) FromInts(x, _ int64) float32 { return float32(x) }
func (f32Numeric) NaN() float32 { return float32(math.NaN()) }
func (f32Numeric) Real(v float32) float32 { return v }
func (f32Numeric) Imag(float32) float32 { return 0 }
func (f32Numeric) IsNaN(v float32) bool { return v != v }
func (f32Numeric) IsComplex() bool { return false }
func (f32Numeric) Type() Type { return Float32 }

type f64Numeric struct{}

func (f64Numeric) Zero() float64 { return 0 }
func (f64Numeric) One() float64 { return 1 }
func (f64Numeric) FromInt(x int64) float64 { return float64(x) }
func (f64Numeric) FromInts(x, _ int64) float64 { return float64(x) }
func (f64Numeric) NaN() float64 { return math.NaN() }
func (f64Numeric) Real(v float64) float64 { return v }
func (f64Numeric) Imag(float64) float64 { return 0 }
func (f64Numeric) IsNaN(v float64) bool { return math.IsNaN(v) }
func (f64Numeric) IsComplex() bool { return false }
func (f64Numeric) Type() Type { return Float64 }
