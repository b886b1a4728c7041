//go:build !nocomplex

package gemmcheck

import "math"

// ComplexEnabled reports whether c32/c64 support is compiled in. Build with
// -tags nocomplex to restrict the harness to real types.
const ComplexEnabled = true

func complexNumeric64() any  { return c32Numeric{} }
func complexNumeric128() any { return c64Numeric{} }

type c32Numeric struct{}

func (c32Numeric) Zero() complex64 { return 0 }
func (c32Numeric) One() complex64 { return 1 }
func (c32Numeric) FromInt(x int64) complex64 { return complex(float32(x), 0) }
func (c32Numeric) FromInts(x, y int64) complex64 { return complex(float32(x), float32(y)) }

func (c32Numeric) NaN() complex64 {
	nan := float32(math.NaN())
	return complex(nan, nan)
}

func (c32Numeric) Real(v complex64) complex64 { return complex(real(v), 0) }
func (c32Numeric) Imag(v complex64) complex64 { return complex(imag(v), 0) }

func (c32Numeric) IsNaN(v complex64) bool {
	re, im := real(v), imag(v)
	return re != re || im != im
}

func (c32Numeric) IsComplex() bool { return true }
func (c32Numeric) Type() Type { return Complex64 }

type c64Numeric struct{}

func (c64Numeric) Zero() complex128 { return 0 }
func (c64Numeric) One() complex128 { return 1 }
func (c64Numeric) FromInt(x int64) complex128 { return complex(float64(x), 0) }
func (c64Numeric) FromInts(x, y int64) complex128 { return complex(float64(x), float64(y)) }
func (c64Numeric) NaN() complex128 { return complex(math.NaN(), math.NaN()) }
func (c64Numeric) Real(v complex128) complex128 { return complex(real(v), 0) }
func (c64Numeric) Imag(v complex128) complex128 { return complex(imag(v), 0) }

// cmplx.IsNaN is false when the other component is infinite, so test
// the components directly.
func (c64Numeric) IsNaN(v complex128) bool {
	return math.IsNaN(real(v)) || math.IsNaN(imag(v))
}

func (c64Numeric) IsComplex() bool { return true }
func (c64Numeric) Type() Type { return Complex128 }
