//go:build !nocomplex

package gemmcheck

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testComplexNumeric[T complex64 | complex128](t *testing.T) {
	num := NumericOf[T]()
	assert.True(t, num.IsComplex())
	assert.Equal(t, TypeOf[T](), num.Type())

	v := num.FromInts(3, 5)
	assert.Equal(t, num.FromInt(3), num.Real(v))
	assert.Equal(t, num.FromInt(5), num.Imag(v))
	assert.Equal(t, num.FromInts(-2, 0), num.FromInt(-2))

	assert.True(t, num.IsNaN(num.NaN()))
	assert.False(t, num.IsNaN(v))

	nanRe := T(complex(math.NaN(), 1))
	nanIm := T(complex(1, math.NaN()))
	assert.True(t, num.IsNaN(nanRe))
	assert.True(t, num.IsNaN(nanIm))
}

func TestComplexNumeric(t *testing.T) {
	t.Run("c32", testComplexNumeric[complex64])
	t.Run("c64", testComplexNumeric[complex128])
}

func TestComplexNaNWithInfinity(t *testing.T) {
	num := NumericOf[complex128]()
	assert.True(t, num.IsNaN(complex(math.Inf(1), math.NaN())))
}
