//go:build nocomplex

package gemmcheck

// ComplexEnabled reports whether c32/c64 support is compiled in.
const ComplexEnabled = false

func complexNumeric64() any {
	panic(NewUnsupportedError("NumericOf", Complex64))
}

func complexNumeric128() any {
	panic(NewUnsupportedError("NumericOf", Complex128))
}
