//go:build nocomplex

package compute

import "github.com/LynnColeArt/gemmcheck"

func addComplex(*gemmcheck.Kernels, blasGemm[complex64], blasGemm[complex128]) {}

func addNaiveComplex(*gemmcheck.Kernels) {}

func addRecursiveComplex(*gemmcheck.Kernels, Recursive) {}
