// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gemmcheck validates strided, multi-precision GEMM kernels.
//
// A kernel is any implementation of C := alpha·(A×B) + beta·C over
// arbitrary, possibly negative, row and column strides. Kernels are
// injected as a Kernels table with one entry per element type: float32,
// float64 and, unless built with the nocomplex tag, complex64 and
// complex128.
//
// The package supplies:
//   - a numeric capability trait (Numeric) over the element types
//   - strided matrix views (View) and the dispatch contract (Kernel, Gemm)
//   - a slow, trusted reference multiply used as the oracle
//     (ReferenceMatMul, ReferenceGemm)
//   - shape families covering tiny sizes, blocking boundaries, large and
//     skewed shapes (Suite)
//   - correctness laws checked against the oracle (CheckAgreement,
//     CheckIdentity, CheckAnnihilation, CheckScale)
//   - benchmark cases reporting GFLOPS (BenchGemm, BenchReference)
//   - a concurrent Runner producing Records, with JSON result logs and
//     baseline comparison
//
// Concrete kernels live in the compute subpackage; cmd/gemmcheck drives
// the whole harness from the command line.
package gemmcheck
