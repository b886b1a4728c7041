// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compute provides the concrete GEMM kernels the gemmcheck harness
// validates.
//
// Every provider exposes a gemmcheck.Kernels table. The Gonum provider
// wraps the pure Go BLAS from gonum.org/v1/gonum/blas/gonum, adapting
// arbitrary strides onto its row-major lda/ldb/ldc interface. Naive is a
// strided triple loop and Recursive a cache-oblivious subdivision over the
// same strided contract. Building with the netlib tag (and cgo) registers a
// provider backed by the system CBLAS through gonum.org/v1/netlib.
//
// Providers are found by name with Lookup; Names lists what this build
// registered.
package compute
