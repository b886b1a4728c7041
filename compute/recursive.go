package compute

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/LynnColeArt/gemmcheck"
)

// Recursive is a cache-oblivious GEMM: it halves the largest of m, n and k
// until a block fits Leaf, then runs a tiled loop. Splits along m or n
// write disjoint parts of C and run in parallel once the block is at least
// MinParallel on that side; splits along k accumulate and stay sequential.
type Recursive struct {
	Leaf        int
	Tile        int
	MinParallel int
	Workers     int
}

// DefaultRecursive returns the tuning used by the "recursive" kernels.
func DefaultRecursive() Recursive {
	return Recursive{
		Leaf:        64,
		Tile:        32,
		MinParallel: 128,
		Workers:     runtime.NumCPU(),
	}
}

// Kernels returns the kernel table for r.
func (r Recursive) Kernels() *gemmcheck.Kernels {
	ks := &gemmcheck.Kernels{
		Name: "recursive",
		F32:  recursiveKernel[float32]{r},
		F64:  recursiveKernel[float64]{r},
	}
	addRecursiveComplex(ks, r)
	return ks
}

// mat is a strided matrix based at p.
type mat[T any] struct {
	p      *T
	rs, cs int
}

func (x mat[T]) at(i, j int) *T { return gemmcheck.Elem(x.p, i, j, x.rs, x.cs) }

func (x mat[T]) sub(i, j int) mat[T] { return mat[T]{x.at(i, j), x.rs, x.cs} }

type recursiveKernel[T gemmcheck.Scalar] struct {
	r Recursive
}

// Gemm implements gemmcheck.Kernel.
func (k recursiveKernel[T]) Gemm(m, kk, n int, alpha T,
	a *T, rsa, csa int,
	b *T, rsb, csb int,
	beta T,
	c *T, rsc, csc int) {
	if m == 0 || n == 0 {
		return
	}
	var zero T
	if beta != T(1) {
		scale(m, n, beta, c, rsc, csc)
	}
	if alpha == zero || kk == 0 {
		return
	}
	k.multiply(m, kk, n, alpha,
		mat[T]{a, rsa, csa}, mat[T]{b, rsb, csb}, mat[T]{c, rsc, csc},
		max(k.r.Workers, 1))
}

// multiply accumulates C += alpha·(A×B).
func (k recursiveKernel[T]) multiply(m, kk, n int, alpha T, a, b, c mat[T], workers int) {
	r := k.r
	if m <= r.Leaf && kk <= r.Leaf && n <= r.Leaf {
		k.leaf(m, kk, n, alpha, a, b, c)
		return
	}

	switch {
	case m >= max(kk, n):
		mid := m / 2
		k.fork(workers, m >= r.MinParallel,
			func(w int) { k.multiply(mid, kk, n, alpha, a, b, c, w) },
			func(w int) { k.multiply(m-mid, kk, n, alpha, a.sub(mid, 0), b, c.sub(mid, 0), w) })
	case n >= max(m, kk):
		mid := n / 2
		k.fork(workers, n >= r.MinParallel,
			func(w int) { k.multiply(m, kk, mid, alpha, a, b, c, w) },
			func(w int) { k.multiply(m, kk, n-mid, alpha, a, b.sub(0, mid), c.sub(0, mid), w) })
	default:
		mid := kk / 2
		k.multiply(m, mid, n, alpha, a, b, c, workers)
		k.multiply(m, kk-mid, n, alpha, a.sub(0, mid), b.sub(mid, 0), c, workers)
	}
}

// fork runs first and second, concurrently when allowed and workers remain.
// A panic in the forked half is re-raised on the calling goroutine once
// both halves are done, where the caller can recover it.
func (k recursiveKernel[T]) fork(workers int, parallel bool, first, second func(workers int)) {
	if workers <= 1 || !parallel {
		first(workers)
		second(workers)
		return
	}
	var (
		g      errgroup.Group
		forked any
	)
	g.Go(func() error {
		defer func() { forked = recover() }()
		first(workers / 2)
		return nil
	})
	func() {
		defer func() { _ = g.Wait() }()
		second(workers - workers/2)
	}()
	if forked != nil {
		panic(forked)
	}
}

// leaf is the tiled base case.
func (k recursiveKernel[T]) leaf(m, kk, n int, alpha T, a, b, c mat[T]) {
	tile := max(k.r.Tile, 1)
	for ii := 0; ii < m; ii += tile {
		iEnd := min(ii+tile, m)
		for jj := 0; jj < n; jj += tile {
			jEnd := min(jj+tile, n)
			for xx := 0; xx < kk; xx += tile {
				xEnd := min(xx+tile, kk)
				for i := ii; i < iEnd; i++ {
					for j := jj; j < jEnd; j++ {
						var sum T
						for x := xx; x < xEnd; x++ {
							sum += *a.at(i, x) * *b.at(x, j)
						}
						*c.at(i, j) += alpha * sum
					}
				}
			}
		}
	}
}

func init() {
	Register("recursive", DefaultRecursive().Kernels)
}
