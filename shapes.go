package gemmcheck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Shape is one (m, k, n) GEMM problem: A is M×K, B is K×N, C is M×N.
type Shape struct {
	Name string
	M    int
	K    int
	N    int
}

// String renders the shape as MxKxN.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.M, s.K, s.N)
}

// Label returns Name, or the MxKxN form for unnamed shapes.
func (s Shape) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.String()
}

// Flops returns the floating-point operation count of one real GEMM,
// 2·M·N·K. Complex multiply-adds cost four times as much.
func (s Shape) Flops(t Type) float64 {
	f := 2 * float64(s.M) * float64(s.N) * float64(s.K)
	if t.IsComplex() {
		f *= 4
	}
	return f
}

// Square reports whether M, K and N are all equal.
func (s Shape) Square() bool {
	return s.M == s.K && s.K == s.N
}

// ParseShape parses "MxKxN" (or a single "N" for a square shape).
func ParseShape(str string) (Shape, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(str)), "x")
	if len(parts) == 1 {
		parts = []string{parts[0], parts[0], parts[0]}
	}
	if len(parts) != 3 {
		return Shape{}, NewConfigError("ParseShape", fmt.Sprintf("shape %q is not MxKxN", str), nil)
	}
	dims := make([]int, 3)
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil || d < 0 {
			return Shape{}, NewConfigError("ParseShape", fmt.Sprintf("bad dimension %q in shape %q", p, str), err)
		}
		dims[i] = d
	}
	return Shape{M: dims[0], K: dims[1], N: dims[2]}, nil
}

// Family groups shapes by the kernel regime they probe.
type Family string

const (
	// Square sizes below any blocking threshold
	FamilyTiny Family = "tiny"
	// Square sizes straddling typical blocking tile edges
	FamilyBoundary Family = "boundary"
	// Square sizes well past the cache-sized blocks
	FamilyLarge Family = "large"
	// Rectangular and extreme aspect ratio shapes
	FamilySkew Family = "skew"
)

// Families lists every family in enumeration order.
func Families() []Family {
	return []Family{FamilyTiny, FamilyBoundary, FamilyLarge, FamilySkew}
}

// ParseFamily parses a family name.
func ParseFamily(s string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Families(), f) {
		return "", NewConfigError("ParseFamily", fmt.Sprintf("unknown shape family %q", s), nil)
	}
	return f, nil
}

func square(n int) Shape {
	return Shape{Name: fmt.Sprintf("m%03d", n), M: n, K: n, N: n}
}

func squares(ns ...int) []Shape {
	return lo.Map(ns, func(n int, _ int) Shape { return square(n) })
}

var skewShapes = []Shape{
	{Name: "mix16x4", M: 32, K: 4, N: 32},
	{Name: "mix32x2", M: 32, K: 2, N: 32},
	{Name: "mix97", M: 97, K: 97, N: 125},
	{Name: "mix128x10000x128", M: 128, K: 10000, N: 128},
}

// FamilyShapes returns the shapes of family f for element type t. The
// double precision tiny suite skips 5, 6 and 9.
func FamilyShapes(t Type, f Family) []Shape {
	switch f {
	case FamilyTiny:
		if t == Float32 {
			return squares(4, 5, 6, 7, 8, 9, 12, 16)
		}
		return squares(4, 7, 8, 12, 16)
	case FamilyBoundary:
		return squares(32, 64, 127)
	case FamilyLarge:
		return squares(256, 512)
	case FamilySkew:
		return append([]Shape(nil), skewShapes...)
	}
	return nil
}

// Suite returns the shapes for t across the given families, or across all
// families when none are given.
func Suite(t Type, families ...Family) []Shape {
	if len(families) == 0 {
		families = Families()
	}
	return DedupShapes(lo.FlatMap(families, func(f Family, _ int) []Shape {
		return FamilyShapes(t, f)
	}))
}

// ReferenceSuite is the shape list the reference multiply is timed on:
// the tiny f32 shapes plus 32 and 64. Larger sizes take too long to be
// useful as a baseline.
func ReferenceSuite() []Shape {
	return append(FamilyShapes(Float32, FamilyTiny), squares(32, 64)...)
}

// DedupShapes drops repeated (M, K, N) tuples, keeping the first.
func DedupShapes(shapes []Shape) []Shape {
	return lo.UniqBy(shapes, func(s Shape) string { return s.String() })
}

// Layout selects how a case lays its operands out in memory.
type Layout string

const (
	LayoutRow      Layout = "row"
	LayoutCol      Layout = "col"
	LayoutPadded   Layout = "padded"
	LayoutReversed Layout = "reversed"
)

// Layouts lists every layout.
func Layouts() []Layout {
	return []Layout{LayoutRow, LayoutCol, LayoutPadded, LayoutReversed}
}

// ParseLayout parses a layout name.
func ParseLayout(s string) (Layout, error) {
	l := Layout(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Layouts(), l) {
		return "", NewConfigError("ParseLayout", fmt.Sprintf("unknown layout %q", s), nil)
	}
	return l, nil
}

// layoutPad is the extra leading dimension used by LayoutPadded.
const layoutPad = 3

// alloc returns a rows×cols view laid out per l over a fresh buffer.
func alloc[T any](l Layout, rows, cols int) View[T] {
	switch l {
	case LayoutCol:
		return ColMajor(make([]T, rows*cols), rows, cols)
	case LayoutPadded:
		ld := cols + layoutPad
		return Padded(make([]T, max(0, (rows-1)*ld+cols)), rows, cols, ld)
	case LayoutReversed:
		return Reversed(make([]T, rows*cols), rows, cols)
	default:
		return RowMajor(make([]T, rows*cols), rows, cols)
	}
}
