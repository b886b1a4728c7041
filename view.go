package gemmcheck

import (
	"fmt"
	"unsafe"
)

// View is a strided matrix view over a borrowed buffer. Element (i, j) is
// Data[Offset + i*RowStride + j*ColStride]. Strides are in elements and may
// be negative, which lets a view express transposes, reversals and
// sub-blocks without copying.
type View[T any] struct {
	Data      []T
	Offset    int
	Rows      int
	Cols      int
	RowStride int
	ColStride int
}

// RowMajor views data as a packed rows×cols row-major matrix.
func RowMajor[T any](data []T, rows, cols int) View[T] {
	return View[T]{Data: data, Rows: rows, Cols: cols, RowStride: cols, ColStride: 1}
}

// ColMajor views data as a packed rows×cols column-major matrix.
func ColMajor[T any](data []T, rows, cols int) View[T] {
	return View[T]{Data: data, Rows: rows, Cols: cols, RowStride: 1, ColStride: rows}
}

// Padded views data as a row-major matrix with leading dimension ld >= cols.
func Padded[T any](data []T, rows, cols, ld int) View[T] {
	return View[T]{Data: data, Rows: rows, Cols: cols, RowStride: ld, ColStride: 1}
}

// Reversed views a packed row-major buffer with both axes walked backwards:
// logical (0, 0) is the last element of the buffer.
func Reversed[T any](data []T, rows, cols int) View[T] {
	return View[T]{
		Data:      data,
		Offset:    rows*cols - 1,
		Rows:      rows,
		Cols:      cols,
		RowStride: -cols,
		ColStride: -1,
	}
}

// Index returns the buffer index of element (i, j).
func (v View[T]) Index(i, j int) int {
	return v.Offset + i*v.RowStride + j*v.ColStride
}

// At returns element (i, j).
func (v View[T]) At(i, j int) T {
	return v.Data[v.Index(i, j)]
}

// Set stores x at element (i, j).
func (v View[T]) Set(i, j int, x T) {
	v.Data[v.Index(i, j)] = x
}

// Transpose returns the transposed view of the same buffer.
func (v View[T]) Transpose() View[T] {
	return View[T]{
		Data:      v.Data,
		Offset:    v.Offset,
		Rows:      v.Cols,
		Cols:      v.Rows,
		RowStride: v.ColStride,
		ColStride: v.RowStride,
	}
}

// Empty reports whether the view has no elements.
func (v View[T]) Empty() bool {
	return v.Rows == 0 || v.Cols == 0
}

// Span returns the smallest and largest buffer index the view reaches.
func (v View[T]) Span() (lo, hi int) {
	lo, hi = v.Offset, v.Offset
	if v.Empty() {
		return lo, hi
	}
	for _, d := range [2]int{(v.Rows - 1) * v.RowStride, (v.Cols - 1) * v.ColStride} {
		if d < 0 {
			lo += d
		} else {
			hi += d
		}
	}
	return lo, hi
}

// Check verifies that every element the view reaches lies inside Data.
// This is the caller-side assertion required before handing the view to
// an unchecked kernel.
func (v View[T]) Check() error {
	if v.Rows < 0 || v.Cols < 0 {
		return NewInvalidDimensionError("View.Check",
			fmt.Sprintf("negative dimensions %dx%d", v.Rows, v.Cols))
	}
	if v.Empty() {
		return nil
	}
	lo, hi := v.Span()
	if lo < 0 || hi >= len(v.Data) {
		return NewInvalidDimensionError("View.Check",
			fmt.Sprintf("%dx%d view with strides (%d, %d) at offset %d reaches [%d, %d], buffer has %d elements",
				v.Rows, v.Cols, v.RowStride, v.ColStride, v.Offset, lo, hi, len(v.Data)))
	}
	return nil
}

// Ptr returns a pointer to element (0, 0), or nil for an empty view.
func (v View[T]) Ptr() *T {
	if v.Empty() || len(v.Data) == 0 {
		return nil
	}
	return &v.Data[v.Offset]
}

// Pack copies the view into a new packed row-major slice.
func (v View[T]) Pack() []T {
	out := make([]T, v.Rows*v.Cols)
	for i := range v.Rows {
		for j := range v.Cols {
			out[i*v.Cols+j] = v.At(i, j)
		}
	}
	return out
}

// Offset returns p advanced by i elements. No bounds are checked.
func Offset[T any](p *T, i int) *T {
	var zero T
	return (*T)(unsafe.Add(unsafe.Pointer(p), i*int(unsafe.Sizeof(zero))))
}

// Elem returns the address of element (i, j) of the strided matrix based at
// p. No bounds are checked.
func Elem[T any](p *T, i, j, rs, cs int) *T {
	return Offset(p, i*rs+j*cs)
}

// Clone returns a view with the same layout over a copy of the buffer.
func (v View[T]) Clone() View[T] {
	v.Data = append([]T(nil), v.Data...)
	return v
}

// Fill sets every element reached by the view to fn(i, j).
func (v View[T]) Fill(fn func(i, j int) T) {
	for i := range v.Rows {
		for j := range v.Cols {
			v.Set(i, j, fn(i, j))
		}
	}
}
