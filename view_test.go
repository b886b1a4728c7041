package gemmcheck

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each layout holds the 2×3 matrix [[0 1 2] [3 4 5]].
func TestViewLayouts(t *testing.T) {
	want := []float64{0, 1, 2, 3, 4, 5}
	tests := []struct {
		name string
		view View[float64]
	}{
		{"row", RowMajor([]float64{0, 1, 2, 3, 4, 5}, 2, 3)},
		{"col", ColMajor([]float64{0, 3, 1, 4, 2, 5}, 2, 3)},
		{"padded", Padded([]float64{0, 1, 2, -1, 3, 4, 5}, 2, 3, 4)},
		{"reversed", Reversed([]float64{5, 4, 3, 2, 1, 0}, 2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.view.Check())
			if diff := cmp.Diff(want, tt.view.Pack()); diff != "" {
				t.Errorf("Pack() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 4.0, tt.view.At(1, 1))
			assert.Equal(t, 2.0, *Elem(tt.view.Ptr(), 0, 2, tt.view.RowStride, tt.view.ColStride))
		})
	}
}

func TestViewTranspose(t *testing.T) {
	v := RowMajor([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	tr := v.Transpose()
	require.NoError(t, tr.Check())
	assert.Equal(t, 3, tr.Rows)
	assert.Equal(t, 2, tr.Cols)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, tr.Pack())

	tr.Set(2, 1, 60)
	assert.Equal(t, float32(60), v.At(1, 2), "transpose shares the buffer")
}

func TestViewCheck(t *testing.T) {
	tests := []struct {
		name string
		view View[float32]
		ok   bool
	}{
		{"exact", RowMajor(make([]float32, 12), 3, 4), true},
		{"short", RowMajor(make([]float32, 11), 3, 4), false},
		{"padded short", Padded(make([]float32, 13), 3, 4, 5), false},
		{"padded exact", Padded(make([]float32, 14), 3, 4, 5), true},
		{"reversed", Reversed(make([]float32, 6), 2, 3), true},
		{"reversed offset too small", View[float32]{Data: make([]float32, 6), Offset: 4, Rows: 2, Cols: 3, RowStride: -3, ColStride: -1}, false},
		{"empty over nil", RowMajor[float32](nil, 0, 5), true},
		{"negative rows", View[float32]{Rows: -1, Cols: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.view.Check()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsInvalidDimension(err), "got %v", err)
		})
	}
}

func TestViewSpan(t *testing.T) {
	lo, hi := Reversed(make([]int, 12), 3, 4).Span()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 11, hi)

	lo, hi = ColMajor(make([]int, 12), 3, 4).Span()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 11, hi)
}

func TestViewPtr(t *testing.T) {
	assert.Nil(t, RowMajor(make([]float64, 4), 0, 4).Ptr())

	data := []float64{1, 2, 3, 4}
	r := Reversed(data, 2, 2)
	assert.Same(t, &data[3], r.Ptr())
	assert.Same(t, &data[0], Offset(r.Ptr(), -3))
}

func TestViewCloneAndFill(t *testing.T) {
	v := ColMajor(make([]float64, 6), 3, 2)
	v.Fill(func(i, j int) float64 { return float64(10*i + j) })
	assert.Equal(t, []float64{0, 1, 10, 11, 20, 21}, v.Pack())

	c := v.Clone()
	c.Set(0, 0, -1)
	assert.Equal(t, 0.0, v.At(0, 0))
	assert.Equal(t, -1.0, c.At(0, 0))
}
