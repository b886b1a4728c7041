package gemmcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSuite(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultKernel, cfg.Kernel)
	assert.True(t, cfg.LaceNaN)

	types, err := cfg.ElementTypes()
	require.NoError(t, err)
	assert.Equal(t, ActiveTypes(), types)

	laws, err := cfg.LawList()
	require.NoError(t, err)
	assert.Equal(t, Laws(), laws)

	layouts, err := cfg.LayoutList()
	require.NoError(t, err)
	assert.Equal(t, []Layout{LayoutRow}, layouts)
}

func TestLoadConfig(t *testing.T) {
	path := writeSuite(t, `
kernel: naive
types: [f64, c32]
families: [boundary]
shapes: ["3x5x7", "32"]
layouts: [row, reversed]
laws: [identity]
seed: 17
parallel: 2
lace_nan: false
tolerance:
  f64:
    abs: 1e-12
    rel: 1e-12
    ulp: 8
output_dir: results
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "naive", cfg.Kernel)
	assert.Equal(t, uint64(17), cfg.Seed)
	assert.Equal(t, 2, cfg.Workers())
	assert.False(t, cfg.LaceNaN)
	assert.Equal(t, "results", cfg.OutputDir)

	shapes, err := cfg.ShapeList(Float64)
	require.NoError(t, err)
	want := []string{"m032", "m064", "m127", "3x5x7"}
	if diff := cmp.Diff(want, names(shapes)); diff != "" {
		t.Errorf("ShapeList mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, ToleranceConfig{AbsTol: 1e-12, RelTol: 1e-12, ULPTol: 8}, cfg.ToleranceFor(Float64))
	assert.Equal(t, DefaultTolerance(Float32), cfg.ToleranceFor(Float32))

	layouts, err := cfg.LayoutList()
	require.NoError(t, err)
	assert.Equal(t, []Layout{LayoutRow, LayoutReversed}, layouts)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeSuite(t, "kernel: recursive\n"))
	require.NoError(t, err)
	assert.Equal(t, "recursive", cfg.Kernel)
	assert.Equal(t, DefaultConfig().Families, cfg.Families)
	assert.True(t, cfg.LaceNaN)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"BadYAML", "types: [f32\n"},
		{"UnknownType", "types: [f16]\n"},
		{"UnknownFamily", "families: [huge]\n"},
		{"BadShape", "shapes: [4x4]\n"},
		{"UnknownLayout", "layouts: [diagonal]\n"},
		{"UnknownLaw", "laws: [commutativity]\n"},
		{"UnknownToleranceKey", "tolerance: {f16: {abs: 1}}\n"},
		{"NegativeParallel", "parallel: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeSuite(t, tt.body))
			require.Error(t, err)
			assert.True(t, IsConfig(err), "got %v", err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.False(t, IsConfig(err))
}

func TestConfigDropsCompiledOutTypes(t *testing.T) {
	cfg := Config{Types: []string{"f32", "c64", "f32"}}
	types, err := cfg.ElementTypes()
	require.NoError(t, err)
	if ComplexEnabled {
		assert.Equal(t, []Type{Float32, Complex128}, types)
	} else {
		assert.Equal(t, []Type{Float32}, types)
	}
}

func TestConfigWorkersDefault(t *testing.T) {
	assert.Positive(t, Config{}.Workers())
}
