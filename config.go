// Package gemmcheck configuration constants and suite configuration
package gemmcheck

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Harness defaults
const (
	// Seed for operand fills when none is configured
	DefaultSeed = 1

	// Every DefaultNaNEvery-th element is replaced by NaN when lacing
	DefaultNaNEvery = 7

	// Kernel used when a suite names none
	DefaultKernel = "gonum"

	// Slowdown factor past which compare flags a case
	DefaultRegress = 1.10
)

// Config describes one harness session: which kernel, which element types,
// which shapes and layouts, and how to run them.
type Config struct {
	Kernel   string   `yaml:"kernel"`
	Types    []string `yaml:"types"`
	Families []string `yaml:"families"`
	// Extra shapes in MxKxN form, run in addition to the families
	Shapes  []string `yaml:"shapes"`
	Layouts []string `yaml:"layouts"`
	Laws    []string `yaml:"laws"`
	Seed    uint64   `yaml:"seed"`
	// Parallel is the number of cases run at once; 0 means GOMAXPROCS
	Parallel int  `yaml:"parallel"`
	LaceNaN  bool `yaml:"lace_nan"`
	// Tolerance overrides keyed by element type short name
	Tolerance map[string]ToleranceConfig `yaml:"tolerance"`
	// Output directory for result records; empty disables them
	OutputDir string `yaml:"output_dir"`
	// BenchReference also times the reference multiply on ReferenceSuite
	BenchReference bool `yaml:"bench_reference"`
}

// DefaultConfig returns a config covering every active type, family and
// the row layout with all laws.
func DefaultConfig() Config {
	return Config{
		Kernel:   DefaultKernel,
		Types:    lo.Map(ActiveTypes(), func(t Type, _ int) string { return t.String() }),
		Families: lo.Map(Families(), func(f Family, _ int) string { return string(f) }),
		Layouts:  []string{string(LayoutRow)},
		Laws:     lo.Map(Laws(), func(l Law, _ int) string { return string(l) }),
		Seed:     DefaultSeed,
		LaceNaN:  true,
	}
}

// LoadConfig reads a YAML suite file. Fields the file leaves out keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading suite %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, NewConfigError("LoadConfig", "parsing "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "suite %s", path)
	}
	return cfg, nil
}

// Validate checks every name in the config parses.
func (c Config) Validate() error {
	if _, err := c.ElementTypes(); err != nil {
		return err
	}
	if _, err := c.ShapeList(Float32); err != nil {
		return err
	}
	if _, err := c.LayoutList(); err != nil {
		return err
	}
	if _, err := c.LawList(); err != nil {
		return err
	}
	for name := range c.Tolerance {
		if _, err := ParseType(name); err != nil {
			return err
		}
	}
	if c.Parallel < 0 {
		return NewConfigError("Validate", fmt.Sprintf("parallel must not be negative, got %d", c.Parallel), nil)
	}
	return nil
}

// ElementTypes parses Types, dropping complex types when they are compiled
// out.
func (c Config) ElementTypes() ([]Type, error) {
	var out []Type
	for _, s := range c.Types {
		t, err := ParseType(s)
		if err != nil {
			return nil, err
		}
		if t.IsComplex() && !ComplexEnabled {
			continue
		}
		out = append(out, t)
	}
	return lo.Uniq(out), nil
}

// ShapeList returns the family shapes for t followed by the extra shapes,
// without duplicates.
func (c Config) ShapeList(t Type) ([]Shape, error) {
	var families []Family
	for _, s := range c.Families {
		f, err := ParseFamily(s)
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	var shapes []Shape
	if len(families) > 0 {
		shapes = Suite(t, families...)
	}
	for _, s := range c.Shapes {
		sh, err := ParseShape(s)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, sh)
	}
	return DedupShapes(shapes), nil
}

// LayoutList parses Layouts; an empty list means row-major only.
func (c Config) LayoutList() ([]Layout, error) {
	if len(c.Layouts) == 0 {
		return []Layout{LayoutRow}, nil
	}
	out := make([]Layout, 0, len(c.Layouts))
	for _, s := range c.Layouts {
		l, err := ParseLayout(s)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return lo.Uniq(out), nil
}

// LawList parses Laws; an empty list means every law.
func (c Config) LawList() ([]Law, error) {
	if len(c.Laws) == 0 {
		return Laws(), nil
	}
	out := make([]Law, 0, len(c.Laws))
	for _, s := range c.Laws {
		l := Law(s)
		if !lo.Contains(Laws(), l) {
			return nil, NewConfigError("LawList", fmt.Sprintf("unknown law %q", s), nil)
		}
		out = append(out, l)
	}
	return lo.Uniq(out), nil
}

// ToleranceFor returns the configured tolerance for t, falling back to
// DefaultTolerance.
func (c Config) ToleranceFor(t Type) ToleranceConfig {
	for name, tol := range c.Tolerance {
		if pt, err := ParseType(name); err == nil && pt == t {
			return tol
		}
	}
	return DefaultTolerance(t)
}

// Workers returns the effective parallelism.
func (c Config) Workers() int {
	if c.Parallel > 0 {
		return c.Parallel
	}
	return runtime.GOMAXPROCS(0)
}
