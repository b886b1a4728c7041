// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gemmcheck validates and times GEMM kernels.
//
//	gemmcheck check --kernel gonum --types f32,f64 --layouts row,reversed
//	gemmcheck bench --families boundary,large --out results/
//	gemmcheck compare results/baseline.json results/current.json
//	gemmcheck shapes --types c64
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/LynnColeArt/gemmcheck"
	"github.com/LynnColeArt/gemmcheck/compute"
)

type options struct {
	configPath string
	logLevel   string

	kernel   string
	types    []string
	families []string
	shapes   []string
	layouts  []string
	laws     []string
	seed     uint64
	parallel int
	noNaN    bool
	out      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var log zerolog.Logger

	root := &cobra.Command{
		Use:          "gemmcheck",
		Short:        "Validate and benchmark strided GEMM kernels",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).
				With().Timestamp().Logger()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	logger := func() zerolog.Logger { return log }
	root.AddCommand(
		newCheckCmd(opts, logger),
		newBenchCmd(opts, logger),
		newCompareCmd(logger),
		newShapesCmd(opts),
		newVersionCmd(),
	)
	return root
}

// addSuiteFlags registers the flags shared by check, bench and shapes.
func addSuiteFlags(fs *pflag.FlagSet, opts *options) {
	def := gemmcheck.DefaultConfig()
	fs.StringVar(&opts.configPath, "config", "", "YAML suite file")
	fs.StringVar(&opts.kernel, "kernel", def.Kernel, "kernel provider")
	fs.StringSliceVar(&opts.types, "types", def.Types, "element types (f32, f64, c32, c64)")
	fs.StringSliceVar(&opts.families, "families", def.Families, "shape families (tiny, boundary, large, skew)")
	fs.StringSliceVar(&opts.shapes, "shapes", nil, "extra shapes as MxKxN")
	fs.StringSliceVar(&opts.layouts, "layouts", def.Layouts, "operand layouts (row, col, padded, reversed)")
	fs.StringSliceVar(&opts.laws, "laws", def.Laws, "laws to check (agreement, identity, annihilation, scale)")
	fs.Uint64Var(&opts.seed, "seed", def.Seed, "operand fill seed")
	fs.IntVar(&opts.parallel, "parallel", 0, "cases run at once, 0 for GOMAXPROCS")
	fs.BoolVar(&opts.noNaN, "no-nan", false, "skip the NaN-laced agreement pass")
	fs.StringVar(&opts.out, "out", "", "directory for JSON result records")
}

// config loads the suite file, if any, and applies the flags the user set
// on top of it.
func (o *options) config(fs *pflag.FlagSet) (gemmcheck.Config, error) {
	cfg := gemmcheck.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = gemmcheck.LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("kernel", func() { cfg.Kernel = o.kernel })
	set("types", func() { cfg.Types = o.types })
	set("families", func() { cfg.Families = o.families })
	set("shapes", func() { cfg.Shapes = o.shapes })
	set("layouts", func() { cfg.Layouts = o.layouts })
	set("laws", func() { cfg.Laws = o.laws })
	set("seed", func() { cfg.Seed = o.seed })
	set("parallel", func() { cfg.Parallel = o.parallel })
	set("no-nan", func() { cfg.LaceNaN = !o.noNaN })
	set("out", func() { cfg.OutputDir = o.out })
	return cfg, cfg.Validate()
}

// session opens the kernel table and result logger for cfg.
func session(cfg gemmcheck.Config, name string, log zerolog.Logger) (*gemmcheck.Kernels, *gemmcheck.ResultLogger, error) {
	ks, err := compute.Lookup(cfg.Kernel)
	if err != nil {
		return nil, nil, err
	}
	results, err := gemmcheck.NewResultLogger(cfg.OutputDir, name)
	if err != nil {
		return nil, nil, err
	}
	cpu := gemmcheck.DetectedCPU()
	log.Info().
		Str("kernel", ks.Name).
		Str("gonum", gemmcheck.GonumVersion()).
		Strs("types", cfg.Types).
		Str("arch", cpu.Arch).
		Strs("cpu", cpu.Names()).
		Bool("complex", gemmcheck.ComplexEnabled).
		Int("workers", cfg.Workers()).
		Msg("session start")
	if p := results.Path(); p != "" {
		log.Info().Str("path", p).Msg("writing records")
	}
	return ks, results, nil
}
