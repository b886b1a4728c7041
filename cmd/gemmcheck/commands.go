// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/LynnColeArt/gemmcheck"
	"github.com/LynnColeArt/gemmcheck/compute"
)

func newCheckCmd(opts *options, logger func() zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a kernel against the reference on every case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			cfg, err := opts.config(cmd.Flags())
			if err != nil {
				return err
			}
			ks, results, err := session(cfg, "check", log)
			if err != nil {
				return err
			}
			records, err := gemmcheck.NewRunner(ks, cfg, log, results).Check(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "check")
			}
			sum := gemmcheck.Summarize(records)
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			if sum.Failed > 0 {
				return errors.Errorf("%d of %d cases failed", sum.Failed, sum.Total)
			}
			return nil
		},
	}
	addSuiteFlags(cmd.Flags(), opts)
	return cmd
}

func newBenchCmd(opts *options, logger func() zerolog.Logger) *cobra.Command {
	var reference bool
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time a kernel on every shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			cfg, err := opts.config(cmd.Flags())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("reference") {
				cfg.BenchReference = reference
			}
			ks, results, err := session(cfg, "bench", log)
			if err != nil {
				return err
			}
			records, err := gemmcheck.NewRunner(ks, cfg, log, results).Bench(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "bench")
			}
			printTimings(cmd.OutOrStdout(), records)
			return nil
		},
	}
	addSuiteFlags(cmd.Flags(), opts)
	cmd.Flags().BoolVar(&reference, "reference", false, "also time the reference multiply")
	return cmd
}

func printTimings(w io.Writer, records []gemmcheck.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tKERNEL\tITER\tNS/OP\tGFLOPS\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f\t%.2f\t%s\n", r.Name, r.Kernel, r.Iterations, r.NsPerOp, r.GFLOPS, r.Status)
	}
	tw.Flush()
}

func newCompareCmd(logger func() zerolog.Logger) *cobra.Command {
	var regress float64
	cmd := &cobra.Command{
		Use:   "compare BASELINE [CURRENT]",
		Short: "Compare a result file against a baseline",
		Long: "Compare two result files by case name. CURRENT may be a directory, " +
			"in which case its most recent result file is used.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			if regress < 1 {
				return gemmcheck.NewConfigError("compare", fmt.Sprintf("regress must be at least 1, got %g", regress), nil)
			}
			baseline, err := gemmcheck.LoadRecords(args[0])
			if err != nil {
				return err
			}
			currentPath := filepath.Dir(args[0])
			if len(args) == 2 {
				currentPath = args[1]
			}
			if info, err := os.Stat(currentPath); err == nil && info.IsDir() {
				if currentPath, err = gemmcheck.LatestRecordFile(currentPath); err != nil {
					return err
				}
			}
			log.Info().Str("baseline", args[0]).Str("current", currentPath).Msg("comparing")
			current, err := gemmcheck.LoadRecords(currentPath)
			if err != nil {
				return err
			}

			comparisons := gemmcheck.CompareRecords(baseline, current, regress)
			printComparisons(cmd.OutOrStdout(), comparisons)
			bad := lo.CountBy(comparisons, func(c gemmcheck.Comparison) bool {
				return c.Status == gemmcheck.CompareFail || c.Status == gemmcheck.CompareMissing
			})
			if bad > 0 {
				return errors.Errorf("%d cases failed or missing", bad)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&regress, "regress", gemmcheck.DefaultRegress, "slowdown factor reported as SLOWER")
	return cmd
}

func printComparisons(w io.Writer, comparisons []gemmcheck.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tSTATUS\tBASELINE NS/OP\tCURRENT NS/OP\tSPEEDUP\tMESSAGE")
	for _, c := range comparisons {
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%.2f\t%s\n", c.Name, c.Status, c.Baseline, c.Current, c.Speedup, c.Message)
	}
	tw.Flush()

	counts := lo.CountValuesBy(comparisons, func(c gemmcheck.Comparison) string { return c.Status })
	statuses := []string{gemmcheck.CompareSame, gemmcheck.CompareFaster, gemmcheck.CompareSlower,
		gemmcheck.CompareMissing, gemmcheck.CompareFail}
	parts := lo.Map(statuses, func(s string, _ int) string { return fmt.Sprintf("%s: %d", s, counts[s]) })
	fmt.Fprintf(w, "\nTotal: %d | %s\n", len(comparisons), strings.Join(parts, " | "))
}

func newShapesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List the shapes a suite covers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd.Flags())
			if err != nil {
				return err
			}
			types, err := cfg.ElementTypes()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tNAME\tM×K×N\tGFLOP")
			for _, t := range types {
				shapes, err := cfg.ShapeList(t)
				if err != nil {
					return err
				}
				for _, s := range shapes {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\n", t, s.Label(), s, s.Flops(t)/1e9)
				}
			}
			return tw.Flush()
		},
	}
	addSuiteFlags(cmd.Flags(), opts)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version, kernels and CPU features",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			version, sum := gemmcheck.Version()
			if version == "" {
				version = "(devel)"
			}
			fmt.Fprintf(w, "gemmcheck %s %s\n", version, sum)
			if gv := gemmcheck.GonumVersion(); gv != "" {
				fmt.Fprintf(w, "gonum %s\n", gv)
			}
			fmt.Fprintf(w, "kernels: %s\n", strings.Join(compute.Names(), ", "))
			fmt.Fprintf(w, "types: %s\n", strings.Join(lo.Map(gemmcheck.ActiveTypes(),
				func(t gemmcheck.Type, _ int) string { return t.String() }), ", "))
			fmt.Fprintln(w, gemmcheck.DetectedCPU())
		},
	}
}
