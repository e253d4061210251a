package main

import (
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/record"
	"github.com/sarchlab/cachesim/report"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/timing/config"
	"github.com/sarchlab/cachesim/trace"
)

const separator = "-------------------------------------------------------------"

func run(cmd *cobra.Command, opts *options, args []string) error {
	if opts.noColor {
		color.NoColor = true
	}

	h, err := resolveHierarchy(cmd, opts)
	if err != nil {
		return err
	}

	addrs, err := readAddrs(opts, args)
	if err != nil {
		return err
	}

	// L2 is checked when it runs, after L1 has been reported.
	if err := h.L1.Validate(); err != nil {
		return fmt.Errorf("l1: %w", err)
	}

	logOut := io.Discard
	if opts.verbose {
		logOut = cmd.ErrOrStderr()
	}

	out := cmd.OutOrStdout()
	simOpts := []sim.Option{
		sim.WithLogger(log.New(logOut, "cachesim: ", 0)),
		sim.WithCrossCheck(opts.crossCheck),
		sim.WithMissFile("l1", opts.l1.writeMissFile),
		sim.WithMissFile("l2", opts.l2.writeMissFile),
		sim.WithSink(report.NewPrinter(out, opts.tableWidth)),
		sim.WithLevelStartHook(func(level string) {
			if level == "l2" {
				fmt.Fprintln(out, separator)
				fmt.Fprintln(out, "trying to simulate two level cache hierarchy")
			}
		}),
	}

	if opts.dbPath != "" {
		rec := record.NewSQLiteRecorder(opts.dbPath)
		if err := rec.Init(); err != nil {
			return err
		}
		defer rec.Close()

		simOpts = append(simOpts, sim.WithSink(rec))
		fmt.Fprintf(cmd.ErrOrStderr(), "Results are recorded in %s (run %s)\n",
			rec.Path(), rec.RunID())
	}

	s := sim.NewSimulator(simOpts...)

	if _, err := s.Run(h, addrs); err != nil {
		return err
	}

	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, "Completed simulation")

	return nil
}

// resolveHierarchy loads the config file, if any, and applies the flags
// given on the command line on top of it.
func resolveHierarchy(cmd *cobra.Command, opts *options) (*config.HierarchyConfig, error) {
	if opts.configPath == "" {
		return opts.hierarchy, nil
	}

	h, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if h.L1 == nil {
		h.L1 = config.DefaultL1Config()
	}
	if h.L2 == nil {
		h.L2 = config.DefaultL2Config()
	}

	flags := cmd.Flags()
	overlayFlags(flags, "l1", h.L1, opts.hierarchy.L1)
	overlayFlags(flags, "l2", h.L2, opts.hierarchy.L2)
	if flags.Changed("two-level") {
		h.TwoLevel = opts.hierarchy.TwoLevel
	}

	return h, nil
}

// readAddrs returns the L1 trace. A trace file takes precedence over
// addresses given as arguments.
func readAddrs(opts *options, args []string) ([]uint64, error) {
	if opts.l1.trace != "" {
		return trace.ReadFile(opts.l1.trace)
	}

	return trace.ParseArgs(append(append([]string(nil), opts.l1.wordAddrs...), args...))
}
