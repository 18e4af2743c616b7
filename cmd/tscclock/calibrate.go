package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/tscclock"
	"github.com/cwbudde/tscclock/internal/calib"
)

type calibrateOptions struct {
	window         time.Duration
	tolerance      float64
	maxRounds      int
	requireCounter bool
}

func newCalibrateCmd(root *rootOptions) *cobra.Command {
	opts := &calibrateOptions{}

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Run a fresh calibration and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := tscclock.NewClock(tscclock.Options{
				ForceCoarse:     root.forceCoarse,
				RequireCounter:  opts.requireCounter,
				ClocksourcePath: root.clocksourcePath,
				Window:          opts.window,
				Tolerance:       opts.tolerance,
				MaxRounds:       opts.maxRounds,
			})
			if err != nil {
				return err
			}

			printClock(cmd, "fresh", c)
			printClock(cmd, "process", tscclock.Default())

			return nil
		},
	}

	cmd.Flags().DurationVar(&opts.window, "window", calib.DefaultWindow, "minimum wall-clock span of one frequency estimate")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", calib.DefaultTolerance, "relative agreement required between consecutive estimates")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", calib.DefaultMaxRounds, "give up after this many estimates")
	cmd.Flags().BoolVar(&opts.requireCounter, "require-counter", false, "fail instead of falling back to the coarse clock")

	return cmd
}

func printClock(cmd *cobra.Command, label string, c *tscclock.Clock) {
	cal := c.Calibration()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "[%s clock]\n", label)
	fmt.Fprintf(w, "source:\t%s\n", c.Source())
	fmt.Fprintf(w, "reason:\t%s\n", c.Reason())
	fmt.Fprintf(w, "cycles/second:\t%d\n", cal.CyclesPerSecond)
	fmt.Fprintf(w, "nanos/cycle:\t%.9f\n", cal.NanosPerCycle)
	fmt.Fprintf(w, "origin offset:\t%d\n", cal.OriginOffset)
	fmt.Fprintf(w, "rounds:\t%d\n", cal.Rounds)
	fmt.Fprintf(w, "took:\t%s\n", cal.Took)
	w.Flush()
}
