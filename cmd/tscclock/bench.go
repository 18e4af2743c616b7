package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/tscclock"
)

func newBenchCmd(root *rootOptions) *cobra.Command {
	var iters int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure the cost of reading the clock against the standard library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iters <= 0 {
				return fmt.Errorf("--iters must be positive, got %d", iters)
			}

			c, err := root.clock()
			if err != nil {
				return err
			}

			runBench(cmd, c, iters)

			return nil
		},
	}

	cmd.Flags().IntVar(&iters, "iters", 1_000_000, "benchmark iterations")

	return cmd
}

type benchCase struct {
	name string
	fn   func()
}

func runBench(cmd *cobra.Command, c *tscclock.Clock, iters int) {
	start := c.Now()
	ref := time.Now()

	var (
		sinkInstant  tscclock.Instant
		sinkTime     time.Time
		sinkDuration time.Duration
	)

	cases := []benchCase{
		{"tscclock.Now", func() { sinkInstant = c.Now() }},
		{"time.Now", func() { sinkTime = time.Now() }},
		{"Elapsed", func() { sinkDuration = start.Elapsed() }},
		{"time.Since", func() { sinkDuration = time.Since(ref) }},
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "source=%s iters=%d\n", c.Source(), iters)
	fmt.Fprintf(out, "%14s  %10s\n", "case", "ns/op")

	for _, bc := range cases {
		t0 := time.Now()
		for range iters {
			bc.fn()
		}

		nsPerOp := float64(time.Since(t0).Nanoseconds()) / float64(iters)
		fmt.Fprintf(out, "%14s  %10.1f\n", bc.name, nsPerOp)
	}

	_, _, _ = sinkInstant, sinkTime, sinkDuration
}
