package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/tscclock"
)

type compareOptions struct {
	rounds   int
	min      time.Duration
	max      time.Duration
	seed     uint64
	maxDelta time.Duration
}

func newCompareCmd(root *rootOptions) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare elapsed time against time.Since over random sleeps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.min <= 0 || opts.max <= opts.min {
				return fmt.Errorf("need 0 < --min < --max, got %s and %s", opts.min, opts.max)
			}

			c, err := root.clock()
			if err != nil {
				return err
			}

			return runCompare(cmd, c, opts)
		},
	}

	cmd.Flags().IntVar(&opts.rounds, "rounds", 10, "number of sleeps")
	cmd.Flags().DurationVar(&opts.min, "min", 100*time.Millisecond, "shortest sleep")
	cmd.Flags().DurationVar(&opts.max, "max", 500*time.Millisecond, "longest sleep (exclusive)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "rng seed")
	cmd.Flags().DurationVar(&opts.maxDelta, "max-delta", 0, "fail when a difference exceeds this (0 disables)")

	return cmd
}

type measurement struct {
	clock  time.Duration
	stdlib time.Duration
}

func (m measurement) delta() time.Duration {
	d := m.clock - m.stdlib
	if d < 0 {
		return -d
	}

	return d
}

func runCompare(cmd *cobra.Command, c *tscclock.Clock, opts *compareOptions) error {
	rnd := rand.New(rand.NewPCG(opts.seed, 0))
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "source=%s rounds=%d\n", c.Source(), opts.rounds)
	fmt.Fprintf(out, "%5s  %12s  %14s  %14s  %12s  %12s\n", "round", "sleep", "clock", "time.Since", "delta", "delta(go)")

	var worst time.Duration

	for round := 1; round <= opts.rounds; round++ {
		sleep := opts.min + time.Duration(rnd.Int64N(int64(opts.max-opts.min)))

		start := c.Now()
		ref := time.Now()

		time.Sleep(sleep)

		measure := func() measurement {
			return measurement{clock: start.Elapsed(), stdlib: time.Since(ref)}
		}

		here := measure()

		// The calibration must be visible unchanged from a new goroutine.
		done := make(chan measurement)
		go func() { done <- measure() }()
		there := <-done

		fmt.Fprintf(out, "%5d  %12s  %14s  %14s  %12s  %12s\n",
			round, sleep, here.clock, here.stdlib, here.delta(), there.delta())

		worst = max(worst, here.delta(), there.delta())
	}

	log.Debugf("worst difference: %s", worst)

	if opts.maxDelta > 0 && worst > opts.maxDelta {
		return fmt.Errorf("difference %s exceeds --max-delta %s", worst, opts.maxDelta)
	}

	return nil
}
