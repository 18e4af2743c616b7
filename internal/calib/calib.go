// Package calib measures the effective frequency of a cycle counter against
// a trusted wall clock and derives the factors needed to turn raw counter
// readings into nanoseconds.
//
// Calibration takes paired (wall clock, counter) samples over windows of at
// least Window and stops once two consecutive frequency estimates agree
// within Tolerance. Each estimate is an average over the whole window, which
// smooths out the error introduced by the two reads not being atomic.
package calib

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/juju/clock"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/tscclock/internal/cpu"
)

const (
	// DefaultWindow is the minimum wall-clock span of one frequency estimate.
	DefaultWindow = 10 * time.Millisecond

	// DefaultTolerance is the relative agreement required between two
	// consecutive estimates (0.0001%).
	DefaultTolerance = 1e-6

	// DefaultMaxRounds bounds the number of estimates. With the default
	// window this caps calibration at roughly one second.
	DefaultMaxRounds = 100

	nanosPerSecond = 1_000_000_000
)

// Options controls a calibration run. The zero value calibrates the hardware
// counter against the system wall clock with the defaults above.
type Options struct {
	// Window is the minimum wall-clock span of one frequency estimate.
	Window time.Duration

	// Tolerance is the relative difference under which two consecutive
	// estimates are considered converged.
	Tolerance float64

	// MaxRounds caps the number of estimates taken.
	MaxRounds int

	// Clock is the trusted wall clock. Defaults to clock.WallClock.
	Clock clock.Clock

	// Counter reads the counter being calibrated. Defaults to
	// cpu.ReadCycleCounter.
	Counter func() uint64
}

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}

	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}

	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}

	if o.Clock == nil {
		o.Clock = clock.WallClock
	}

	if o.Counter == nil {
		o.Counter = cpu.ReadCycleCounter
	}

	return o
}

// Result is the outcome of a successful calibration.
type Result struct {
	// CyclesPerSecond is the measured counter frequency, rounded to the
	// nearest integer.
	CyclesPerSecond uint64

	// NanosPerCycle is 1e9 / CyclesPerSecond.
	NanosPerCycle float64

	// OriginOffset is the counter value at the moment calibration started,
	// as extrapolated from the last sample. Subtracting it from a counter
	// reading yields cycles elapsed since then.
	OriginOffset uint64

	// Rounds is the number of frequency estimates taken.
	Rounds int

	// Took is the wall-clock time spent calibrating.
	Took time.Duration
}

// sample is a wall-clock reading paired with the counter reading taken
// immediately after it. The two are not read atomically.
type sample struct {
	wall    time.Time
	counter uint64
}

// Run calibrates the counter described by opts.
//
// Run blocks for at least two windows. It returns ErrNotConverged if the
// estimates never settle within MaxRounds, and ErrCounterStalled if the
// counter stops advancing.
func Run(opts Options) (Result, error) {
	opts = opts.withDefaults()

	// Keep every sample on one CPU; migration between cores in the middle of
	// a window mixes readings from unsynchronized counters. Locking the
	// goroutine to its thread alone does not stop the kernel moving the
	// thread, so the thread is also pinned where affinity is available.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	defer pinThread()()

	anchor := opts.Clock.Now()

	freq, last, rounds, err := measure(opts)
	if err != nil {
		return Result{}, err
	}

	cps := uint64(math.Round(freq))
	if cps == 0 {
		return Result{}, ErrCounterStalled
	}

	nanosFromAnchor := last.wall.Sub(anchor).Nanoseconds()
	cyclesFlown := math.Ceil(float64(cps) * float64(nanosFromAnchor) / nanosPerSecond)

	res := Result{
		CyclesPerSecond: cps,
		NanosPerCycle:   nanosPerSecond / float64(cps),
		OriginOffset:    last.counter - uint64(cyclesFlown),
		Rounds:          rounds,
		Took:            last.wall.Sub(anchor),
	}

	log.WithFields(log.Fields{
		"cycles_per_second": res.CyclesPerSecond,
		"rounds":            res.Rounds,
		"took":              res.Took,
	}).Debug("calibrated cycle counter")

	return res, nil
}

// measure returns the converged frequency estimate in cycles per second
// together with the last paired sample taken.
func measure(opts Options) (float64, sample, int, error) {
	var (
		prev float64
		last sample
	)

	for round := 1; round <= opts.MaxRounds; round++ {
		first := pairedSample(opts)

		var freq float64

		for {
			last = pairedSample(opts)

			elapsed := last.wall.Sub(first.wall)
			if elapsed > opts.Window {
				if last.counter == first.counter {
					return 0, sample{}, round, ErrCounterStalled
				}

				freq = float64(last.counter-first.counter) * nanosPerSecond / float64(elapsed.Nanoseconds())

				break
			}
		}

		log.WithFields(log.Fields{"round": round, "hz": freq}).Trace("calibration estimate")

		if math.Abs(freq-prev)/freq < opts.Tolerance {
			return freq, last, round, nil
		}

		prev = freq
	}

	return 0, sample{}, opts.MaxRounds, fmt.Errorf("%w after %d rounds", ErrNotConverged, opts.MaxRounds)
}

func pairedSample(opts Options) sample {
	wall := opts.Clock.Now()

	return sample{wall: wall, counter: opts.Counter()}
}
