package tscclock

import (
	"fmt"
	"math"
	"time"

	"github.com/juju/clock"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/tscclock/internal/calib"
	"github.com/cwbudde/tscclock/internal/coarse"
	"github.com/cwbudde/tscclock/internal/cpu"
	"github.com/cwbudde/tscclock/internal/probe"
)

// Source identifies what backs the instants of a Clock.
type Source uint8

const (
	// SourceCoarse is the operating system's coarse monotonic clock.
	SourceCoarse Source = iota

	// SourceCounter is the calibrated hardware cycle counter.
	SourceCounter
)

func (s Source) String() string {
	switch s {
	case SourceCoarse:
		return "coarse"
	case SourceCounter:
		return "counter"
	default:
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
}

// Calibration describes how a Clock converts ticks into nanoseconds. For a
// coarse clock a tick is one nanosecond.
type Calibration struct {
	// CyclesPerSecond is the measured counter frequency.
	CyclesPerSecond uint64

	// NanosPerCycle is 1e9 / CyclesPerSecond.
	NanosPerCycle float64

	// OriginOffset is subtracted from every counter reading so that ticks
	// count from the start of calibration.
	OriginOffset uint64

	// Rounds is the number of frequency estimates calibration needed.
	Rounds int

	// Took is how long calibration ran.
	Took time.Duration
}

// Options controls NewClock.
type Options struct {
	// ForceCoarse skips the hardware counter.
	ForceCoarse bool

	// RequireCounter makes NewClock fail instead of falling back to the
	// coarse clock.
	RequireCounter bool

	// ClocksourcePath overrides the sysfs file consulted on Linux.
	ClocksourcePath string

	// Window, Tolerance and MaxRounds tune calibration. Zero values select
	// 10ms, 1e-6 and 100.
	Window    time.Duration
	Tolerance float64
	MaxRounds int

	// WallClock is the reference calibration measures against. Defaults to
	// the system clock.
	WallClock clock.Clock
}

// Clock is an immutable, calibrated time source. It is safe for concurrent
// use; every method only reads fields fixed at construction.
type Clock struct {
	source Source
	cal    calib.Result
	reason string
}

// NewClock probes the platform and, when the hardware counter is usable,
// calibrates it. Calibration blocks for at least twice Options.Window.
//
// Unless Options.RequireCounter is set NewClock never fails: when the counter
// is rejected or does not calibrate, the returned Clock uses the coarse
// clock and Reason says why.
func NewClock(opts Options) (*Clock, error) {
	d := probe.Probe(probe.Config{
		ForceCoarse:     opts.ForceCoarse,
		ClocksourcePath: opts.ClocksourcePath,
	})
	if !d.UseCounter {
		if opts.RequireCounter {
			return nil, fmt.Errorf("%w: %s", ErrCounterUnavailable, d.Reason)
		}

		log.Debugf("tscclock: using coarse clock: %s", d.Reason)

		return newCoarseClock(d.Reason), nil
	}

	res, err := calib.Run(calib.Options{
		Window:    opts.Window,
		Tolerance: opts.Tolerance,
		MaxRounds: opts.MaxRounds,
		Clock:     opts.WallClock,
	})
	if err != nil {
		if opts.RequireCounter {
			return nil, fmt.Errorf("calibrating cycle counter: %w", err)
		}

		log.WithError(err).Warn("tscclock: cycle counter calibration failed, using coarse clock")

		return newCoarseClock("calibration failed: " + err.Error()), nil
	}

	return newCounterClock(res, d.Reason), nil
}

func newCounterClock(res calib.Result, reason string) *Clock {
	return &Clock{source: SourceCounter, cal: res, reason: reason}
}

func newCoarseClock(reason string) *Clock {
	return &Clock{
		source: SourceCoarse,
		cal:    calib.Result{CyclesPerSecond: 1_000_000_000, NanosPerCycle: 1},
		reason: reason,
	}
}

// Source reports what backs the clock.
func (c *Clock) Source() Source { return c.source }

// Reason explains why Source was chosen.
func (c *Clock) Reason() string { return c.reason }

// Calibration returns a copy of the clock's conversion parameters.
func (c *Clock) Calibration() Calibration {
	return Calibration{
		CyclesPerSecond: c.cal.CyclesPerSecond,
		NanosPerCycle:   c.cal.NanosPerCycle,
		OriginOffset:    c.cal.OriginOffset,
		Rounds:          c.cal.Rounds,
		Took:            c.cal.Took,
	}
}

// CurrentCycle returns the counter reading relative to the origin offset,
// or coarse nanoseconds for a coarse clock. The subtraction wraps: a core
// whose counter lags the origin yields a very large value.
func (c *Clock) CurrentCycle() uint64 {
	if c.source == SourceCounter {
		return cpu.ReadCycleCounter() - c.cal.OriginOffset
	}

	return coarse.Now()
}

// CyclesToDuration converts a tick delta into a duration.
func (c *Clock) CyclesToDuration(delta uint64) time.Duration {
	if c.source == SourceCounter {
		return c.cal.CyclesToDuration(delta)
	}

	if delta > math.MaxInt64 {
		return math.MaxInt64
	}

	return time.Duration(delta)
}

// DurationToCycles converts a duration into the nearest tick delta.
// Negative durations yield 0.
func (c *Clock) DurationToCycles(d time.Duration) uint64 {
	if c.source == SourceCounter {
		return c.cal.DurationToCycles(d)
	}

	if d < 0 {
		return 0
	}

	return uint64(d)
}
