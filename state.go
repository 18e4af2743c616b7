package tscclock

import (
	"time"

	"github.com/cwbudde/tscclock/internal/probe"
)

// std is the process-wide clock. It is built by a package-level initializer,
// so it is complete before any package importing tscclock is initialized and
// before main runs. Go's initialization order gives every goroutine a
// happens-before edge to these writes; readers need no synchronization.
var std = newDefaultClock()

func newDefaultClock() *Clock {
	cfg := probe.ConfigFromEnv()

	c, err := NewClock(Options{
		ForceCoarse:     cfg.ForceCoarse,
		ClocksourcePath: cfg.ClocksourcePath,
	})
	if err != nil {
		return newCoarseClock(err.Error())
	}

	return c
}

// Default returns the process-wide clock used by the package-level
// functions.
func Default() *Clock { return std }

// Now returns the current instant of the process-wide clock.
func Now() Instant { return std.Now() }

// Since returns the time elapsed since i. It is shorthand for i.Elapsed().
func Since(i Instant) time.Duration { return i.Elapsed() }

// NewAnchor pairs the current instant of the process-wide clock with the
// current wall-clock time.
func NewAnchor() Anchor { return std.NewAnchor() }

// CurrentCycle returns the process-wide clock's current tick.
func CurrentCycle() uint64 { return std.CurrentCycle() }

// CyclesPerSecond returns the calibrated frequency of the process-wide clock.
func CyclesPerSecond() uint64 { return std.cal.CyclesPerSecond }

// NanosPerCycle returns the length of one tick of the process-wide clock.
func NanosPerCycle() float64 { return std.cal.NanosPerCycle }

// CyclesToDuration converts a tick delta of the process-wide clock.
func CyclesToDuration(delta uint64) time.Duration { return std.CyclesToDuration(delta) }

// DurationToCycles converts a duration into ticks of the process-wide clock.
func DurationToCycles(d time.Duration) uint64 { return std.DurationToCycles(d) }
