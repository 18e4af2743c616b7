package calib

import (
	"math"
	"math/bits"
	"time"
)

// maxDurationNanos is math.MaxInt64 as a float64 (rounds up to 2^63).
const maxDurationNanos = float64(math.MaxInt64)

// CyclesToDuration converts a cycle delta into a duration, truncating to
// whole nanoseconds. Deltas longer than the largest time.Duration (about
// 292 years) saturate instead of overflowing.
func (r Result) CyclesToDuration(delta uint64) time.Duration {
	ns := float64(delta) * r.NanosPerCycle
	if ns >= maxDurationNanos {
		return math.MaxInt64
	}

	return time.Duration(ns)
}

// DurationToCycles converts a duration into the nearest number of cycles.
// Negative durations yield 0; results beyond the uint64 range saturate.
func (r Result) DurationToCycles(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}

	hi, lo := bits.Mul64(uint64(d), r.CyclesPerSecond)
	if hi >= nanosPerSecond {
		return math.MaxUint64
	}

	q, rem := bits.Div64(hi, lo, nanosPerSecond)
	if rem >= nanosPerSecond/2 && q < math.MaxUint64 {
		q++
	}

	return q
}
