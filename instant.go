package tscclock

import (
	"math"
	"time"
)

// Instant is a point on a Clock's monotonic timeline. Instants are small
// values meant to be copied. They are only comparable with instants of the
// same Clock; the zero Instant belongs to the process-wide clock.
type Instant struct {
	ticks uint64
	clock *Clock
}

// Now returns the current instant of c.
func (c *Clock) Now() Instant {
	return Instant{ticks: c.CurrentCycle(), clock: c}
}

func (i Instant) owner() *Clock {
	if i.clock == nil {
		return std
	}

	return i.clock
}

// diff interprets the wrapping difference i - j as signed, so instants on
// either side of the origin still order correctly.
func (i Instant) diff(j Instant) int64 {
	return int64(i.ticks - j.ticks)
}

// Ticks returns the raw tick count of i: cycles since calibration for a
// counter clock, nanoseconds for a coarse one.
func (i Instant) Ticks() uint64 { return i.ticks }

// IsZero reports whether i is the zero Instant.
func (i Instant) IsZero() bool { return i.ticks == 0 && i.clock == nil }

// Elapsed returns the time elapsed since i was captured.
func (i Instant) Elapsed() time.Duration {
	return i.owner().Now().Sub(i)
}

// Sub returns the duration i-j. If j is later than i the result is zero
// rather than negative. i and j must come from the same Clock; otherwise
// the result is meaningless.
func (i Instant) Sub(j Instant) time.Duration {
	d := i.diff(j)
	if d <= 0 {
		return 0
	}

	return i.owner().CyclesToDuration(uint64(d))
}

// Add returns i shifted by d, which may be negative.
func (i Instant) Add(d time.Duration) Instant {
	c := i.owner()

	if d >= 0 {
		return Instant{ticks: i.ticks + c.DurationToCycles(d), clock: i.clock}
	}

	if d == math.MinInt64 {
		d++
	}

	return Instant{ticks: i.ticks - c.DurationToCycles(-d), clock: i.clock}
}

// Before reports whether i is earlier than j. Like Sub, it only orders
// instants of the same Clock.
func (i Instant) Before(j Instant) bool { return i.diff(j) < 0 }

// After reports whether i is later than j, for instants of the same Clock.
func (i Instant) After(j Instant) bool { return i.diff(j) > 0 }

// Equal reports whether i and j are the same tick of the same Clock.
func (i Instant) Equal(j Instant) bool {
	return i.ticks == j.ticks && i.owner() == j.owner()
}

// Compare returns -1 if i is before j, +1 if after and 0 if they are the
// same tick. Only instants of the same Clock are ordered meaningfully.
func (i Instant) Compare(j Instant) int {
	switch d := i.diff(j); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}
