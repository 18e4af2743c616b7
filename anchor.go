package tscclock

import "time"

// Anchor ties an Instant to the wall-clock time at which it was captured,
// so other instants of the same Clock can be expressed as unix time.
type Anchor struct {
	instant   Instant
	unixNanos uint64
}

// NewAnchor captures the wall clock and then the current instant of c.
func (c *Clock) NewAnchor() Anchor {
	unixNanos := time.Now().UnixNano()

	return Anchor{instant: c.Now(), unixNanos: uint64(unixNanos)}
}

// Instant returns the instant recorded by a.
func (a Anchor) Instant() Instant { return a.instant }

// UnixNanos returns the wall-clock reading recorded by a.
func (a Anchor) UnixNanos() uint64 { return a.unixNanos }

// AsUnixNanos translates i into nanoseconds since the unix epoch using a.
// i may be captured before or after a; results for instants of the same
// clock are monotonic in i. Instants that would map before 1970 yield 0.
func (i Instant) AsUnixNanos(a Anchor) uint64 {
	c := a.instant.owner()

	d := i.diff(a.instant)
	if d >= 0 {
		return a.unixNanos + uint64(c.CyclesToDuration(uint64(d)))
	}

	back := uint64(c.CyclesToDuration(uint64(-d)))
	if back > a.unixNanos {
		return 0
	}

	return a.unixNanos - back
}

// UnixTime is AsUnixNanos as a time.Time.
func (i Instant) UnixTime(a Anchor) time.Time {
	return time.Unix(0, int64(i.AsUnixNanos(a)))
}
