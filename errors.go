package tscclock

import "errors"

// ErrCounterUnavailable is returned by NewClock when Options.RequireCounter
// is set and the platform probe rejects the hardware counter.
var ErrCounterUnavailable = errors.New("tscclock: hardware counter unavailable")
