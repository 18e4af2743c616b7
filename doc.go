// Package tscclock provides a monotonic clock for measuring intervals that
// reads the hardware cycle counter (TSC on x86, CNTVCT_EL0 on arm64) instead
// of asking the operating system for the time.
//
//	start := tscclock.Now()
//	// code to measure
//	elapsed := start.Elapsed()
//
// # Calibration
//
// The cycle counter does not tick at a documented rate and its absolute value
// differs between cores. When the package is initialized it measures the
// counter against the wall clock until two consecutive estimates agree to
// within one part per million, then derives the nanoseconds per cycle and an
// origin offset that lines the counter up with the start of calibration.
// This happens once, before any importing package runs, and typically takes
// 20 to 50 milliseconds. The result never changes afterwards.
//
// # Platform support
//
// The counter is used on Linux for amd64 and 386 when the kernel itself
// selected the TSC as its clocksource, and on Linux for arm64. Everywhere
// else, or when calibration does not converge, the package falls back to a
// coarse monotonic clock. Setting TSCCLOCK_FORCE_COARSE=1 forces the
// fallback.
//
// # Wall-clock time
//
// Instants are not tied to the calendar. An Anchor records an Instant and
// the wall clock together, which lets any Instant be translated into unix
// nanoseconds later:
//
//	anchor := tscclock.NewAnchor()
//	ts := start.AsUnixNanos(anchor)
package tscclock
