// Package coarse is the low-resolution monotonic clock used when the cycle
// counter cannot be trusted.
package coarse

// Now returns monotonic nanoseconds since an unspecified starting point.
// The value is only meaningful relative to other Now readings in the same
// process. Resolution is platform dependent and can be several milliseconds.
func Now() uint64 {
	return now()
}
