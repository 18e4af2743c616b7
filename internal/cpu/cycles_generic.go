//go:build purego || !(amd64 || 386 || arm64)

package cpu

import "time"

const hasCycleCounter = false

// readCycleCounter falls back to time.Now() on platforms without assembly support.
// Returns nanoseconds since an arbitrary point in time.
func readCycleCounter() uint64 {
	return uint64(time.Now().UnixNano())
}

// getCounterFrequencyHz returns 0 for generic platforms.
func getCounterFrequencyHz() uint64 {
	return 0
}
