//go:build arm64 && !purego

package cpu

const hasCycleCounter = true

// readCycleCounter reads the virtual counter (CNTVCT_EL0).
// Implemented in cycles_arm64.s
//
//go:noescape
func readCycleCounter() uint64

// readCounterFrequency reads the counter frequency register (CNTFRQ_EL0).
// Implemented in cycles_arm64.s
//
//go:noescape
func readCounterFrequency() uint64

// getCounterFrequencyHz returns the frequency programmed by firmware into
// CNTFRQ_EL0. It is informational only; the calibrated rate is what the
// clock uses.
func getCounterFrequencyHz() uint64 {
	return readCounterFrequency()
}
