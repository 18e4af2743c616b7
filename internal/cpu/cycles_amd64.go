//go:build amd64 && !purego

package cpu

const hasCycleCounter = true

// readCycleCounter reads the CPU timestamp counter using RDTSC.
// Implemented in cycles_amd64.s
//
//go:noescape
func readCycleCounter() uint64

// getCounterFrequencyHz returns 0: the TSC frequency is not exposed
// architecturally and has to be calibrated.
func getCounterFrequencyHz() uint64 {
	return 0
}
