//go:build 386 && !purego

package cpu

const hasCycleCounter = true

// readCycleCounter reads the CPU timestamp counter using RDTSC.
// Implemented in cycles_386.s
//
//go:noescape
func readCycleCounter() uint64

func getCounterFrequencyHz() uint64 {
	return 0
}
