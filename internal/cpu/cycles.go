// Package cpu provides raw access to the hardware cycle counter and the
// processor features that decide whether the counter can be trusted.
package cpu

import "runtime"

// HasCycleCounter reports whether ReadCycleCounter is backed by a hardware
// register on this build. When false, ReadCycleCounter returns wall-clock
// nanoseconds instead.
const HasCycleCounter = hasCycleCounter

// ReadCycleCounter reads the CPU's cycle counter (TSC on x86, CNTVCT on ARM).
//
// The value is monotonic on a single core, but its absolute value is not
// synchronized across cores and its frequency is not known in advance.
// On platforms without assembly support, falls back to time.Now().
func ReadCycleCounter() uint64 {
	return readCycleCounter()
}

// CyclesSince returns the number of cycles elapsed since the given start cycle count.
// The subtraction wraps, so a reading taken on a core whose counter lags the
// starting core's shows up as a very large value rather than a negative one.
func CyclesSince(start uint64) uint64 {
	return ReadCycleCounter() - start
}

// CounterFrequencyHz returns the frequency advertised by the hardware for the
// counter, or 0 when the architecture does not publish one (x86 TSC).
func CounterFrequencyHz() uint64 {
	return getCounterFrequencyHz()
}

// Features describes the processor properties relevant to using the cycle
// counter as a clock.
type Features struct {
	// HasCycleCounter is true when the counter is read from hardware.
	HasCycleCounter bool

	// HasInvariantTSC is true when the TSC ticks at a constant rate in all
	// ACPI P-, C- and T-states (CPUID 0x80000007 EDX bit 8).
	HasInvariantTSC bool

	// Hypervisor is true when running under a hypervisor (CPUID 1 ECX bit 31).
	Hypervisor bool

	// CounterFrequencyHz is the architecturally advertised counter
	// frequency, 0 if unknown.
	CounterFrequencyHz uint64

	// Architecture is runtime.GOARCH.
	Architecture string
}

// DetectFeatures reports the cycle-counter features of the current processor.
func DetectFeatures() Features {
	f := detectFeaturesImpl()
	f.HasCycleCounter = HasCycleCounter
	f.CounterFrequencyHz = CounterFrequencyHz()
	f.Architecture = runtime.GOARCH

	return f
}
