//go:build 386 || amd64

package cpu

const (
	leafFeatures        = 0x1
	leafExtendedMax     = 0x80000000
	leafPowerManagement = 0x80000007

	bitHypervisor   = 1 << 31 // leaf 1, ECX
	bitInvariantTSC = 1 << 8  // leaf 0x80000007, EDX
)

// detectFeaturesImpl performs cycle-counter feature detection on x86 systems.
//
// Under purego builds cpuid reports zeros, so every flag is false and the
// probe will refuse the TSC.
func detectFeaturesImpl() Features {
	var f Features

	_, _, ecx, _ := cpuid(leafFeatures, 0)
	f.Hypervisor = ecx&bitHypervisor != 0

	maxExt, _, _, _ := cpuid(leafExtendedMax, 0)
	if maxExt >= leafPowerManagement {
		_, _, _, edx := cpuid(leafPowerManagement, 0)
		f.HasInvariantTSC = edx&bitInvariantTSC != 0
	}

	return f
}
