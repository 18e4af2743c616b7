//go:build !386 && !amd64

package cpu

// detectFeaturesImpl has nothing to probe beyond what DetectFeatures fills
// in: the ARM generic timer is architecturally constant-rate.
func detectFeaturesImpl() Features {
	return Features{}
}
