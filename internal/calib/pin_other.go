//go:build !linux

package calib

// pinThread is a no-op where thread affinity is not exposed; calibration
// then relies on runtime.LockOSThread alone.
func pinThread() func() {
	return func() {}
}
