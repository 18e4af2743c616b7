//go:build linux

package calib

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// cpuSetSize is CPU_SETSIZE; IsSet reports false past the end of the set.
const cpuSetSize = 1024

// pinThread restricts the calling OS thread to the first CPU it is currently
// allowed to run on and returns a function restoring the previous affinity.
// The caller must hold runtime.LockOSThread for the whole pinned section.
func pinThread() func() {
	var old unix.CPUSet
	if err := unix.SchedGetaffinity(0, &old); err != nil {
		log.WithError(err).Debug("calibration: cannot read thread affinity")
		return func() {}
	}

	target := -1

	for i := range cpuSetSize {
		if old.IsSet(i) {
			target = i
			break
		}
	}

	if target < 0 {
		return func() {}
	}

	var one unix.CPUSet
	one.Set(target)

	if err := unix.SchedSetaffinity(0, &one); err != nil {
		log.WithError(err).Debug("calibration: cannot pin thread")
		return func() {}
	}

	return func() {
		if err := unix.SchedSetaffinity(0, &old); err != nil {
			log.WithError(err).Warn("calibration: cannot restore thread affinity")
		}
	}
}
