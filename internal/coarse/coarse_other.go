//go:build !linux

package coarse

import "github.com/juju/clock/monotonic"

func now() uint64 {
	return uint64(monotonic.Now())
}
