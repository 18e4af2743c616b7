// Package probe decides whether the hardware cycle counter is trustworthy
// enough to back the clock, or whether the coarse clock must be used.
package probe

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/tscclock/internal/cpu"
)

const (
	// DefaultClocksourcePath is where Linux reports the clocksource it
	// selected after validating the TSC across all cores.
	DefaultClocksourcePath = "/sys/devices/system/clocksource/clocksource0/current_clocksource"

	// EnvForceCoarse forces the coarse clock when set to a true value.
	EnvForceCoarse = "TSCCLOCK_FORCE_COARSE"

	// EnvClocksourcePath overrides DefaultClocksourcePath.
	EnvClocksourcePath = "TSCCLOCK_CLOCKSOURCE_PATH"
)

// Config holds the inputs of the probe that do not come from the hardware.
type Config struct {
	// ForceCoarse disables the hardware counter unconditionally.
	ForceCoarse bool

	// ClocksourcePath is the sysfs file naming the kernel clocksource.
	// Empty means DefaultClocksourcePath.
	ClocksourcePath string
}

// ConfigFromEnv builds a Config from the TSCCLOCK_* environment variables.
// Unparseable values are logged and ignored.
func ConfigFromEnv() Config {
	var cfg Config

	if v, ok := os.LookupEnv(EnvForceCoarse); ok {
		force, err := strconv.ParseBool(v)
		if err != nil {
			log.Warnf("ignoring %s=%q: %v", EnvForceCoarse, v, err)
		} else {
			cfg.ForceCoarse = force
		}
	}

	cfg.ClocksourcePath = os.Getenv(EnvClocksourcePath)

	return cfg
}

// Decision is the outcome of Probe.
type Decision struct {
	// UseCounter is true when the hardware counter should be calibrated and
	// used.
	UseCounter bool

	// Reason explains the decision in a form suitable for logs.
	Reason string
}

func (d Decision) String() string {
	if d.UseCounter {
		return "counter: " + d.Reason
	}

	return "coarse: " + d.Reason
}

// Probe inspects the running platform.
func Probe(cfg Config) Decision {
	return decide(cfg, cpu.DetectFeatures(), runtime.GOOS, readClocksource)
}

func decide(cfg Config, f cpu.Features, goos string, clocksource func(string) (string, error)) Decision {
	if cfg.ForceCoarse {
		return Decision{Reason: "forced by configuration"}
	}

	if !f.HasCycleCounter {
		return Decision{Reason: "no hardware cycle counter on " + f.Architecture}
	}

	// Only Linux tells us whether it found the counter consistent across cores.
	if goos != "linux" {
		return Decision{Reason: "hardware counter is not validated on " + goos}
	}

	switch f.Architecture {
	case "amd64", "386":
		return decideTSC(cfg, f, clocksource)
	case "arm64":
		if f.CounterFrequencyHz == 0 {
			return Decision{Reason: "CNTFRQ_EL0 is not programmed"}
		}

		return Decision{
			UseCounter: true,
			Reason:     fmt.Sprintf("ARM generic timer at %d Hz", f.CounterFrequencyHz),
		}
	default:
		return Decision{Reason: "unsupported architecture " + f.Architecture}
	}
}

func decideTSC(cfg Config, f cpu.Features, clocksource func(string) (string, error)) Decision {
	path := cfg.ClocksourcePath
	if path == "" {
		path = DefaultClocksourcePath
	}

	src, err := clocksource(path)
	if err != nil {
		return Decision{Reason: fmt.Sprintf("cannot read kernel clocksource: %v", err)}
	}

	if src != "tsc" {
		return Decision{Reason: fmt.Sprintf("kernel clocksource is %q, not tsc", src)}
	}

	// Hypervisors often hide the invariant flag while still providing a
	// stable TSC; the kernel's choice of clocksource is the stronger signal
	// there.
	if !f.HasInvariantTSC && !f.Hypervisor {
		return Decision{Reason: "TSC is not invariant"}
	}

	return Decision{UseCounter: true, Reason: "invariant TSC, kernel clocksource tsc"}
}

func readClocksource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}
