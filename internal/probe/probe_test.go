package probe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/tscclock/internal/cpu"
)

func fixedSource(name string) func(string) (string, error) {
	return func(string) (string, error) { return name, nil }
}

func TestDecide(t *testing.T) {
	t.Parallel()

	x86 := cpu.Features{HasCycleCounter: true, HasInvariantTSC: true, Architecture: "amd64"}
	arm := cpu.Features{HasCycleCounter: true, CounterFrequencyHz: 24_000_000, Architecture: "arm64"}

	tests := []struct {
		name     string
		cfg      Config
		features cpu.Features
		goos     string
		source   func(string) (string, error)
		want     bool
		reason   string
	}{
		{
			name:     "invariant tsc on linux",
			features: x86,
			goos:     "linux",
			source:   fixedSource("tsc"),
			want:     true,
		},
		{
			name:     "forced coarse",
			cfg:      Config{ForceCoarse: true},
			features: x86,
			goos:     "linux",
			source:   fixedSource("tsc"),
			reason:   "forced",
		},
		{
			name:     "no counter",
			features: cpu.Features{Architecture: "riscv64"},
			goos:     "linux",
			source:   fixedSource("tsc"),
			reason:   "no hardware cycle counter",
		},
		{
			name:     "not linux",
			features: x86,
			goos:     "windows",
			source:   fixedSource("tsc"),
			reason:   "windows",
		},
		{
			name:     "kernel chose hpet",
			features: x86,
			goos:     "linux",
			source:   fixedSource("hpet"),
			reason:   `"hpet"`,
		},
		{
			name:     "clocksource unreadable",
			features: x86,
			goos:     "linux",
			source:   func(string) (string, error) { return "", errors.New("permission denied") },
			reason:   "permission denied",
		},
		{
			name:     "variant tsc on bare metal",
			features: cpu.Features{HasCycleCounter: true, Architecture: "amd64"},
			goos:     "linux",
			source:   fixedSource("tsc"),
			reason:   "not invariant",
		},
		{
			name:     "variant flag hidden by hypervisor",
			features: cpu.Features{HasCycleCounter: true, Hypervisor: true, Architecture: "amd64"},
			goos:     "linux",
			source:   fixedSource("tsc"),
			want:     true,
		},
		{
			name:     "invariant tsc on 386",
			features: cpu.Features{HasCycleCounter: true, HasInvariantTSC: true, Architecture: "386"},
			goos:     "linux",
			source:   fixedSource("tsc"),
			want:     true,
		},
		{
			name:     "arm generic timer",
			features: arm,
			goos:     "linux",
			want:     true,
			reason:   "24000000 Hz",
		},
		{
			name:     "arm without frequency",
			features: cpu.Features{HasCycleCounter: true, Architecture: "arm64"},
			goos:     "linux",
			reason:   "CNTFRQ_EL0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := decide(tt.cfg, tt.features, tt.goos, tt.source)
			assert.Equal(t, tt.want, got.UseCounter, got.Reason)
			assert.Contains(t, got.Reason, tt.reason)
		})
	}
}

func TestDecide_UsesConfiguredPath(t *testing.T) {
	t.Parallel()

	var seen string
	record := func(path string) (string, error) {
		seen = path
		return "tsc", nil
	}

	x86 := cpu.Features{HasCycleCounter: true, HasInvariantTSC: true, Architecture: "amd64"}

	decide(Config{}, x86, "linux", record)
	assert.Equal(t, DefaultClocksourcePath, seen)

	decide(Config{ClocksourcePath: "/tmp/cs"}, x86, "linux", record)
	assert.Equal(t, "/tmp/cs", seen)
}

func TestReadClocksource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "current_clocksource")
	require.NoError(t, os.WriteFile(path, []byte("tsc\n"), 0o600))

	got, err := readClocksource(path)
	require.NoError(t, err)
	assert.Equal(t, "tsc", got)

	_, err = readClocksource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvForceCoarse, "true")
	t.Setenv(EnvClocksourcePath, "/tmp/clocksource")

	cfg := ConfigFromEnv()
	assert.True(t, cfg.ForceCoarse)
	assert.Equal(t, "/tmp/clocksource", cfg.ClocksourcePath)

	t.Setenv(EnvForceCoarse, "not-a-bool")
	assert.False(t, ConfigFromEnv().ForceCoarse)
}

func TestDecision_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "counter: ok", Decision{UseCounter: true, Reason: "ok"}.String())
	assert.Equal(t, "coarse: forced", Decision{Reason: "forced"}.String())
}

func TestProbe(t *testing.T) {
	d := Probe(Config{})
	t.Logf("probe decision: %s", d)

	assert.NotEmpty(t, d.Reason)

	if !cpu.HasCycleCounter {
		assert.False(t, d.UseCounter)
	}
}
