package main

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestCalibrate_ForceCoarse(t *testing.T) {
	out, err := execute(t, "calibrate", "--force-coarse")
	require.NoError(t, err)

	assert.Contains(t, out, "[fresh clock]")
	assert.Contains(t, out, "[process clock]")
	assert.Regexp(t, `source:\s+coarse`, out)
	assert.Contains(t, out, "forced by configuration")
}

func TestCalibrate_RequireCounterWhenForced(t *testing.T) {
	_, err := execute(t, "calibrate", "--force-coarse", "--require-counter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hardware counter unavailable")
}

func TestCompare(t *testing.T) {
	out, err := execute(t, "compare", "--force-coarse", "--rounds", "2", "--min", "1ms", "--max", "5ms")
	require.NoError(t, err)

	assert.Contains(t, out, "source=coarse rounds=2")
	assert.Contains(t, out, "time.Since")
}

func TestCompare_SeedIsReproducible(t *testing.T) {
	sleeps := func() []string {
		out, err := execute(t, "compare", "--force-coarse", "--rounds", "3", "--min", "1ms", "--max", "3ms", "--seed", "42")
		require.NoError(t, err)

		var col []string
		for _, line := range strings.Split(out, "\n")[2:] {
			if fields := strings.Fields(line); len(fields) > 1 {
				col = append(col, fields[1])
			}
		}

		return col
	}

	first := sleeps()
	assert.Len(t, first, 3)
	assert.Equal(t, first, sleeps())
}

func TestCompare_InvalidRange(t *testing.T) {
	_, err := execute(t, "compare", "--min", "5ms", "--max", "1ms")
	require.Error(t, err)
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--iters", "1000")
	require.NoError(t, err)

	for _, name := range []string{"tscclock.Now", "time.Now", "Elapsed", "time.Since"} {
		assert.Contains(t, out, name)
	}

	_, err = execute(t, "bench", "--iters", "0")
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	_, err := execute(t, "--log-level", "bogus", "bench", "--iters", "1")
	require.Error(t, err)

	_, err = execute(t, "--log-level", "debug", "bench", "--iters", "1")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestFlagsFromEnv(t *testing.T) {
	t.Setenv("TSCCLOCK_FORCE_COARSE", "true")

	out, err := execute(t, "calibrate")
	require.NoError(t, err)
	assert.Contains(t, out, "forced by configuration")
}

func TestFlagNameToEnvVar(t *testing.T) {
	assert.Equal(t, "TSCCLOCK_FORCE_COARSE", flagNameToEnvVar("force-coarse", envPrefix))
	assert.Equal(t, "TSCCLOCK_LOG_LEVEL", flagNameToEnvVar("log-level", envPrefix))
}
