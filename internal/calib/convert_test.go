package calib

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func resultFor(hz uint64) Result {
	return Result{CyclesPerSecond: hz, NanosPerCycle: nanosPerSecond / float64(hz)}
}

func TestCyclesToDuration(t *testing.T) {
	t.Parallel()

	r := resultFor(2_500_000_000)

	assert.Equal(t, time.Duration(0), r.CyclesToDuration(0))
	assert.Equal(t, time.Duration(0), r.CyclesToDuration(1))
	assert.Equal(t, time.Millisecond, r.CyclesToDuration(2_500_000))
	assert.Equal(t, time.Second, r.CyclesToDuration(2_500_000_000))
	// At 0.4ns per cycle the full counter range still fits in a Duration.
	assert.Equal(t, time.Duration(7378697629483821056), r.CyclesToDuration(math.MaxUint64))
}

func TestCyclesToDuration_Saturates(t *testing.T) {
	t.Parallel()

	for _, hz := range []uint64{1_000_000_000, 24_000_000} {
		r := resultFor(hz)

		assert.Equal(t, time.Duration(math.MaxInt64), r.CyclesToDuration(math.MaxUint64), "hz=%d", hz)
		assert.Equal(t, time.Duration(math.MaxInt64), r.CyclesToDuration(1<<63), "hz=%d", hz)
	}
}

func TestDurationToCycles(t *testing.T) {
	t.Parallel()

	r := resultFor(2_500_000_000)

	assert.Equal(t, uint64(0), r.DurationToCycles(-time.Second))
	assert.Equal(t, uint64(0), r.DurationToCycles(0))
	assert.Equal(t, uint64(3), r.DurationToCycles(time.Nanosecond)) // 2.5 rounds up
	assert.Equal(t, uint64(2_500_000), r.DurationToCycles(time.Millisecond))
	assert.Equal(t, uint64(math.MaxUint64), resultFor(math.MaxUint64).DurationToCycles(math.MaxInt64))
}

func TestConversionRoundTrip(t *testing.T) {
	t.Parallel()

	const year = 365 * 24 * time.Hour

	for _, hz := range []uint64{24_000_000, 1_000_000_000, 2_999_999_937, 5_000_000_000} {
		r := resultFor(hz)

		// One nanosecond's worth of cycles, at least one cycle.
		unit := math.Max(1, math.Ceil(float64(hz)/nanosPerSecond))

		cases := map[string]uint64{
			"zero":        0,
			"one":         1,
			"millisecond": hz / 1000,
			"second":      hz,
			"thirty-year": r.DurationToCycles(30 * year),
		}

		for name, x := range cases {
			back := r.DurationToCycles(r.CyclesToDuration(x))

			tolerance := unit + float64(x)*1e-12
			assert.InDelta(t, float64(x), float64(back), tolerance, "hz=%d %s", hz, name)
		}
	}
}

func TestCyclesToDuration_Monotonic(t *testing.T) {
	t.Parallel()

	r := resultFor(3_123_456_789)

	prev := r.CyclesToDuration(0)
	for delta := uint64(1); delta < 1<<40; delta = delta*3 + 1 {
		d := r.CyclesToDuration(delta)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func BenchmarkCyclesToDuration(b *testing.B) {
	r := resultFor(3_000_000_000)
	for range b.N {
		_ = r.CyclesToDuration(1_000_000)
	}
}
