package bulk

import (
	"context"
	"testing"
	"time"

	"github.com/lodestar-lab/temporal-engine/internal/core/duration"
	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
	"github.com/lodestar-lab/temporal-engine/internal/core/series"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
	"github.com/stretchr/testify/require"
)

func ns(y int, mo time.Month, d, h, mi, s int) int64 {
	return time.Date(y, mo, d, h, mi, s, 0, time.UTC).UnixNano()
}

func TestAddDurationPreservesNulls(t *testing.T) {
	s, err := series.New(
		[]int64{ns(2021, time.January, 31, 0, 0, 0), 0, ns(2021, time.February, 28, 0, 0, 0)},
		[]bool{true, false, true},
		resolution.Nanosecond,
	)
	require.NoError(t, err)

	out, failures, err := AddDuration(context.Background(), s, duration.MustParse("1mo"), nil, Options{})
	require.NoError(t, err)
	require.Zero(t, failures)

	require.Equal(t, ns(2021, time.February, 28, 0, 0, 0), out.Values[0])
	require.False(t, out.Valid(1))
	require.Equal(t, ns(2021, time.March, 28, 0, 0, 0), out.Values[2])
}

func TestAddDurationIsolatesElementFailures(t *testing.T) {
	// The second element lands on a nonexistent wall time under Raise;
	// only it becomes null.
	tz, err := timezone.NewResolver("America/New_York", nil)
	require.NoError(t, err)

	s, err := series.New([]int64{
		ns(2021, time.March, 13, 6, 30, 0), // 01:30 EST + 1d -> fine
		ns(2021, time.March, 13, 7, 30, 0), // 02:30 EST + 1d -> gap
	}, nil, resolution.Nanosecond)
	require.NoError(t, err)

	out, failures, err := AddDuration(context.Background(), s, duration.MustParse("1d"), tz, Options{
		Nonexistent: timezone.RaiseNonexistent,
	})
	require.NoError(t, err)
	require.Equal(t, 1, failures)
	require.True(t, out.Valid(0))
	require.False(t, out.Valid(1))
}

func TestLocalToUtcBulk(t *testing.T) {
	tz, err := timezone.NewResolver("America/New_York", nil)
	require.NoError(t, err)

	msOf := func(nsVal int64) int64 { return nsVal / int64(time.Millisecond) }
	s, err := series.New([]int64{
		msOf(ns(2021, time.March, 14, 1, 30, 0)),
		msOf(ns(2021, time.March, 14, 2, 30, 0)), // skipped hour
		msOf(ns(2021, time.March, 14, 3, 30, 0)),
	}, nil, resolution.Millisecond)
	require.NoError(t, err)

	out, failures, err := LocalToUtc(context.Background(), s, tz, Options{
		Nonexistent: timezone.NullResult,
	})
	require.NoError(t, err)
	require.Equal(t, 1, failures)

	require.Equal(t, msOf(ns(2021, time.March, 14, 6, 30, 0)), out.Values[0])
	require.False(t, out.Valid(1))
	require.Equal(t, msOf(ns(2021, time.March, 14, 7, 30, 0)), out.Values[2])
}

func TestUtcToLocalRoundTripBulk(t *testing.T) {
	tz, err := timezone.NewResolver("Europe/Amsterdam", nil)
	require.NoError(t, err)

	s, err := series.New([]int64{
		ns(2021, time.June, 1, 12, 0, 0),
		ns(2021, time.December, 1, 12, 0, 0),
	}, nil, resolution.Nanosecond)
	require.NoError(t, err)

	local, failures, err := UtcToLocal(context.Background(), s, tz, Options{})
	require.NoError(t, err)
	require.Zero(t, failures)
	// CEST is UTC+2, CET is UTC+1.
	require.Equal(t, ns(2021, time.June, 1, 14, 0, 0), local.Values[0])
	require.Equal(t, ns(2021, time.December, 1, 13, 0, 0), local.Values[1])

	back, failures, err := LocalToUtc(context.Background(), local, tz, Options{})
	require.NoError(t, err)
	require.Zero(t, failures)
	require.Equal(t, s.Values, back.Values)
}

func TestLargeColumnFansOut(t *testing.T) {
	n := 3 * minChunk
	values := make([]int64, n)
	base := ns(2021, time.June, 1, 0, 0, 0)
	for i := range values {
		values[i] = base + int64(i)*int64(time.Second)
	}
	s, err := series.New(values, nil, resolution.Nanosecond)
	require.NoError(t, err)

	out, failures, err := AddDuration(context.Background(), s, duration.MustParse("1h"), nil, Options{Workers: 4})
	require.NoError(t, err)
	require.Zero(t, failures)
	for i := range values {
		require.Equal(t, values[i]+int64(time.Hour), out.Values[i])
	}
}
