package duration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Duration
		wantError bool
	}{
		{name: "single fixed", input: "5h", want: Duration{nsecs: 5 * nsPerHour}},
		{name: "mixed calendar and fixed", input: "3mo2d5h30m", want: Duration{months: 3, days: 2, nsecs: 5*nsPerHour + 30*nsPerMin}},
		{name: "year folds to months", input: "1y", want: Duration{months: 12}},
		{name: "year plus months", input: "2y3mo", want: Duration{months: 27}},
		{name: "weeks", input: "2w", want: Duration{weeks: 2}},
		{name: "sub-second units", input: "1s500ms250us7ns", want: Duration{nsecs: nsPerSec + 500*nsPerMs + 250*nsPerUs + 7}},
		{name: "repeated units accumulate", input: "1h1h30m", want: Duration{nsecs: 2*nsPerHour + 30*nsPerMin}},
		{name: "negative", input: "-1mo", want: Duration{months: 1, negative: true}},
		{name: "negative mixed", input: "-3mo2d", want: Duration{months: 3, days: 2, negative: true}},
		{name: "empty invalid", input: "", wantError: true},
		{name: "bare sign invalid", input: "-", wantError: true},
		{name: "missing unit invalid", input: "15", wantError: true},
		{name: "unknown unit invalid", input: "3q", wantError: true},
		{name: "unit before digits invalid", input: "mo3", wantError: true},
		{name: "separator invalid", input: "1h 30m", wantError: true},
		{name: "uppercase invalid", input: "1H", wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantError {
				require.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestIsCalendar(t *testing.T) {
	require.True(t, MustParse("1mo").IsCalendar())
	require.True(t, MustParse("1w").IsCalendar())
	require.True(t, MustParse("1d").IsCalendar())
	require.False(t, MustParse("24h").IsCalendar())
	require.False(t, MustParse("3600s").IsCalendar())
}

func TestNegate(t *testing.T) {
	d := MustParse("3mo2d")
	n := d.Negate()
	require.True(t, n.IsNegative())
	require.False(t, d.IsNegative())
	require.Equal(t, d, n.Negate())

	// Zero stays sign-free so it compares equal however it was built.
	require.Equal(t, Duration{}, Duration{}.Negate())
}

func TestStringRoundTrip(t *testing.T) {
	for _, in := range []string{"3mo2d5h30m", "-1mo", "2y3mo1w", "90m", "1s500ms", "0ns"} {
		d := MustParse(in)
		back, err := Parse(d.String())
		require.NoError(t, err)
		require.Equal(t, d, back, "input %q rendered as %q", in, d.String())
	}
}
