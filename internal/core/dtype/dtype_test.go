package dtype

import (
	"testing"

	"github.com/lodestar-lab/temporal-engine/internal/core/resolution"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      DataType
		wantError bool
	}{
		{name: "date", input: "date", want: NewDate()},
		{name: "time", input: "time", want: NewTime()},
		{name: "datetime ms", input: "datetime[ms]", want: NewDatetime(resolution.Millisecond, "")},
		{name: "datetime with zone", input: "datetime[us, Europe/Amsterdam]", want: NewDatetime(resolution.Microsecond, "Europe/Amsterdam")},
		{name: "duration ns", input: "duration[ns]", want: NewDuration(resolution.Nanosecond)},
		{name: "datetime day resolution invalid", input: "datetime[d]", wantError: true},
		{name: "duration day resolution invalid", input: "duration[d]", wantError: true},
		{name: "missing bracket invalid", input: "datetime", wantError: true},
		{name: "unknown kind invalid", input: "interval[ms]", wantError: true},
		{name: "garbage invalid", input: "", wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, d := range []DataType{
		NewDate(),
		NewTime(),
		NewDatetime(resolution.Nanosecond, ""),
		NewDatetime(resolution.Millisecond, "America/New_York"),
		NewDuration(resolution.Microsecond),
	} {
		got, err := Parse(d.String())
		require.NoError(t, err)
		require.Equal(t, d, got)
	}
}

func TestResolutionFixedKinds(t *testing.T) {
	require.Equal(t, resolution.DayCount, NewDate().Resolution())
	require.Equal(t, resolution.Nanosecond, NewTime().Resolution())
}
