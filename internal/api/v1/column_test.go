package v1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadColumnRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     UploadColumnRequest
		wantErr string
	}{
		{
			name: "valid",
			req: UploadColumnRequest{
				Name:   "observed_at",
				Dtype:  "datetime[us]",
				Values: []string{"2024-01-01 00:00:00"},
			},
		},
		{
			name:    "missing name",
			req:     UploadColumnRequest{Dtype: "date", Values: []string{"2024-01-01"}},
			wantErr: "name is required",
		},
		{
			name:    "missing dtype",
			req:     UploadColumnRequest{Name: "d", Values: []string{"2024-01-01"}},
			wantErr: "dtype is required",
		},
		{
			name:    "empty values",
			req:     UploadColumnRequest{Name: "d", Dtype: "date"},
			wantErr: "values must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLocalizeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     LocalizeRequest
		wantErr string
	}{
		{
			name: "local to utc",
			req:  LocalizeRequest{Direction: "local_to_utc", Timezone: "Europe/Amsterdam"},
		},
		{
			name: "utc to local",
			req:  LocalizeRequest{Direction: "utc_to_local", Timezone: "UTC"},
		},
		{
			name:    "bad direction",
			req:     LocalizeRequest{Direction: "sideways", Timezone: "UTC"},
			wantErr: "direction must be",
		},
		{
			name:    "missing timezone",
			req:     LocalizeRequest{Direction: "local_to_utc"},
			wantErr: "timezone is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWindowRequestValidate(t *testing.T) {
	require.NoError(t, (&WindowRequest{Every: "1d"}).Validate())
	require.ErrorContains(t, (&WindowRequest{}).Validate(), "every is required")
}

func TestShiftAndTruncateValidate(t *testing.T) {
	require.NoError(t, (&ShiftRequest{Duration: "1mo"}).Validate())
	require.ErrorContains(t, (&ShiftRequest{}).Validate(), "duration is required")
	require.NoError(t, (&TruncateRequest{Duration: "15m"}).Validate())
	require.ErrorContains(t, (&TruncateRequest{}).Validate(), "duration is required")
}
