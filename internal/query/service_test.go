package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1 "github.com/lodestar-lab/temporal-engine/internal/api/v1"
	"github.com/lodestar-lab/temporal-engine/internal/core/storage"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
	storagemocks "github.com/lodestar-lab/temporal-engine/internal/mocks/storage"
)

const usPerHour = int64(3_600_000_000)

func storedColumn(id, dt string, values []int64, validity []bool) *v1.Column {
	return &v1.Column{
		ID:        id,
		Name:      "ts",
		Dtype:     dt,
		Values:    values,
		Validity:  validity,
		CreatedAt: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}
}

func newTestQueryService(t *testing.T) (*Service, *storagemocks.ColumnStore) {
	t.Helper()
	mockStore := storagemocks.NewColumnStore(t)
	return NewService(mockStore, 1, timezone.RaiseAmbiguous, timezone.RaiseNonexistent), mockStore
}

func TestService_ShiftFixedDuration(t *testing.T) {
	svc, mockStore := newTestQueryService(t)

	mockStore.EXPECT().
		GetColumn(mock.Anything, "col-1").
		Return(storedColumn("col-1", "datetime[us]", []int64{0, usPerHour, 0}, []bool{true, true, false}), nil).
		Once()

	resp, err := svc.Shift(context.Background(), "col-1", v1.ShiftRequest{Duration: "1h30m"})
	require.NoError(t, err)
	require.Equal(t, "datetime[us]", resp.Dtype)
	require.Equal(t, []int64{usPerHour + usPerHour/2, 2*usPerHour + usPerHour/2, 0}, resp.Values)
	require.Equal(t, []bool{true, true, false}, resp.Validity)
	require.Zero(t, resp.Failures)
}

func TestService_ShiftInvalidDuration(t *testing.T) {
	svc, mockStore := newTestQueryService(t)

	mockStore.EXPECT().
		GetColumn(mock.Anything, "col-1").
		Return(storedColumn("col-1", "datetime[us]", []int64{0}, []bool{true}), nil).
		Once()

	_, err := svc.Shift(context.Background(), "col-1", v1.ShiftRequest{Duration: "1fortnight"})
	require.ErrorIs(t, err, ErrInvalidQuery)
}

func TestService_ShiftMissingColumn(t *testing.T) {
	svc, mockStore := newTestQueryService(t)

	mockStore.EXPECT().
		GetColumn(mock.Anything, "missing").
		Return(nil, storage.ErrNotFound).
		Once()

	_, err := svc.Shift(context.Background(), "missing", v1.ShiftRequest{Duration: "1h"})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_ShiftCalendarUsesColumnZone(t *testing.T) {
	svc, mockStore := newTestQueryService(t)

	// 2021-01-31 00:00 UTC
	jan31 := time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC).UnixMicro()
	feb28 := time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC).UnixMicro()

	mockStore.EXPECT().
		GetColumn(mock.Anything, "col-1").
		Return(storedColumn("col-1", "datetime[us, UTC]", []int64{jan31}, []bool{true}), nil).
		Once()

	resp, err := svc.Shift(context.Background(), "col-1", v1.ShiftRequest{Duration: "1mo"})
	require.NoError(t, err)
	require.Equal(t, []int64{feb28}, resp.Values)
}

func TestService_LocalizeRoundTrip(t *testing.T) {
	// 2021-06-01 00:00 wall time in New York is EDT (UTC-4).
	naive := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC).UnixMicro()
	utc := naive + 4*usPerHour

	t.Run("local to utc", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us]", []int64{naive}, []bool{true}), nil).
			Once()

		resp, err := svc.Localize(context.Background(), "col-1", v1.LocalizeRequest{
			Direction: "local_to_utc",
			Timezone:  "America/New_York",
		})
		require.NoError(t, err)
		require.Equal(t, "datetime[us, America/New_York]", resp.Dtype)
		require.Equal(t, []int64{utc}, resp.Values)
	})

	t.Run("utc to local", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us, America/New_York]", []int64{utc}, []bool{true}), nil).
			Once()

		resp, err := svc.Localize(context.Background(), "col-1", v1.LocalizeRequest{
			Direction: "utc_to_local",
			Timezone:  "America/New_York",
		})
		require.NoError(t, err)
		require.Equal(t, "datetime[us]", resp.Dtype)
		require.Equal(t, []int64{naive}, resp.Values)
	})

	t.Run("already aware", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us, UTC]", []int64{utc}, []bool{true}), nil).
			Once()

		_, err := svc.Localize(context.Background(), "col-1", v1.LocalizeRequest{
			Direction: "local_to_utc",
			Timezone:  "America/New_York",
		})
		require.ErrorIs(t, err, ErrInvalidQuery)
	})
}

func TestService_Cast(t *testing.T) {
	t.Run("zone annotation is free", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us]", []int64{1000}, []bool{true}), nil).
			Once()

		resp, err := svc.Cast(context.Background(), "col-1", v1.CastRequest{Dtype: "datetime[us, UTC]"})
		require.NoError(t, err)
		require.Equal(t, "datetime[us, UTC]", resp.Dtype)
		require.Equal(t, []int64{1000}, resp.Values)
	})

	t.Run("exact downscale", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us]", []int64{2000, 0}, []bool{true, false}), nil).
			Once()

		resp, err := svc.Cast(context.Background(), "col-1", v1.CastRequest{Dtype: "datetime[ms]"})
		require.NoError(t, err)
		require.Equal(t, []int64{2, 0}, resp.Values)
	})

	t.Run("lossy downscale rejected", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us]", []int64{1500}, []bool{true}), nil).
			Once()

		_, err := svc.Cast(context.Background(), "col-1", v1.CastRequest{Dtype: "datetime[ms]"})
		require.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("kind change rejected", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us]", []int64{0}, []bool{true}), nil).
			Once()

		_, err := svc.Cast(context.Background(), "col-1", v1.CastRequest{Dtype: "date"})
		require.ErrorIs(t, err, ErrInvalidQuery)
	})
}

func TestService_Truncate(t *testing.T) {
	svc, mockStore := newTestQueryService(t)

	mockStore.EXPECT().
		GetColumn(mock.Anything, "col-1").
		Return(storedColumn("col-1", "datetime[us]", []int64{90 * 60 * 1_000_000, 0}, []bool{true, false}), nil).
		Once()

	resp, err := svc.Truncate(context.Background(), "col-1", v1.TruncateRequest{Duration: "1h"})
	require.NoError(t, err)
	require.Equal(t, []int64{usPerHour, 0}, resp.Values)
}

func TestService_TruncateCalendarRejected(t *testing.T) {
	svc, mockStore := newTestQueryService(t)

	mockStore.EXPECT().
		GetColumn(mock.Anything, "col-1").
		Return(storedColumn("col-1", "datetime[us]", []int64{0}, []bool{true}), nil).
		Once()

	_, err := svc.Truncate(context.Background(), "col-1", v1.TruncateRequest{Duration: "1mo"})
	require.ErrorIs(t, err, ErrInvalidQuery)
}

func TestService_WindowsWithOperator(t *testing.T) {
	svc, mockStore := newTestQueryService(t)

	values := []int64{0, usPerHour, 2 * usPerHour, 3 * usPerHour}
	mockStore.EXPECT().
		GetColumn(mock.Anything, "col-1").
		Return(storedColumn("col-1", "datetime[us]", values, []bool{true, true, true, true}), nil).
		Once()

	windows, err := svc.Windows(context.Background(), "col-1", v1.WindowRequest{
		Every:    "2h",
		Operator: "count",
	})
	require.NoError(t, err)
	require.Len(t, windows, 2)

	require.Equal(t, int64(0), windows[0].Start)
	require.Equal(t, 2*usPerHour, windows[0].End)
	require.Equal(t, 0, windows[0].Lo)
	require.Equal(t, 2, windows[0].Hi)
	require.NotNil(t, windows[0].Count)
	require.Equal(t, int64(2), *windows[0].Count)
	require.Equal(t, "2", windows[0].Value)

	require.Equal(t, 2*usPerHour, windows[1].Start)
	require.Equal(t, 2, windows[1].Lo)
	require.Equal(t, 4, windows[1].Hi)
}

func TestService_WindowsRequireSortedNonNull(t *testing.T) {
	t.Run("nulls rejected", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us]", []int64{0, 0}, []bool{true, false}), nil).
			Once()

		_, err := svc.Windows(context.Background(), "col-1", v1.WindowRequest{Every: "1h"})
		require.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("unsorted rejected", func(t *testing.T) {
		svc, mockStore := newTestQueryService(t)
		mockStore.EXPECT().
			GetColumn(mock.Anything, "col-1").
			Return(storedColumn("col-1", "datetime[us]", []int64{usPerHour, 0}, []bool{true, true}), nil).
			Once()

		_, err := svc.Windows(context.Background(), "col-1", v1.WindowRequest{Every: "1h"})
		require.ErrorIs(t, err, ErrInvalidQuery)
	})
}
