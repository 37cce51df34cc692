package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/tithi-calendar/pkg/errors"
)

var epochNow = time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

func TestReconcilerMissingConfiguration(t *testing.T) {
	f := newFixture(epochNow)
	_, err := f.svc.GetDailyAstronomy(context.Background(), RangeRequest{StartDate: "2025-10-01", EndDate: "2025-10-03"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingConfiguration))
	require.False(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestReconcilerStaleActiveLocation(t *testing.T) {
	f := newFixture(epochNow)
	require.NoError(t, f.prefs.SetActiveLocation(context.Background(), 42))
	_, err := f.svc.GetDailyAstronomy(context.Background(), RangeRequest{StartDate: "2025-10-01", EndDate: "2025-10-03"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestReconcilerRejectsInvalidRanges(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()
	cases := []RangeRequest{
		{StartDate: "", EndDate: "2025-10-03"},
		{StartDate: "2025-10-01"},
		{StartDate: "01-10-2025", EndDate: "2025-10-03"},
		{StartDate: "2025-10-03", EndDate: "2025-10-01"},
		{StartDate: "2025-01-01", EndDate: "2029-01-01"},
	}
	for _, req := range cases {
		_, err := f.svc.GetDailyAstronomy(ctx, req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "request %+v: %v", req, err)
	}
}

func TestReconcilerTemporaryOverridesSaved(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()

	created, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "The Hague", Latitude: 52.0705, Longitude: 4.3007})
	require.NoError(t, err)

	req := RangeRequest{StartDate: "2025-10-01", EndDate: "2025-10-31"}
	saved, err := f.svc.GetDailyAstronomy(ctx, req)
	require.NoError(t, err)
	require.Equal(t, SourceSaved, saved.Source)
	require.Equal(t, 31, saved.Count)
	for _, rec := range saved.DailyAstronomy {
		require.NotNil(t, rec.LocationID)
		require.Equal(t, created.Location.ID, *rec.LocationID)
	}

	_, err = f.svc.SetTemporaryLocation(ctx, TemporaryLocationRequest{Name: "GPS", Latitude: 52.0705, Longitude: 4.3007})
	require.NoError(t, err)
	// Re-selecting the saved location must not clear the override.
	_, err = f.svc.SetActiveLocation(ctx, created.Location.ID)
	require.NoError(t, err)

	temporary, err := f.svc.GetDailyAstronomy(ctx, req)
	require.NoError(t, err)
	require.Equal(t, SourceTemporary, temporary.Source)
	require.Equal(t, saved.Count, temporary.Count)
	for i, rec := range temporary.DailyAstronomy {
		require.Nil(t, rec.LocationID)
		require.Equal(t, saved.DailyAstronomy[i].WithoutLocation(), rec)
	}

	_, err = f.svc.ClearTemporaryLocation(ctx)
	require.NoError(t, err)
	again, err := f.svc.GetDailyAstronomy(ctx, req)
	require.NoError(t, err)
	require.Equal(t, SourceSaved, again.Source)
	require.Equal(t, saved, again)
}

func TestReconcilerTemporaryWithoutSavedLocation(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()
	_, err := f.svc.SetTemporaryLocation(ctx, TemporaryLocationRequest{Latitude: -33.87, Longitude: 151.21})
	require.NoError(t, err)

	res, err := f.svc.GetDailyAstronomy(ctx, RangeRequest{StartDate: "2024-02-28", EndDate: "2024-03-01"})
	require.NoError(t, err)
	require.Equal(t, SourceTemporary, res.Source)
	require.Equal(t, 3, res.Count)
	require.Equal(t, 0, len(f.records.rows))
}

func TestReconcilerEmptySavedRangeIsNotNil(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()
	_, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "The Hague", Latitude: 52.0705, Longitude: 4.3007})
	require.NoError(t, err)

	res, err := f.svc.GetDailyAstronomy(ctx, RangeRequest{StartDate: "2030-01-01", EndDate: "2030-01-05"})
	require.NoError(t, err)
	require.NotNil(t, res.DailyAstronomy)
	require.Equal(t, 0, res.Count)
}
