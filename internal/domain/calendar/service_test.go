package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/tithi-calendar/pkg/errors"
	"github.com/yanqian/tithi-calendar/pkg/util"
)

func TestCreateLocationGeneratesHorizon(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()

	created, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: " The Hague ", Latitude: 52.0705, Longitude: 4.3007})
	require.NoError(t, err)
	require.Equal(t, "The Hague", created.Location.Name)
	require.True(t, created.Location.IsPrimary)
	require.Equal(t, 184+365+365, created.Rows)

	count, err := f.records.Count(ctx, created.Location.ID)
	require.NoError(t, err)
	require.Equal(t, 914, count)

	prefs, err := f.svc.Preferences(ctx)
	require.NoError(t, err)
	require.NotNil(t, prefs.ActiveLocationID)
	require.Equal(t, created.Location.ID, *prefs.ActiveLocationID)
}

func TestCreateLocationKeepsExistingActive(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()
	first, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "A", Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	second, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "B", Latitude: 20, Longitude: 20})
	require.NoError(t, err)
	require.False(t, second.Location.IsPrimary)

	prefs, err := f.svc.Preferences(ctx)
	require.NoError(t, err)
	require.Equal(t, first.Location.ID, *prefs.ActiveLocationID)

	third, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "C", Latitude: 30, Longitude: 30, IsPrimary: true})
	require.NoError(t, err)
	prefs, err = f.svc.Preferences(ctx)
	require.NoError(t, err)
	require.Equal(t, third.Location.ID, *prefs.ActiveLocationID)

	loc, err := f.svc.GetLocation(ctx, first.Location.ID)
	require.NoError(t, err)
	require.False(t, loc.IsPrimary)
}

func TestCreateLocationValidatesInput(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()

	_, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "Nowhere", Latitude: 95, Longitude: 0})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "  ", Latitude: 1, Longitude: 1})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Equal(t, 0, f.builder.calls)
}

func TestCreateLocationRollsBackOnGenerationFailure(t *testing.T) {
	f := newFixture(epochNow)
	f.builder.fail = true
	ctx := context.Background()

	_, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "The Hague", Latitude: 52.0705, Longitude: 4.3007})
	require.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))

	locs, err := f.svc.ListLocations(ctx)
	require.NoError(t, err)
	require.Empty(t, locs)
	prefs, err := f.svc.Preferences(ctx)
	require.NoError(t, err)
	require.Nil(t, prefs.ActiveLocationID)
}

func TestDeleteLocation(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()

	first, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "A", Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	err = f.svc.DeleteLocation(ctx, first.Location.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	second, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "B", Latitude: 20, Longitude: 20})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteLocation(ctx, first.Location.ID))

	count, err := f.records.Count(ctx, first.Location.ID)
	require.NoError(t, err)
	require.Zero(t, count)
	prefs, err := f.svc.Preferences(ctx)
	require.NoError(t, err)
	require.Equal(t, second.Location.ID, *prefs.ActiveLocationID)

	err = f.svc.DeleteLocation(ctx, 999)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSetActiveLocationRequiresExistingLocation(t *testing.T) {
	f := newFixture(epochNow)
	_, err := f.svc.SetActiveLocation(context.Background(), 7)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSetTemporaryLocationValidates(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()
	_, err := f.svc.SetTemporaryLocation(ctx, TemporaryLocationRequest{Latitude: 0, Longitude: 200})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	prefs, err := f.svc.SetTemporaryLocation(ctx, TemporaryLocationRequest{Latitude: 1.35, Longitude: 103.82})
	require.NoError(t, err)
	require.NotNil(t, prefs.TemporaryLocation)
	require.Equal(t, "Current location", prefs.TemporaryLocation.Name)
	require.Equal(t, epochNow, prefs.TemporaryLocation.SetAt)
}

func TestEnsureDefaultLocation(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()

	loc, created, err := f.svc.EnsureDefaultLocation(ctx)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "The Hague", loc.Name)
	require.True(t, loc.IsPrimary)

	require.NoError(t, f.prefs.ClearActiveLocation(ctx))
	again, created, err := f.svc.EnsureDefaultLocation(ctx)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, loc.ID, again.ID)
	prefs, err := f.svc.Preferences(ctx)
	require.NoError(t, err)
	require.Equal(t, loc.ID, *prefs.ActiveLocationID)
	require.Equal(t, 1, f.builder.calls)
}

func TestExtendHorizonsGeneratesMissingTail(t *testing.T) {
	f := newFixture(epochNow)
	ctx := context.Background()
	created, err := f.svc.CreateLocation(ctx, CreateLocationRequest{Name: "The Hague", Latitude: 52.0705, Longitude: 4.3007})
	require.NoError(t, err)

	res, err := f.svc.ExtendHorizons(ctx)
	require.NoError(t, err)
	require.Equal(t, ExtendResult{Locations: 1}, res)

	f.svc.clock = util.FixedClock(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	res, err = f.svc.ExtendHorizons(ctx)
	require.NoError(t, err)
	require.Equal(t, ExtendResult{Locations: 1, Jobs: 1, Rows: 366}, res)

	count, err := f.records.Count(ctx, created.Location.ID)
	require.NoError(t, err)
	require.Equal(t, 914+366, count)
}
