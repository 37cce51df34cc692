package prefstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

func TestMemoryStoreKeepsBothSelections(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	prefs, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, calendar.Preferences{}, prefs)

	require.NoError(t, store.SetActiveLocation(ctx, 3))
	require.NoError(t, store.SetTemporaryLocation(ctx, calendar.TemporaryLocation{Name: "GPS", Latitude: 1, Longitude: 2}))
	prefs, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), *prefs.ActiveLocationID)
	require.Equal(t, "GPS", prefs.TemporaryLocation.Name)

	// Loaded values are copies.
	*prefs.ActiveLocationID = 9
	again, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), *again.ActiveLocationID)

	require.NoError(t, store.ClearTemporaryLocation(ctx))
	require.NoError(t, store.ClearActiveLocation(ctx))
	prefs, err = store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, prefs.ActiveLocationID)
	require.Nil(t, prefs.TemporaryLocation)
}

func TestDecodePreferences(t *testing.T) {
	setAt := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	prefs, err := decodePreferences(map[string]string{
		fieldActive:    "12",
		fieldTemporary: `{"name":"Utrecht","lat":52.09,"lon":5.12,"setAt":"2025-10-01T08:00:00Z"}`,
	})
	require.NoError(t, err)
	require.Equal(t, int64(12), *prefs.ActiveLocationID)
	require.Equal(t, calendar.TemporaryLocation{Name: "Utrecht", Latitude: 52.09, Longitude: 5.12, SetAt: setAt}, *prefs.TemporaryLocation)

	empty, err := decodePreferences(map[string]string{})
	require.NoError(t, err)
	require.Equal(t, calendar.Preferences{}, empty)

	_, err = decodePreferences(map[string]string{fieldActive: "abc"})
	require.Error(t, err)
}
