package locationrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

func TestMemoryRepositoryLifecycle(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, calendar.Location{Name: "A", Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	b, err := repo.Create(ctx, calendar.Location{Name: "B", Latitude: 3, Longitude: 4})
	require.NoError(t, err)
	require.Equal(t, int64(1), a.ID)
	require.Equal(t, int64(2), b.ID)

	require.NoError(t, repo.SetPrimary(ctx, b.ID))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.False(t, list[0].IsPrimary)
	require.True(t, list[1].IsPrimary)

	removed, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, removed)

	_, found, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, found)
}
