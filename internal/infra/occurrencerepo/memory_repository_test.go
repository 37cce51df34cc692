package occurrencerepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/tithi-calendar/internal/domain/lunar"
)

func TestMemoryRepositoryListsInclusiveRange(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2025, 10, d, 12, 0, 0, 0, time.UTC) }

	for _, d := range []int{21, 6, 1, 31} {
		_, err := repo.Create(ctx, lunar.Occurrence{Title: "event", Date: day(d), Tithi: "Purnima", Paksha: lunar.Shukla})
		require.NoError(t, err)
	}

	got, err := repo.ListRange(ctx, day(1), day(21))
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, day(1), got[0].Date)
	require.Equal(t, day(6), got[1].Date)
	require.Equal(t, day(21), got[2].Date)
	require.Equal(t, int64(3), got[0].ID)

	empty, err := repo.ListRange(ctx, day(2), day(5))
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}
