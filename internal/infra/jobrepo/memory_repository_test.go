package jobrepo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/tithi-calendar/internal/domain/generation"
)

func TestMemoryRepositoryTracksStatus(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	created := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	first := generation.Job{ID: uuid.New(), LocationID: 7, Status: generation.StatusPending, CreatedAt: created}
	second := generation.Job{ID: uuid.New(), LocationID: 7, Status: generation.StatusPending, CreatedAt: created.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.Error(t, repo.Create(ctx, first))

	reason := "persisting records failed"
	require.NoError(t, repo.UpdateStatus(ctx, first.ID, generation.StatusFailed, 0, &reason))
	reason = "mutated"

	got, found, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, generation.StatusFailed, got.Status)
	require.Equal(t, "persisting records failed", *got.FailureReason)

	require.NoError(t, repo.UpdateStatus(ctx, second.ID, generation.StatusCompleted, 31, nil))
	jobs, err := repo.ListByLocation(ctx, 7)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	require.Equal(t, second.ID, jobs[0].ID)
	require.Equal(t, 31, jobs[0].Rows)
	require.Nil(t, jobs[0].FailureReason)

	_, found, err = repo.Get(ctx, uuid.New())
	require.NoError(t, err)
	require.False(t, found)
	require.Error(t, repo.UpdateStatus(ctx, uuid.New(), generation.StatusRunning, 0, nil))
}
