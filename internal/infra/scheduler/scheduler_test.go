package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
)

type countingExtender struct {
	calls atomic.Int32
	err   error
}

func (c *countingExtender) ExtendHorizons(context.Context) (calendar.ExtendResult, error) {
	c.calls.Add(1)
	if c.err != nil {
		return calendar.ExtendResult{Locations: 1}, c.err
	}
	return calendar.ExtendResult{Locations: 2, Jobs: 1, Rows: 365}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnceReportsResult(t *testing.T) {
	ext := &countingExtender{}
	s := New(ext, time.Second, discardLogger())

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 365, result.Rows)
	require.EqualValues(t, 1, ext.calls.Load())

	ext.err = errors.New("storage down")
	_, err = s.RunOnce(context.Background())
	require.Error(t, err)
}

func TestRegisterRejectsInvalidSpec(t *testing.T) {
	s := New(&countingExtender{}, 0, discardLogger())
	require.Error(t, s.Register("every now and then"))
	require.NoError(t, s.Register("@yearly"))
	require.NoError(t, s.Register("0 3 1 * *"))
}

func TestScheduledRunFires(t *testing.T) {
	ext := &countingExtender{}
	s := New(ext, time.Second, discardLogger())
	require.NoError(t, s.Register("@every 1s"))

	s.Start()
	require.False(t, s.Next().IsZero())
	require.Eventually(t, func() bool { return ext.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Stop(ctx)
	require.True(t, s.Next().IsZero())
}
