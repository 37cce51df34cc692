package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
)

func TestHorizonInEpochYearStartsToday(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	start, end := Horizon(now, 2025, 2)
	require.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2027, 12, 31, 12, 0, 0, 0, time.UTC), end)
	// 184 remaining days of 2025, then 2026 and 2027.
	require.Equal(t, 184+365+365, astronomy.DaysInRange(start, end))
}

func TestHorizonAfterEpochCoversWholeYear(t *testing.T) {
	now := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	start, end := Horizon(now, 2025, 0)
	require.Equal(t, time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2029, 12, 31, 12, 0, 0, 0, time.UTC), end)
	require.Equal(t, 365+366+365, astronomy.DaysInRange(start, end))
}
