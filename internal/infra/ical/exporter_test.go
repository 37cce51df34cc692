package ical

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/pkg/util"
)

func TestEncodeEmitsNamedPhaseDaysOnly(t *testing.T) {
	full := astronomy.FullMoon
	rise := "18:42"
	records := []astronomy.DailyRecord{
		{Date: time.Date(2025, time.October, 6, 12, 0, 0, 0, time.UTC), PercentageVisible: 99},
		{Date: time.Date(2025, time.October, 7, 12, 0, 0, 0, time.UTC), PercentageVisible: 100, Phase: &full, Moonrise: &rise},
		{Date: time.Date(2025, time.October, 8, 12, 0, 0, 0, time.UTC), PercentageVisible: 98},
	}
	stamp := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC)

	out := NewExporter(util.FixedClock(stamp)).Encode(records, "The Hague")

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)

	event := events[0]
	require.Equal(t, "2025-10-07-full_moon-the-hague@tithi-calendar", event.Id())
	require.Equal(t, "Full moon", event.GetProperty(ics.ComponentPropertySummary).Value)
	require.Equal(t, "20251007", event.GetProperty(ics.ComponentPropertyDtStart).Value)
	require.Equal(t, "20251008", event.GetProperty(ics.ComponentPropertyDtEnd).Value)
	require.Contains(t, event.GetProperty(ics.ComponentPropertyDescription).Value, "Illumination 100%")
}

func TestEncodeFromGeneratedMonth(t *testing.T) {
	gen := astronomy.NewGenerator(0)
	coord, err := astronomy.NewCoordinate(52.0705, 4.3007)
	require.NoError(t, err)
	records, err := gen.GenerateRange(
		time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, time.October, 31, 12, 0, 0, 0, time.UTC),
		coord,
	)
	require.NoError(t, err)

	named := 0
	for _, r := range records {
		if r.Phase != nil {
			named++
		}
	}

	cal, err := ics.ParseCalendar(strings.NewReader(NewExporter(nil).Encode(records, "")))
	require.NoError(t, err)
	require.Len(t, cal.Events(), named)
	require.GreaterOrEqual(t, named, 4)
}
