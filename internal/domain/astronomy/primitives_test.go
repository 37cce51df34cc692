package astronomy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	theHague = Coordinate{Latitude: 52.0705, Longitude: 4.3007}
	tromso   = Coordinate{Latitude: 69.6492, Longitude: 18.9553}
	svalbard = Coordinate{Latitude: 78.2232, Longitude: 15.6267}
)

func TestNewCoordinateRejectsOutOfRange(t *testing.T) {
	_, err := NewCoordinate(91, 0)
	require.ErrorIs(t, err, ErrInvalidCoordinate)
	_, err = NewCoordinate(0, -180.5)
	require.ErrorIs(t, err, ErrInvalidCoordinate)

	c, err := NewCoordinate(-90, 180)
	require.NoError(t, err)
	require.Equal(t, Coordinate{Latitude: -90, Longitude: 180}, c)
}

func TestSolarZone(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	offset := func(lon float64) int {
		_, off := ts.In(SolarZone(lon)).Zone()
		return off / 3600
	}
	require.Equal(t, 0, offset(4.3007))
	require.Equal(t, 5, offset(77.2))
	require.Equal(t, -5, offset(-74))
	require.Equal(t, 12, offset(180))
	require.Equal(t, -12, offset(-180))
}

func TestMoonIlluminationAtKnownPhases(t *testing.T) {
	full := MoonIlluminationAt(time.Date(2025, 10, 7, 3, 48, 0, 0, time.UTC))
	require.Greater(t, full.Fraction, 0.99)
	require.InDelta(t, 0.5, full.PhaseAngle, 0.01)

	newMoon := MoonIlluminationAt(time.Date(2025, 10, 21, 12, 25, 0, 0, time.UTC))
	require.Less(t, newMoon.Fraction, 0.01)
	require.Less(t, cycleDistance(newMoon.PhaseAngle, 0), 0.01)

	for h := 0; h < 24*30; h += 7 {
		ill := MoonIlluminationAt(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(h) * time.Hour))
		require.GreaterOrEqual(t, ill.Fraction, 0.0)
		require.LessOrEqual(t, ill.Fraction, 1.0)
		require.GreaterOrEqual(t, ill.PhaseAngle, 0.0)
		require.Less(t, ill.PhaseAngle, 1.0)
	}
}

func TestSunEventTimesMidLatitude(t *testing.T) {
	day := time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC)
	sun := SunEventTimes(day, theHague)
	require.False(t, sun.Sunrise.IsZero())
	require.False(t, sun.Sunset.IsZero())
	require.True(t, sun.Dawn.Before(sun.Sunrise))
	require.True(t, sun.Sunrise.Before(sun.SolarNoon))
	require.True(t, sun.SolarNoon.Before(sun.Sunset))
	require.True(t, sun.Sunset.Before(sun.Dusk))

	rise := *formatClock(sun.Sunrise, SolarZone(theHague.Longitude))
	require.True(t, rise > "03:00" && rise < "03:40", "sunrise %s", rise)
}

func TestSunEventTimesPolarNightAndDay(t *testing.T) {
	night := SunEventTimes(time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC), tromso)
	require.True(t, night.Sunrise.IsZero())
	require.True(t, night.Sunset.IsZero())

	day := SunEventTimes(time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC), tromso)
	require.True(t, day.Sunrise.IsZero())
	require.True(t, day.Sunset.IsZero())
	require.False(t, day.SolarNoon.IsZero())
}

func TestMoonEventTimesStayInsideCivilDay(t *testing.T) {
	zone := SolarZone(theHague.Longitude)
	first := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	rises, sets := 0, 0
	for i := 0; i < 31; i++ {
		date := first.AddDate(0, 0, i)
		start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, zone)
		moon := MoonEventTimes(date, theHague)
		if !moon.Rise.IsZero() {
			rises++
		}
		if !moon.Set.IsZero() {
			sets++
		}
		for _, ev := range []time.Time{moon.Rise, moon.Set} {
			if ev.IsZero() {
				continue
			}
			require.False(t, ev.Before(start))
			require.True(t, ev.Before(start.AddDate(0, 0, 1)))
		}
		require.False(t, moon.AlwaysUp && moon.AlwaysDown)
	}
	// The moon rises about 50 minutes later each day, so one day a month has no rise.
	require.GreaterOrEqual(t, rises, 28)
	require.GreaterOrEqual(t, sets, 28)
}

func TestMoonEventTimesHighArctic(t *testing.T) {
	first := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	circumpolar := 0
	for i := 0; i < 30; i++ {
		moon := MoonEventTimes(first.AddDate(0, 0, i), svalbard)
		if moon.AlwaysUp || moon.AlwaysDown {
			require.False(t, moon.AlwaysUp && moon.AlwaysDown)
			require.True(t, moon.Rise.IsZero())
			require.True(t, moon.Set.IsZero())
			circumpolar++
		}
	}
	require.Positive(t, circumpolar)
}
