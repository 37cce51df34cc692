package astronomy

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

const rad = math.Pi / 180

// Horizon angles (degrees of solar altitude) of the reported sun events.
const (
	sunriseAngle    = -0.833
	civilTwilight   = -6.0
	goldenHourAngle = 6.0
)

// MoonIlluminationAt returns the lit fraction and cycle position at an instant.
// The result does not depend on the observer.
func MoonIlluminationAt(instant time.Time) MoonIllumination {
	ill := suncalc.GetMoonIllumination(instant.UTC())
	return MoonIllumination{
		Fraction:   clampUnit(ill.Fraction),
		PhaseAngle: normalizeCycle(ill.Phase),
	}
}

// SunEventTimes computes the solar crossings of the civil day containing date
// at the given coordinate. Events that do not happen (polar day or night, or a
// crossing that falls outside the civil day) are left zero.
func SunEventTimes(date time.Time, c Coordinate) SunTimes {
	zone := SolarZone(c.Longitude)
	start := localMidnight(date, zone)
	end := start.AddDate(0, 0, 1)

	// Anchor on local noon so suncalc picks the transit of this civil day.
	times := suncalc.GetTimes(localNoon(date, zone), c.Latitude, c.Longitude)
	noon := times[suncalc.SolarNoon].Value
	nadir := times[suncalc.Nadir].Value
	maxAlt := suncalc.GetPosition(noon, c.Latitude, c.Longitude).Altitude
	minAlt := suncalc.GetPosition(nadir, c.Latitude, c.Longitude).Altitude

	pick := func(name suncalc.DayTimeName, angle float64) time.Time {
		h := angle * rad
		if maxAlt < h || minAlt > h {
			return time.Time{}
		}
		return withinDay(times[name].Value, start, end)
	}

	return SunTimes{
		Dawn:          pick(suncalc.Dawn, civilTwilight),
		Sunrise:       pick(suncalc.Sunrise, sunriseAngle),
		GoldenHourEnd: pick(suncalc.GoldenHourEnd, goldenHourAngle),
		SolarNoon:     withinDay(noon, start, end),
		GoldenHour:    pick(suncalc.GoldenHour, goldenHourAngle),
		Sunset:        pick(suncalc.Sunset, sunriseAngle),
		Dusk:          pick(suncalc.Dusk, civilTwilight),
	}
}

// MoonEventTimes returns moonrise and moonset within the civil day (local
// midnight to midnight). Days with only a rise, only a set, or neither are normal.
func MoonEventTimes(date time.Time, c Coordinate) MoonTimes {
	zone := SolarZone(c.Longitude)
	start := localMidnight(date, zone)
	end := start.AddDate(0, 0, 1)

	times := suncalc.GetMoonTimesWithObserver(start, suncalc.Observer{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Location:  zone,
	})
	return MoonTimes{
		Rise:       withinDay(times.Rise, start, end),
		Set:        withinDay(times.Set, start, end),
		AlwaysUp:   times.AlwaysUp,
		AlwaysDown: times.AlwaysDown,
	}
}

func withinDay(t, start, end time.Time) time.Time {
	if t.IsZero() || t.Before(start) || !t.Before(end) {
		return time.Time{}
	}
	return t
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func normalizeCycle(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	if v >= 1 {
		v = 0
	}
	return v
}
