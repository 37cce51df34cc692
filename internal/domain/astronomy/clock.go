package astronomy

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format accepted at the edges.
const DateLayout = "2006-01-02"

const clockLayout = "15:04"

// SolarZone returns the fixed-offset zone implied by a longitude, rounded to the
// nearest whole hour. Civil time-zone law (DST, borders) is not modelled.
func SolarZone(lon float64) *time.Location {
	hours := int(math.Round(lon / 15))
	if hours == 0 {
		return time.FixedZone("UTC", 0)
	}
	return time.FixedZone(fmt.Sprintf("UTC%+03d:00", hours), hours*3600)
}

// CivilDate normalizes the calendar day of t (in t's location) to noon UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(value string) (time.Time, error) {
	ts, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return CivilDate(ts), nil
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// DaysInRange counts the civil days in [start, end], both inclusive.
func DaysInRange(start, end time.Time) int {
	s, e := CivilDate(start), CivilDate(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func localMidnight(date time.Time, zone *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, zone)
}

func localNoon(date time.Time, zone *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, zone)
}

// formatClock renders t as zero-padded HH:mm in zone; absent events render as nil.
func formatClock(t time.Time, zone *time.Location) *string {
	if t.IsZero() {
		return nil
	}
	value := t.In(zone).Format(clockLayout)
	return &value
}
