package calendar

import (
	"time"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
)

// DefaultHorizonYears is the number of full years generated after the current one.
const DefaultHorizonYears = 2

// Horizon returns the civil date range a saved location must cover at now.
// In the epoch year the range starts today; later years start on January 1st
// so the whole current year stays covered. The range ends on December 31st
// of the last horizon year.
func Horizon(now time.Time, epochYear, years int) (time.Time, time.Time) {
	if years <= 0 {
		years = DefaultHorizonYears
	}
	today := astronomy.CivilDate(now.UTC())
	start := today
	if epochYear > 0 && today.Year() != epochYear {
		start = time.Date(today.Year(), time.January, 1, 12, 0, 0, 0, time.UTC)
	}
	end := time.Date(today.Year()+years, time.December, 31, 12, 0, 0, 0, time.UTC)
	return start, end
}
