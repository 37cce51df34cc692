package astronomy

import (
	"fmt"
	"time"
)

// Generator produces DailyRecords for a fixed coordinate over a range of civil days.
// It keeps no state between calls: a day's record depends only on its date and
// the coordinate.
type Generator struct {
	maxDays int
}

// NewGenerator builds a generator that refuses ranges longer than maxDays
// (zero or negative disables the limit).
func NewGenerator(maxDays int) *Generator {
	return &Generator{maxDays: maxDays}
}

// GenerateRange returns one record per civil day in [start, end], ascending.
func (g *Generator) GenerateRange(start, end time.Time, c Coordinate) ([]DailyRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	first, last := CivilDate(start), CivilDate(end)
	if last.Before(first) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, FormatDate(first), FormatDate(last))
	}
	days := DaysInRange(first, last)
	if g.maxDays > 0 && days > g.maxDays {
		return nil, fmt.Errorf("%w: %d days > %d", ErrRangeTooLong, days, g.maxDays)
	}

	zone := SolarZone(c.Longitude)
	// bounds[i] is the cycle position at the local midnight that opens first+i;
	// the last entry closes the range.
	bounds := make([]float64, days+1)
	for i := range bounds {
		bounds[i] = MoonIlluminationAt(localMidnight(first.AddDate(0, 0, i), zone)).PhaseAngle
	}

	records := make([]DailyRecord, 0, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i)
		ill := MoonIlluminationAt(localNoon(date, zone))
		phase := crossedPhase(bounds[i], bounds[i+1])
		records = append(records, buildRecord(date, c, zone, ill, phase))
	}
	return records, nil
}

// GenerateDay returns the record of a single civil day.
func (g *Generator) GenerateDay(date time.Time, c Coordinate) (DailyRecord, error) {
	records, err := g.GenerateRange(date, date, c)
	if err != nil {
		return DailyRecord{}, err
	}
	return records[0], nil
}

// crossedPhase returns the canonical phase whose angle the moon reaches between
// the cycle positions from (inclusive) and to (exclusive), or nil. Consecutive
// days share a boundary, so each crossing names exactly one day per cycle.
func crossedPhase(from, to float64) *NamedPhase {
	step := normalizeCycle(to - from)
	// The cycle position only moves forward; a wrapped-around step is a small
	// backward wobble of the illumination model, not a full cycle.
	if step == 0 || step >= 0.5 {
		return nil
	}
	for _, c := range canonicalPhases {
		if normalizeCycle(c.angle-from) < step {
			phase := c.phase
			return &phase
		}
	}
	return nil
}

func buildRecord(date time.Time, c Coordinate, zone *time.Location, ill MoonIllumination, phase *NamedPhase) DailyRecord {
	sun := SunEventTimes(date, c)
	moon := MoonEventTimes(date, c)
	return DailyRecord{
		Version:           RecordVersion,
		Date:              CivilDate(date),
		PercentageVisible: PercentageVisible(ill.Fraction),
		IsWaxing:          IsWaxing(ill.PhaseAngle),
		Phase:             phase,
		Sunrise:           formatClock(sun.Sunrise, zone),
		Sunset:            formatClock(sun.Sunset, zone),
		Moonrise:          formatClock(moon.Rise, zone),
		Moonset:           formatClock(moon.Set, zone),
	}
}
