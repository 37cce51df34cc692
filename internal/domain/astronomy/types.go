package astronomy

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// RecordVersion identifies the DailyRecord field layout persisted by repositories.
const RecordVersion = 1

var (
	// ErrInvalidCoordinate rejects latitude/longitude outside the WGS84 ranges.
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	// ErrInvalidRange rejects a range whose end precedes its start.
	ErrInvalidRange = errors.New("end date precedes start date")
	// ErrRangeTooLong rejects ranges above the generator limit.
	ErrRangeTooLong = errors.New("date range exceeds maximum length")
)

// Coordinate is a validated latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NewCoordinate validates and builds a Coordinate.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate fails fast on out-of-range values; nothing is clamped.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v not in [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v not in [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// MoonIllumination describes the lit disc at an instant.
// PhaseAngle is the cycle position: 0 new, 0.25 first quarter, 0.5 full, 0.75 last quarter.
type MoonIllumination struct {
	Fraction   float64 `json:"fraction"`
	PhaseAngle float64 `json:"phaseAngle"`
}

// NamedPhase is one of the four canonical lunar phases.
type NamedPhase string

const (
	NewMoon      NamedPhase = "NEW_MOON"
	FirstQuarter NamedPhase = "FIRST_QUARTER"
	FullMoon     NamedPhase = "FULL_MOON"
	LastQuarter  NamedPhase = "LAST_QUARTER"
)

// ParseNamedPhase maps a stored phase back to its constant.
func ParseNamedPhase(value string) (NamedPhase, bool) {
	switch NamedPhase(value) {
	case NewMoon, FirstQuarter, FullMoon, LastQuarter:
		return NamedPhase(value), true
	default:
		return "", false
	}
}

// SunTimes holds the solar horizon crossings of one civil day.
// A zero time.Time means the event does not happen that day.
type SunTimes struct {
	Dawn          time.Time
	Sunrise       time.Time
	GoldenHourEnd time.Time
	SolarNoon     time.Time
	GoldenHour    time.Time
	Sunset        time.Time
	Dusk          time.Time
}

// MoonTimes holds the lunar horizon crossings of one civil day.
// Rise and Set are zero when the moon does not cross the horizon in that direction.
type MoonTimes struct {
	Rise       time.Time
	Set        time.Time
	AlwaysUp   bool
	AlwaysDown bool
}

// DailyRecord is the normalized per-day astronomy row shared by the stored and
// on-the-fly paths. Optional clock fields are nil when the event is absent.
type DailyRecord struct {
	Version           int         `json:"version"`
	Date              time.Time   `json:"date"`
	LocationID        *int64      `json:"locationId,omitempty"`
	PercentageVisible int         `json:"percentageVisible"`
	IsWaxing          bool        `json:"isWaxing"`
	Phase             *NamedPhase `json:"phase"`
	Sunrise           *string     `json:"sunrise"`
	Sunset            *string     `json:"sunset"`
	Moonrise          *string     `json:"moonrise"`
	Moonset           *string     `json:"moonset"`
}

// WithLocation returns a copy of the record owned by the given saved location.
func (r DailyRecord) WithLocation(id int64) DailyRecord {
	owner := id
	r.LocationID = &owner
	return r
}

// WithoutLocation returns a copy of the record detached from any location.
func (r DailyRecord) WithoutLocation() DailyRecord {
	r.LocationID = nil
	return r
}
