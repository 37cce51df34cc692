package calendar

// Config holds the calendar policy knobs.
type Config struct {
	MaxRangeDays    int
	EpochYear       int
	HorizonYears    int
	DefaultLocation DefaultLocation
}

// DefaultLocation is created when an installation has no saved location.
type DefaultLocation struct {
	Name      string
	Latitude  float64
	Longitude float64
}
