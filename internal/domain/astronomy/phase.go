package astronomy

import "math"

// PhaseTolerance is the half-width, in cycle fractions, of each named-phase window.
const PhaseTolerance = 0.02

// canonicalPhases is ordered by cycle position; the first matching window wins.
var canonicalPhases = []struct {
	angle float64
	phase NamedPhase
}{
	{0, NewMoon},
	{0.25, FirstQuarter},
	{0.5, FullMoon},
	{0.75, LastQuarter},
}

// ClassifyPhase returns the named phase whose window contains angle, or nil for an
// ordinary day.
func ClassifyPhase(angle float64) *NamedPhase {
	for _, c := range canonicalPhases {
		if cycleDistance(angle, c.angle) <= PhaseTolerance {
			phase := c.phase
			return &phase
		}
	}
	return nil
}

// IsWaxing reports whether illumination grows at this cycle position.
func IsWaxing(angle float64) bool {
	return angle < 0.5
}

// PercentageVisible converts a lit fraction into a rounded 0-100 percentage.
func PercentageVisible(fraction float64) int {
	return int(math.Round(clampUnit(fraction) * 100))
}

func canonicalAngle(phase NamedPhase) float64 {
	for _, c := range canonicalPhases {
		if c.phase == phase {
			return c.angle
		}
	}
	return math.NaN()
}

// cycleDistance is the shortest distance between two cycle positions, wrapping at 1.
func cycleDistance(a, b float64) float64 {
	d := math.Abs(normalizeCycle(a) - normalizeCycle(b))
	return math.Min(d, 1-d)
}
