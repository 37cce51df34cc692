package lunar

import (
	"math"
	"strings"
)

// Paksha is the lunar fortnight.
type Paksha string

const (
	Shukla  Paksha = "SHUKLA"
	Krishna Paksha = "KRISHNA"
)

// ParsePaksha accepts either enum value, case-insensitively.
func ParsePaksha(value string) (Paksha, bool) {
	switch Paksha(strings.ToUpper(strings.TrimSpace(value))) {
	case Shukla:
		return Shukla, true
	case Krishna:
		return Krishna, true
	default:
		return "", false
	}
}

// TithisPerPaksha is the number of lunar days in each fortnight.
const TithisPerPaksha = 15

// Tithi is one of the 30 lunar days of a synodic month. Number runs 1..30,
// Shukla first.
type Tithi struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Paksha Paksha `json:"paksha"`
}

var fortnightNames = [TithisPerPaksha - 1]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi",
}

var tithis = buildTithis()

func buildTithis() []Tithi {
	out := make([]Tithi, 0, 2*TithisPerPaksha)
	for _, paksha := range []Paksha{Shukla, Krishna} {
		for _, name := range fortnightNames {
			out = append(out, Tithi{Number: len(out) + 1, Name: name, Paksha: paksha})
		}
		last := "Purnima"
		if paksha == Krishna {
			last = "Amavasya"
		}
		out = append(out, Tithi{Number: len(out) + 1, Name: last, Paksha: paksha})
	}
	return out
}

// Tithis returns the 30 tithis in cycle order.
func Tithis() []Tithi {
	return append([]Tithi(nil), tithis...)
}

// LookupTithi finds a tithi by name within a paksha, ignoring case and spacing.
func LookupTithi(name string, paksha Paksha) (Tithi, bool) {
	key := normalizeName(name)
	for _, t := range tithis {
		if t.Paksha == paksha && normalizeName(t.Name) == key {
			return t, true
		}
	}
	return Tithi{}, false
}

// TithiForPhaseAngle maps a cycle position in [0,1) to the tithi it falls in;
// each tithi spans 1/30 of the cycle.
func TithiForPhaseAngle(angle float64) Tithi {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		angle = 0
	}
	angle -= math.Floor(angle)
	idx := int(math.Floor(angle * float64(len(tithis))))
	if idx >= len(tithis) {
		idx = len(tithis) - 1
	}
	return tithis[idx]
}

var nakshatras = []string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// Nakshatras returns the 27 lunar mansions in order.
func Nakshatras() []string {
	return append([]string(nil), nakshatras...)
}

// LookupNakshatra returns the canonical spelling of a nakshatra name.
func LookupNakshatra(name string) (string, bool) {
	key := normalizeName(name)
	for _, n := range nakshatras {
		if normalizeName(n) == key {
			return n, true
		}
	}
	return "", false
}

func normalizeName(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), ""))
}
