package lunar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTithiVocabulary(t *testing.T) {
	all := Tithis()
	require.Len(t, all, 30)
	for i, tithi := range all {
		require.Equal(t, i+1, tithi.Number)
		if i < TithisPerPaksha {
			require.Equal(t, Shukla, tithi.Paksha)
		} else {
			require.Equal(t, Krishna, tithi.Paksha)
		}
	}
	require.Equal(t, "Pratipada", all[0].Name)
	require.Equal(t, "Purnima", all[14].Name)
	require.Equal(t, "Pratipada", all[15].Name)
	require.Equal(t, "Amavasya", all[29].Name)

	_, ok := LookupTithi("purnima", Krishna)
	require.False(t, ok)
	tithi, ok := LookupTithi(" ekadashi ", Krishna)
	require.True(t, ok)
	require.Equal(t, 26, tithi.Number)
}

func TestTithiForPhaseAngle(t *testing.T) {
	cases := []struct {
		angle  float64
		number int
	}{
		{0, 1},
		{0.02, 1},
		{0.05, 2},
		{0.49, 15},
		{0.5, 16},
		{0.75, 23},
		{0.99, 30},
		{1.0, 1},
		{-0.01, 30},
	}
	for _, tc := range cases {
		require.Equal(t, tc.number, TithiForPhaseAngle(tc.angle).Number, "angle %v", tc.angle)
	}
}

func TestTithiForPhaseAngleNonFinite(t *testing.T) {
	for _, angle := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		require.NotPanics(t, func() { TithiForPhaseAngle(angle) })
		tithi := TithiForPhaseAngle(angle)
		require.Equal(t, 1, tithi.Number, "angle %v", angle)
		require.Equal(t, Shukla, tithi.Paksha)
	}
}

func TestNakshatraVocabulary(t *testing.T) {
	require.Len(t, Nakshatras(), 27)
	name, ok := LookupNakshatra("purva  phalguni")
	require.True(t, ok)
	require.Equal(t, "Purva Phalguni", name)
	_, ok = LookupNakshatra("Orion")
	require.False(t, ok)

	p, ok := ParsePaksha(" shukla")
	require.True(t, ok)
	require.Equal(t, Shukla, p)
	_, ok = ParsePaksha("waxing")
	require.False(t, ok)
}
