package weather

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func fullDay(date string) HourlyIrradiance {
	hourly := HourlyIrradiance{}
	for h := 0; h < 24; h++ {
		hourly[fmt.Sprintf("%s%02d", date, h)] = float64(h * 100)
	}
	return hourly
}

func TestInterpolateMidpoint(t *testing.T) {
	series := Interpolate("20240601", HourlyIrradiance{
		"2024060109": 200,
		"2024060110": 300,
	})
	require.Equal(t, 200.0, series["9:00"])
	require.Equal(t, 250.0, series["9:30"])
	require.Len(t, series, 2)
}

func TestInterpolateFullDayCoverage(t *testing.T) {
	series := Interpolate("20240601", fullDay("20240601"))

	// 9:00..19:30 plus 20:30
	require.Len(t, series, 23)
	require.Equal(t, 1950.0, series["19:30"])
	require.Equal(t, 2000.0, series["20:30"])
	_, ok := series["20:00"]
	require.False(t, ok)
	_, ok = series["8:30"]
	require.False(t, ok)
}

func TestInterpolateMissingHourDropsDependentEntries(t *testing.T) {
	hourly := fullDay("20240601")
	delete(hourly, "2024060111")

	series := Interpolate("20240601", hourly)
	for _, key := range []string{"10:00", "10:30", "11:00", "11:30"} {
		_, ok := series[key]
		require.False(t, ok, "%s should be absent", key)
	}
	require.Equal(t, 950.0, series["9:30"])
	require.Equal(t, 1200.0, series["12:00"])
}

func TestInterpolateTreatsFillValueAsMissing(t *testing.T) {
	series := Interpolate("20240601", HourlyIrradiance{
		"2024060109": 200,
		"2024060110": -999,
		"2024060120": -999,
	})
	require.Empty(t, series)
}

func TestInterpolateIgnoresOtherDates(t *testing.T) {
	series := Interpolate("20240602", fullDay("20240601"))
	require.Empty(t, series)
}
