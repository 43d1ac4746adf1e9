package weather

import "fmt"

const (
	firstHour = 9
	lastHour  = 20
)

// fillValue marks missing data in provider payloads.
const fillValue = -999

// Interpolate builds the half-hour series for 9:00-20:30 from hourly readings
// keyed date+HH. "H:00" and "H:30" exist only when both H and H+1 readings are
// present; "20:30" carries the 20h reading as is.
func Interpolate(date string, hourly HourlyIrradiance) IrradianceSeries {
	series := make(IrradianceSeries)
	for hour := firstHour; hour < lastHour; hour++ {
		r1, ok := reading(hourly, date, hour)
		if !ok {
			continue
		}
		r2, ok := reading(hourly, date, hour+1)
		if !ok {
			continue
		}
		series[fmt.Sprintf("%d:00", hour)] = r1
		series[fmt.Sprintf("%d:30", hour)] = r1 + (r2-r1)/2
	}
	if last, ok := reading(hourly, date, lastHour); ok {
		series[fmt.Sprintf("%d:30", lastHour)] = last
	}
	return series
}

func reading(hourly HourlyIrradiance, date string, hour int) (float64, bool) {
	v, ok := hourly[fmt.Sprintf("%s%02d", date, hour)]
	if !ok || v <= fillValue {
		return 0, false
	}
	return v, true
}
