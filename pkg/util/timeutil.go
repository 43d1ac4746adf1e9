package util

import "time"

// NowUTC is the clock used for record timestamps; tests replace it through service fields.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// MinutesPerDay is the period of the cyclical time-of-day encoding.
const MinutesPerDay = 24 * 60
