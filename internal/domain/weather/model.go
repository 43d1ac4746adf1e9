package weather

import "time"

// Request captures the /api/weather query.
type Request struct {
	Place string
	Date  string
}

// Report is returned to API consumers.
type Report struct {
	Location       string           `json:"location"`
	SolarRadiation IrradianceSeries `json:"solar_radiation"`
}

// IrradianceSeries maps half-hour labels such as "9:00" or "13:30" to W/m².
type IrradianceSeries map[string]float64

// Location is a geocoded place.
type Location struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
}

// HourlyIrradiance maps provider keys (YYYYMMDDHH) to hourly readings.
type HourlyIrradiance map[string]float64

// Config wires runtime knobs for the weather domain.
type Config struct {
	CacheTTL time.Duration
}
