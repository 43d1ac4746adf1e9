package efficiency

import "time"

// Constants are the physical parameters of the cooker and test protocol.
type Constants struct {
	WaterSpecificHeat float64 // Cw, J/kg·K
	PlateArea         float64 // Ap, m²
	WaterMass         float64 // Mw, kg
	PotMass           float64 // Mp, kg
	PotSpecificHeat   float64 // Cp, J/kg·K
	AmbientTemp       float64 // Ta, °C
	InitialWaterTemp  float64 // Tw1, °C
	ExposureSeconds   float64 // t, 9:00 to 20:30
	PCMMass           float64 // Mpcm, kg
	PCMSpecificHeat   float64 // Cpcm, J/kg·K
}

// DefaultConstants returns the values of the reference cooker.
func DefaultConstants() Constants {
	return Constants{
		WaterSpecificHeat: 4186,
		PlateArea:         0.2704,
		WaterMass:         1,
		PotMass:           0.322,
		PotSpecificHeat:   900,
		AmbientTemp:       32,
		InitialWaterTemp:  25,
		ExposureSeconds:   41400,
		PCMMass:           2.0,
		PCMSpecificHeat:   2500,
	}
}

// Config controls the calculator. When IncludePCM is false the PCM mass and
// heat capacity are ignored and both conditions use the water-only formulas.
type Config struct {
	Constants  Constants
	IncludePCM bool
}

// Request is one evaluation query.
type Request struct {
	AvgRadiation  float64
	Tw2WithPCM    float64
	Tw2WithoutPCM float64
}

// Result holds the figures of merit. A nil field means the value was not finite.
type Result struct {
	F1            *float64 `json:"F1"`
	F2WithoutPCM  *float64 `json:"F2_without_pcm"`
	F2WithPCM     *float64 `json:"F2_with_pcm"`
	EffWithoutPCM *float64 `json:"eff_without_pcm"`
	EffWithPCM    *float64 `json:"eff_with_pcm"`
}

// Record is a persisted evaluation. Non-finite inputs are stored as nil so
// the record always encodes.
type Record struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	AvgRadiation   *float64  `json:"avg_radiation"`
	Tw2WithPCM     *float64  `json:"Tw2_with_pcm"`
	Tw2WithoutPCM  *float64  `json:"Tw2_without_pcm"`
	StagnationTemp *float64  `json:"stagnation_temp"`
	IncludePCM     bool      `json:"include_pcm"`
	Result         Result    `json:"result"`
}
