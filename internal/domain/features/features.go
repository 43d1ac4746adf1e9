// Package features turns raw request rows into the numeric vectors the
// regressors were trained on.
package features

import (
	"fmt"
	"math"

	apperrors "github.com/yanqian/solarcook/pkg/errors"
	"github.com/yanqian/solarcook/pkg/util"
)

// Vector is one model-ready row: {minute, irradiance, sin, cos}.
type Vector struct {
	Minute     int
	Irradiance float64
	Sin        float64
	Cos        float64
}

// Extended appends the phase-1 PCM temperature to a Vector.
type Extended struct {
	Vector
	PCMTemperature float64
}

// Encode computes the cyclical time-of-day components for a single row.
// Minutes outside [0, 1440) are accepted; the encoding simply wraps.
func Encode(minute int, irradiance float64) Vector {
	angle := 2 * math.Pi * float64(minute) / util.MinutesPerDay
	return Vector{
		Minute:     minute,
		Irradiance: irradiance,
		Sin:        math.Sin(angle),
		Cos:        math.Cos(angle),
	}
}

// EncodeBatch encodes paired minute/irradiance sequences row by row.
func EncodeBatch(minutes []int, irradiances []float64) ([]Vector, error) {
	if len(minutes) != len(irradiances) {
		return nil, LengthMismatch("total_minutes", len(minutes), "solar_radiation", len(irradiances))
	}
	out := make([]Vector, len(minutes))
	for i, minute := range minutes {
		out[i] = Encode(minute, irradiances[i])
	}
	return out, nil
}

// Row returns the column order expected by the 4-feature models.
func (v Vector) Row() []float64 {
	return []float64{float64(v.Minute), v.Irradiance, v.Sin, v.Cos}
}

// Extend attaches a phase-1 prediction to the vector.
func (v Vector) Extend(pcmTemperature float64) Extended {
	return Extended{Vector: v, PCMTemperature: pcmTemperature}
}

// Row returns {minute, irradiance, sin, cos, pcm}.
func (e Extended) Row() []float64 {
	return append(e.Vector.Row(), e.PCMTemperature)
}

// Rows flattens a batch into the matrix handed to a regressor.
func Rows(vectors []Vector) [][]float64 {
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i] = v.Row()
	}
	return rows
}

// LengthMismatch builds the error returned whenever paired inputs disagree in length.
func LengthMismatch(leftName string, left int, rightName string, right int) error {
	return apperrors.Wrap(
		apperrors.CodeLengthMismatch,
		fmt.Sprintf("input lists must have the same length (%s=%d, %s=%d)", leftName, left, rightName, right),
		nil,
	)
}
