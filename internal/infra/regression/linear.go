package regression

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/yanqian/solarcook/internal/domain/regressor"
)

// Linear is a multi-output linear model: y = W·x + b.
type Linear struct {
	weights   *mat.Dense // outputs x inputs
	intercept []float64
	inputs    int
	outputs   int
}

// NewLinear builds a linear regressor from a row-per-output coefficient table.
func NewLinear(coefficients [][]float64, intercepts []float64) (*Linear, error) {
	outputs := len(coefficients)
	if outputs == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	if len(intercepts) != outputs {
		return nil, fmt.Errorf("linear model has %d intercepts for %d outputs", len(intercepts), outputs)
	}
	inputs := len(coefficients[0])
	if inputs == 0 {
		return nil, fmt.Errorf("linear model has zero inputs")
	}
	flat := make([]float64, 0, outputs*inputs)
	for i, row := range coefficients {
		if len(row) != inputs {
			return nil, fmt.Errorf("linear coefficient row %d has %d values, want %d", i, len(row), inputs)
		}
		flat = append(flat, row...)
	}
	return &Linear{
		weights:   mat.NewDense(outputs, inputs, flat),
		intercept: append([]float64(nil), intercepts...),
		inputs:    inputs,
		outputs:   outputs,
	}, nil
}

// Shape reports the model's widths.
func (l *Linear) Shape() regressor.Shape {
	return regressor.Shape{Inputs: l.inputs, Outputs: l.outputs}
}

// Predict implements regressor.Regressor.
func (l *Linear) Predict(ctx context.Context, rows [][]float64) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return [][]float64{}, nil
	}
	flat := make([]float64, 0, len(rows)*l.inputs)
	for i, row := range rows {
		if len(row) != l.inputs {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), l.inputs)
		}
		flat = append(flat, row...)
	}
	x := mat.NewDense(len(rows), l.inputs, flat)

	var y mat.Dense
	y.Mul(x, l.weights.T())

	out := make([][]float64, len(rows))
	for i := range out {
		vals := make([]float64, l.outputs)
		for j := range vals {
			vals[j] = y.At(i, j) + l.intercept[j]
		}
		out[i] = vals
	}
	return out, nil
}

var _ regressor.Regressor = (*Linear)(nil)
