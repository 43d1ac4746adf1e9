package modelstore

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yanqian/solarcook/internal/domain/regressor"
	"github.com/yanqian/solarcook/internal/infra/regression"
)

const (
	kindLinear = "linear"
	kindForest = "forest"
)

// Artifact is the on-disk JSON form of a trained regressor.
type Artifact struct {
	Kind    string `json:"kind"`
	Inputs  int    `json:"inputs"`
	Outputs int    `json:"outputs"`

	// linear
	Coefficients [][]float64 `json:"coefficients,omitempty"`
	Intercepts   []float64   `json:"intercepts,omitempty"`

	// forest
	Trees        []regression.Tree `json:"trees,omitempty"`
	Aggregation  string            `json:"aggregation,omitempty"`
	Base         []float64         `json:"base,omitempty"`
	LearningRate float64           `json:"learningRate,omitempty"`
}

type shaped interface {
	regressor.Regressor
	Shape() regressor.Shape
}

// Decode parses an artifact and checks it against the task's width contract.
func Decode(r io.Reader, want regressor.Shape) (regressor.Regressor, error) {
	var art Artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&art); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	model, err := art.build()
	if err != nil {
		return nil, err
	}
	got := model.Shape()
	if got != want {
		return nil, fmt.Errorf("artifact shape %d->%d, want %d->%d", got.Inputs, got.Outputs, want.Inputs, want.Outputs)
	}
	return model, nil
}

func (a Artifact) build() (shaped, error) {
	switch a.Kind {
	case kindLinear:
		model, err := regression.NewLinear(a.Coefficients, a.Intercepts)
		if err != nil {
			return nil, err
		}
		if a.Inputs != 0 && a.Inputs != model.Shape().Inputs {
			return nil, fmt.Errorf("artifact declares %d inputs, coefficients have %d", a.Inputs, model.Shape().Inputs)
		}
		return model, nil
	case kindForest:
		return regression.NewForest(regression.ForestConfig{
			Inputs:       a.Inputs,
			Outputs:      a.Outputs,
			Trees:        a.Trees,
			Aggregation:  regression.Aggregation(a.Aggregation),
			Base:         a.Base,
			LearningRate: a.LearningRate,
		})
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", a.Kind)
	}
}
