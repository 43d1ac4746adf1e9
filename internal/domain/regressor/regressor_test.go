package regressor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type constant float64

func (c constant) Predict(_ context.Context, rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i := range rows {
		out[i] = []float64{float64(c)}
	}
	return out, nil
}

func TestNewRegistryRequiresEveryTask(t *testing.T) {
	models := map[Task]Regressor{}
	for _, task := range Tasks() {
		models[task] = constant(1)
	}
	delete(models, TaskStagnation)
	models[TaskRicePeak] = nil

	_, err := NewRegistry(models)
	require.Error(t, err)
	require.Contains(t, err.Error(), "tps_temp")
	require.Contains(t, err.Error(), "rice_peak")
}

func TestRegistryServesModels(t *testing.T) {
	models := map[Task]Regressor{}
	for _, task := range Tasks() {
		models[task] = constant(2)
	}
	reg, err := NewRegistry(models)
	require.NoError(t, err)

	// later mutation of the input map must not leak into the registry
	models[TaskWithPCM] = constant(9)

	out, err := reg.Model(TaskWithPCM).Predict(context.Background(), [][]float64{{1}})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{2}}, out)
}

func TestShapes(t *testing.T) {
	require.Len(t, Tasks(), 8)
	s, ok := ShapeOf(TaskWithPCM)
	require.True(t, ok)
	require.Equal(t, Shape{Inputs: 5, Outputs: 2}, s)
	_, ok = ShapeOf(Task("unknown"))
	require.False(t, ok)
}
