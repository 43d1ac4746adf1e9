// Package regressor names the prediction tasks, their input/output width
// contracts and the registry that holds one trained model per task.
package regressor

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Regressor is a pre-trained model. Predict returns one output row per input row.
type Regressor interface {
	Predict(ctx context.Context, rows [][]float64) ([][]float64, error)
}

// Task names one prediction problem served by a dedicated model.
type Task string

const (
	TaskWithoutPCM Task = "without_pcm"
	TaskPCMTemp    Task = "pcm_temp"
	TaskWithPCM    Task = "with_pcm"
	TaskStagnation Task = "tps_temp"
	TaskRiceRoom   Task = "rice_room"
	TaskSambarRoom Task = "sambar_room"
	TaskRicePeak   Task = "rice_peak"
	TaskSambarPeak Task = "sambar_peak"
)

// Shape is the input/output width contract of a task's model.
type Shape struct {
	Inputs  int
	Outputs int
}

var shapes = map[Task]Shape{
	TaskWithoutPCM: {Inputs: 4, Outputs: 2},
	TaskPCMTemp:    {Inputs: 4, Outputs: 1},
	TaskWithPCM:    {Inputs: 5, Outputs: 2},
	TaskStagnation: {Inputs: 1, Outputs: 1},
	TaskRiceRoom:   {Inputs: 2, Outputs: 1},
	TaskSambarRoom: {Inputs: 2, Outputs: 1},
	TaskRicePeak:   {Inputs: 2, Outputs: 1},
	TaskSambarPeak: {Inputs: 2, Outputs: 1},
}

// Tasks lists every task the service needs a model for, in a stable order.
func Tasks() []Task {
	out := make([]Task, 0, len(shapes))
	for task := range shapes {
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ShapeOf reports the width contract for task.
func ShapeOf(task Task) (Shape, bool) {
	s, ok := shapes[task]
	return s, ok
}

// Registry holds one regressor per task. It is read-only after NewRegistry
// returns and safe for concurrent use.
type Registry struct {
	models map[Task]Regressor
}

// NewRegistry validates that every task has a model.
func NewRegistry(models map[Task]Regressor) (*Registry, error) {
	var missing []string
	owned := make(map[Task]Regressor, len(shapes))
	for _, task := range Tasks() {
		m, ok := models[task]
		if !ok || m == nil {
			missing = append(missing, string(task))
			continue
		}
		owned[task] = m
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("model registry incomplete, missing: %s", strings.Join(missing, ", "))
	}
	return &Registry{models: owned}, nil
}

// Model returns the regressor for task. Registries built by NewRegistry always have one.
func (r *Registry) Model(task Task) Regressor {
	return r.models[task]
}
