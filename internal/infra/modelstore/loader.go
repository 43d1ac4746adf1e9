package modelstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/solarcook/internal/domain/regressor"
	"github.com/yanqian/solarcook/pkg/metrics"
)

// ArtifactName is the default object name for a task's model.
func ArtifactName(task regressor.Task) string {
	return string(task) + ".json"
}

// LoadRegistry loads one artifact per task. names overrides the default
// object name for individual tasks. Any failure aborts start-up.
func LoadRegistry(ctx context.Context, src Source, names map[string]string, m *metrics.Metrics, logger *slog.Logger) (*regressor.Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	models := make(map[regressor.Task]regressor.Regressor, len(regressor.Tasks()))
	for _, task := range regressor.Tasks() {
		name := ArtifactName(task)
		if override, ok := names[string(task)]; ok && override != "" {
			name = override
		}
		model, err := loadOne(ctx, src, task, name)
		if err != nil {
			return nil, fmt.Errorf("load model %s: %w", task, err)
		}
		logger.Info("model loaded", "task", task, "artifact", name)
		models[task] = instrumented{task: task, next: model, metrics: m}
	}
	return regressor.NewRegistry(models)
}

func loadOne(ctx context.Context, src Source, task regressor.Task, name string) (regressor.Regressor, error) {
	shape, ok := regressor.ShapeOf(task)
	if !ok {
		return nil, fmt.Errorf("unknown task %s", task)
	}
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Decode(rc, shape)
}

type instrumented struct {
	task    regressor.Task
	next    regressor.Regressor
	metrics *metrics.Metrics
}

func (i instrumented) Predict(ctx context.Context, rows [][]float64) ([][]float64, error) {
	start := time.Now()
	out, err := i.next.Predict(ctx, rows)
	i.metrics.ObserveInference(string(i.task), time.Since(start), err)
	return out, err
}
