package prediction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yanqian/solarcook/internal/domain/features"
	"github.com/yanqian/solarcook/internal/domain/regressor"
	apperrors "github.com/yanqian/solarcook/pkg/errors"
)

// Service exposes the temperature and cooking-time predictions.
type Service interface {
	PredictWithoutPCM(ctx context.Context, minutes []int, irradiances []float64) ([]TemperatureRecord, error)
	PredictPCMTemperature(ctx context.Context, minutes []int, irradiances []float64) ([]float64, error)
	PredictWithPCM(ctx context.Context, minutes []int, irradiances []float64) ([]TemperatureRecord, error)
	PredictCookingTime(ctx context.Context, recipe Recipe, req DurationRequest) ([]DurationRecord, error)
}

type service struct {
	registry *regressor.Registry
	logger   *slog.Logger
}

// NewService wires the prediction pipeline to the loaded models.
func NewService(registry *regressor.Registry, logger *slog.Logger) Service {
	return &service{
		registry: registry,
		logger:   logger.With("component", "prediction.service"),
	}
}

func (s *service) PredictWithoutPCM(ctx context.Context, minutes []int, irradiances []float64) ([]TemperatureRecord, error) {
	return predictDirect(ctx, s.registry.Model(regressor.TaskWithoutPCM), minutes, irradiances)
}

func (s *service) PredictPCMTemperature(ctx context.Context, minutes []int, irradiances []float64) ([]float64, error) {
	vectors, err := features.EncodeBatch(minutes, irradiances)
	if err != nil {
		return nil, err
	}
	return predictScalar(ctx, s.registry.Model(regressor.TaskPCMTemp), features.Rows(vectors))
}

func (s *service) PredictWithPCM(ctx context.Context, minutes []int, irradiances []float64) ([]TemperatureRecord, error) {
	records, err := predictCascaded(ctx, s.registry.Model(regressor.TaskPCMTemp), s.registry.Model(regressor.TaskWithPCM), minutes, irradiances)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("with-pcm cascade complete", "rows", len(records))
	return records, nil
}

func (s *service) PredictCookingTime(ctx context.Context, recipe Recipe, req DurationRequest) ([]DurationRecord, error) {
	task, ok := recipeTasks[recipe]
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown recipe %q", recipe), nil)
	}
	return predictDuration(ctx, s.registry.Model(task), req.Labels, req.WaterTemps, req.BoxTemps)
}

// predictDirect runs a single 4-feature model and unpacks (water, box) per row.
func predictDirect(ctx context.Context, model regressor.Regressor, minutes []int, irradiances []float64) ([]TemperatureRecord, error) {
	vectors, err := features.EncodeBatch(minutes, irradiances)
	if err != nil {
		return nil, err
	}
	outputs, err := runModel(ctx, model, features.Rows(vectors), 2)
	if err != nil {
		return nil, err
	}
	return toTemperatureRecords(outputs), nil
}

// predictCascaded feeds the phase-1 PCM temperature of row i into row i of phase 2.
func predictCascaded(ctx context.Context, phase1, phase2 regressor.Regressor, minutes []int, irradiances []float64) ([]TemperatureRecord, error) {
	vectors, err := features.EncodeBatch(minutes, irradiances)
	if err != nil {
		return nil, err
	}
	pcm, err := predictScalar(ctx, phase1, features.Rows(vectors))
	if err != nil {
		return nil, err
	}

	extended := make([][]float64, len(vectors))
	for i, v := range vectors {
		extended[i] = v.Extend(pcm[i]).Row()
	}

	outputs, err := runModel(ctx, phase2, extended, 2)
	if err != nil {
		return nil, err
	}
	return toTemperatureRecords(outputs), nil
}

func predictDuration(ctx context.Context, model regressor.Regressor, labels []string, water, box []float64) ([]DurationRecord, error) {
	if len(water) != len(box) {
		return nil, features.LengthMismatch("water_temp", len(water), "box_temp", len(box))
	}
	if len(labels) != len(water) {
		return nil, features.LengthMismatch("time", len(labels), "water_temp", len(water))
	}

	table := make([][]float64, len(water))
	for i := range water {
		table[i] = []float64{water[i], box[i]}
	}
	durations, err := predictScalar(ctx, model, table)
	if err != nil {
		return nil, err
	}

	records := make([]DurationRecord, len(labels))
	for i, label := range labels {
		records[i] = DurationRecord{Time: label, CookingTime: durations[i]}
	}
	return records, nil
}

func predictScalar(ctx context.Context, model regressor.Regressor, rows [][]float64) ([]float64, error) {
	outputs, err := runModel(ctx, model, rows, 1)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(outputs))
	for i, out := range outputs {
		values[i] = out[0]
	}
	return values, nil
}

// runModel calls Predict once for the whole batch and checks the result shape.
func runModel(ctx context.Context, model regressor.Regressor, rows [][]float64, minWidth int) ([][]float64, error) {
	if len(rows) == 0 {
		return [][]float64{}, nil
	}
	outputs, err := model.Predict(ctx, rows)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInference, "model prediction failed", err)
	}
	if len(outputs) != len(rows) {
		return nil, apperrors.Wrap(apperrors.CodeInference, fmt.Sprintf("model returned %d rows for %d inputs", len(outputs), len(rows)), nil)
	}
	for i, out := range outputs {
		if len(out) < minWidth {
			return nil, apperrors.Wrap(apperrors.CodeInference, fmt.Sprintf("model row %d has %d outputs, want %d", i, len(out), minWidth), nil)
		}
	}
	return outputs, nil
}

func toTemperatureRecords(outputs [][]float64) []TemperatureRecord {
	records := make([]TemperatureRecord, len(outputs))
	for i, out := range outputs {
		records[i] = TemperatureRecord{WaterTemp: out[0], BoxTemp: out[1]}
	}
	return records
}
