package efficiency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/solarcook/internal/domain/regressor"
	apperrors "github.com/yanqian/solarcook/pkg/errors"
	"github.com/yanqian/solarcook/pkg/metrics"
	"github.com/yanqian/solarcook/pkg/util"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Service evaluates cooker efficiency against the stagnation-temperature model.
type Service interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
	History(ctx context.Context, limit int) ([]Record, error)
}

type service struct {
	cfg        Config
	calculator Calculator
	stagnation regressor.Regressor
	history    HistoryRepository
	publisher  Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewService wires the efficiency domain.
func NewService(cfg Config, registry *regressor.Registry, history HistoryRepository, publisher Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		calculator: NewCalculator(cfg),
		stagnation: registry.Model(regressor.TaskStagnation),
		history:    history,
		publisher:  publisher,
		metrics:    m,
		logger:     logger.With("component", "efficiency.service"),
		now:        util.NowUTC,
		newID:      uuid.NewString,
	}
}

func (s *service) Evaluate(ctx context.Context, req Request) (Result, error) {
	out, err := s.stagnation.Predict(ctx, [][]float64{{req.AvgRadiation}})
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeInference, "stagnation temperature prediction failed", err)
	}
	if len(out) != 1 || len(out[0]) == 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeInference, fmt.Sprintf("stagnation model returned %d rows", len(out)), nil)
	}
	tps := out[0][0]

	result := s.calculator.Calculate(tps, req)
	s.countUndefined(result)

	record := Record{
		ID:             s.newID(),
		CreatedAt:      s.now(),
		AvgRadiation:   finite(req.AvgRadiation),
		Tw2WithPCM:     finite(req.Tw2WithPCM),
		Tw2WithoutPCM:  finite(req.Tw2WithoutPCM),
		StagnationTemp: finite(tps),
		IncludePCM:     s.cfg.IncludePCM,
		Result:         result,
	}
	s.persist(ctx, record)
	return result, nil
}

func (s *service) History(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if s.history == nil {
		return []Record{}, nil
	}
	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load evaluation history: %w", err)
	}
	return records, nil
}

// persist stores and publishes the record. Failures are logged and never
// fail the evaluation itself.
func (s *service) persist(ctx context.Context, record Record) {
	if s.history != nil {
		if err := s.history.Save(ctx, record); err != nil {
			s.logger.Warn("save evaluation failed", "id", record.ID, "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishEvaluation(ctx, record); err != nil {
			s.logger.Warn("publish evaluation failed", "id", record.ID, "error", err)
		}
	}
}

func (s *service) countUndefined(r Result) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"F1", r.F1},
		{"F2_without_pcm", r.F2WithoutPCM},
		{"F2_with_pcm", r.F2WithPCM},
		{"eff_without_pcm", r.EffWithoutPCM},
		{"eff_with_pcm", r.EffWithPCM},
	}
	for _, f := range fields {
		if f.value == nil {
			s.metrics.UndefinedField(f.name)
		}
	}
}
