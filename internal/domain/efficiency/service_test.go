package efficiency

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/solarcook/internal/domain/regressor"
	apperrors "github.com/yanqian/solarcook/pkg/errors"
)

type stagnationStub struct {
	tps      float64
	err      error
	lastRows [][]float64
}

func (s *stagnationStub) Predict(_ context.Context, rows [][]float64) ([][]float64, error) {
	s.lastRows = rows
	if s.err != nil {
		return nil, s.err
	}
	return [][]float64{{s.tps}}, nil
}

type historyStub struct {
	saved   []Record
	saveErr error
	limit   int
}

func (h *historyStub) Save(_ context.Context, record Record) error {
	if h.saveErr != nil {
		return h.saveErr
	}
	h.saved = append(h.saved, record)
	return nil
}

func (h *historyStub) Recent(_ context.Context, limit int) ([]Record, error) {
	h.limit = limit
	return h.saved, nil
}

type publisherStub struct {
	published []Record
	err       error
}

func (p *publisherStub) PublishEvaluation(_ context.Context, record Record) error {
	p.published = append(p.published, record)
	return p.err
}

func newService(t *testing.T, stub *stagnationStub, history *historyStub, publisher *publisherStub) *service {
	t.Helper()
	models := map[regressor.Task]regressor.Regressor{}
	for _, task := range regressor.Tasks() {
		models[task] = stub
	}
	reg, err := regressor.NewRegistry(models)
	require.NoError(t, err)

	svc := NewService(Config{Constants: DefaultConstants()}, reg, history, publisher, nil, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "eval-1" }
	return svc
}

func TestEvaluateUsesStagnationModel(t *testing.T) {
	stub := &stagnationStub{tps: 120}
	history := &historyStub{}
	publisher := &publisherStub{}
	svc := newService(t, stub, history, publisher)

	res, err := svc.Evaluate(context.Background(), Request{AvgRadiation: 500, Tw2WithPCM: 45, Tw2WithoutPCM: 40})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{500}}, stub.lastRows)
	require.NotNil(t, res.F1)
	require.InDelta(t, 0.176, *res.F1, 1e-12)
	require.NotEqual(t, *res.F2WithPCM, *res.F2WithoutPCM)

	require.Len(t, history.saved, 1)
	saved := history.saved[0]
	require.Equal(t, "eval-1", saved.ID)
	require.Equal(t, 500.0, *saved.AvgRadiation)
	require.Equal(t, 120.0, *saved.StagnationTemp)
	require.Equal(t, res, saved.Result)
	require.Equal(t, []Record{saved}, publisher.published)
}

func TestEvaluateSideEffectFailuresDoNotFail(t *testing.T) {
	svc := newService(t, &stagnationStub{tps: 100}, &historyStub{saveErr: errors.New("db down")}, &publisherStub{err: errors.New("broker down")})

	res, err := svc.Evaluate(context.Background(), Request{AvgRadiation: 400, Tw2WithPCM: 50, Tw2WithoutPCM: 45})
	require.NoError(t, err)
	require.NotNil(t, res.F1)
}

func TestEvaluateNonFiniteStagnation(t *testing.T) {
	history := &historyStub{}
	svc := newService(t, &stagnationStub{tps: math.Inf(1)}, history, &publisherStub{})

	res, err := svc.Evaluate(context.Background(), Request{AvgRadiation: 500, Tw2WithPCM: 45, Tw2WithoutPCM: 40})
	require.NoError(t, err)
	require.Nil(t, res.F1)
	require.NotNil(t, res.EffWithPCM)
	require.Nil(t, history.saved[0].StagnationTemp)
}

func TestHistoryEncodesAfterNonFiniteInputs(t *testing.T) {
	history := &historyStub{}
	svc := newService(t, &stagnationStub{tps: 120}, history, &publisherStub{})

	res, err := svc.Evaluate(context.Background(), Request{AvgRadiation: math.NaN(), Tw2WithPCM: 45, Tw2WithoutPCM: math.Inf(-1)})
	require.NoError(t, err)
	require.Nil(t, res.F1)

	records, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Nil(t, records[0].AvgRadiation)
	require.Nil(t, records[0].Tw2WithoutPCM)
	require.Equal(t, 45.0, *records[0].Tw2WithPCM)

	payload, err := json.Marshal(records)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"avg_radiation":null`)
}

func TestEvaluateModelFailure(t *testing.T) {
	svc := newService(t, &stagnationStub{err: errors.New("bad artifact")}, &historyStub{}, &publisherStub{})

	_, err := svc.Evaluate(context.Background(), Request{AvgRadiation: 500})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInference))
}

func TestHistoryClampsLimit(t *testing.T) {
	history := &historyStub{}
	svc := newService(t, &stagnationStub{tps: 100}, history, &publisherStub{})

	_, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, defaultHistoryLimit, history.limit)

	_, err = svc.History(context.Background(), 10000)
	require.NoError(t, err)
	require.Equal(t, maxHistoryLimit, history.limit)
}
