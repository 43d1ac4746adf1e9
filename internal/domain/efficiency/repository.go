package efficiency

import "context"

// HistoryRepository persists evaluation records.
type HistoryRepository interface {
	Save(ctx context.Context, record Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Publisher forwards evaluation records to downstream consumers such as the
// cooker's display unit.
type Publisher interface {
	PublishEvaluation(ctx context.Context, record Record) error
}
