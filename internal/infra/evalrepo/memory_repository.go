package evalrepo

import (
	"context"
	"sync"

	"github.com/yanqian/solarcook/internal/domain/efficiency"
)

// MemoryRepository keeps a bounded in-process evaluation history for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	capacity int
	records  []efficiency.Record
}

// NewMemoryRepository constructs a repo that retains at most capacity records.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = 500
	}
	return &MemoryRepository{capacity: capacity}
}

// Save implements efficiency.HistoryRepository.
func (r *MemoryRepository) Save(_ context.Context, record efficiency.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	if over := len(r.records) - r.capacity; over > 0 {
		r.records = append([]efficiency.Record(nil), r.records[over:]...)
	}
	return nil
}

// Recent returns the newest records first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]efficiency.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]efficiency.Record, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

var _ efficiency.HistoryRepository = (*MemoryRepository)(nil)
