package usage

import (
	"context"
	"sync"
)

// Store persists ledger records. Implementations are append-only and must
// be safe for concurrent use.
type Store interface {
	// Append adds a record.
	Append(ctx context.Context, r Record) error

	// Summarize aggregates the records of a month.
	Summarize(ctx context.Context, month Month) (Summary, error)
}

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a record.
func (s *MemoryStore) Append(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
	return nil
}

// Summarize aggregates the records of a month.
func (s *MemoryStore) Summarize(ctx context.Context, month Month) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Aggregate(month, s.records), nil
}

// Records returns a copy of every record, oldest first.
func (s *MemoryStore) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ Store = (*MemoryStore)(nil)
