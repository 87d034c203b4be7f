package repository

import (
	"context"
	"sync"

	"suiquiz/internal/domain/model"
)

// memoryQuotaStore keeps quota records in process memory. Quota history is
// lost on restart; production deployments should prefer the Redis store.
type memoryQuotaStore struct {
	mu      sync.RWMutex
	records map[string]model.QuotaRecord
}

func NewMemoryQuotaStore() QuotaStore {
	return &memoryQuotaStore{records: make(map[string]model.QuotaRecord)}
}

func (s *memoryQuotaStore) Get(_ context.Context, accountID string) (*model.QuotaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[accountID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *memoryQuotaStore) Put(_ context.Context, record *model.QuotaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.AccountID] = *record
	return nil
}
