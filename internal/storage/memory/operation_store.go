// Package memory provides in-memory store implementations for tests
// and dry runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/storage"
)

// OperationStore is an in-memory implementation of storage.OperationStore.
type OperationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.OperationRecord // keyed by operation ID
}

// NewOperationStore creates a new in-memory operation store.
func NewOperationStore() *OperationStore {
	return &OperationStore{
		data: make(map[string]*domain.OperationRecord),
	}
}

// Insert adds a new operation record. Returns ErrDuplicateKey if exists.
func (s *OperationStore) Insert(_ context.Context, op *domain.OperationRecord) error {
	if op == nil || op.OperationID == "" || op.Sender == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[op.OperationID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *op
	s.data[op.OperationID] = &copy
	return nil
}

// GetByID retrieves a record by operation ID. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(_ context.Context, operationID string) (*domain.OperationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, exists := s.data[operationID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *op
	return &copy, nil
}

// GetBySender retrieves all records for a sender, ordered by submission time ASC.
func (s *OperationStore) GetBySender(_ context.Context, sender string) ([]*domain.OperationRecord, error) {
	return s.filter(func(op *domain.OperationRecord) bool {
		return op.Sender == sender
	}), nil
}

// GetByProtocol retrieves all records for a protocol key, ordered by submission time ASC.
func (s *OperationStore) GetByProtocol(_ context.Context, protocolKey string) ([]*domain.OperationRecord, error) {
	return s.filter(func(op *domain.OperationRecord) bool {
		return op.ProtocolKey == protocolKey
	}), nil
}

// GetByTimeRange retrieves records submitted within [start, end] (inclusive).
func (s *OperationStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.OperationRecord, error) {
	return s.filter(func(op *domain.OperationRecord) bool {
		return op.SubmittedAt >= start && op.SubmittedAt <= end
	}), nil
}

func (s *OperationStore) filter(keep func(*domain.OperationRecord) bool) []*domain.OperationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.OperationRecord
	for _, op := range s.data {
		if keep(op) {
			copy := *op
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SubmittedAt != result[j].SubmittedAt {
			return result[i].SubmittedAt < result[j].SubmittedAt
		}
		return result[i].OperationID < result[j].OperationID
	})

	return result
}

var _ storage.OperationStore = (*OperationStore)(nil)
