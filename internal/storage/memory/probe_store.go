package memory

import (
	"context"
	"sort"
	"sync"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/storage"
)

// ProbeStore is an in-memory implementation of storage.ProbeStore.
type ProbeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ProbeAttempt // keyed by probe ID
}

// NewProbeStore creates a new in-memory probe store.
func NewProbeStore() *ProbeStore {
	return &ProbeStore{
		data: make(map[string]*domain.ProbeAttempt),
	}
}

// Insert adds a single probe attempt. Returns ErrDuplicateKey if exists.
func (s *ProbeStore) Insert(_ context.Context, attempt *domain.ProbeAttempt) error {
	if attempt == nil || attempt.ProbeID == "" || attempt.AppID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[attempt.ProbeID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *attempt
	s.data[attempt.ProbeID] = &copy
	return nil
}

// InsertBulk adds multiple attempts atomically. Fails entire batch on any duplicate.
func (s *ProbeStore) InsertBulk(_ context.Context, attempts []*domain.ProbeAttempt) error {
	if len(attempts) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(attempts))
	for _, attempt := range attempts {
		if attempt == nil || attempt.ProbeID == "" || attempt.AppID == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[attempt.ProbeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[attempt.ProbeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[attempt.ProbeID] = struct{}{}
	}

	for _, attempt := range attempts {
		copy := *attempt
		s.data[attempt.ProbeID] = &copy
	}

	return nil
}

// GetByAppID retrieves all attempts against an application, ordered by submission time ASC.
func (s *ProbeStore) GetByAppID(_ context.Context, appID uint64) ([]*domain.ProbeAttempt, error) {
	return s.filter(func(a *domain.ProbeAttempt) bool {
		return a.AppID == appID
	}), nil
}

// GetByClass retrieves all attempts with a given classification, ordered by submission time ASC.
func (s *ProbeStore) GetByClass(_ context.Context, class domain.ProbeClass) ([]*domain.ProbeAttempt, error) {
	return s.filter(func(a *domain.ProbeAttempt) bool {
		return a.Class == class
	}), nil
}

// GetByTimeRange retrieves attempts submitted within [start, end] (inclusive).
func (s *ProbeStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.ProbeAttempt, error) {
	return s.filter(func(a *domain.ProbeAttempt) bool {
		return a.SubmittedAt >= start && a.SubmittedAt <= end
	}), nil
}

func (s *ProbeStore) filter(keep func(*domain.ProbeAttempt) bool) []*domain.ProbeAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ProbeAttempt
	for _, attempt := range s.data {
		if keep(attempt) {
			copy := *attempt
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SubmittedAt != result[j].SubmittedAt {
			return result[i].SubmittedAt < result[j].SubmittedAt
		}
		return result[i].ProbeID < result[j].ProbeID
	})

	return result
}

var _ storage.ProbeStore = (*ProbeStore)(nil)
