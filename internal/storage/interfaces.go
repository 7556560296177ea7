package storage

import (
	"context"

	"algorand-defi-lab/internal/domain"
)

// OperationStore provides access to the append-only operation log.
type OperationStore interface {
	// Insert adds a new operation record. Returns ErrDuplicateKey if
	// operation_id exists.
	Insert(ctx context.Context, op *domain.OperationRecord) error

	// GetByID retrieves a record by its operation ID. Returns
	// ErrNotFound if not exists.
	GetByID(ctx context.Context, operationID string) (*domain.OperationRecord, error)

	// GetBySender retrieves all records for a sender address, ordered
	// by submission time ASC.
	GetBySender(ctx context.Context, sender string) ([]*domain.OperationRecord, error)

	// GetByProtocol retrieves all records for a protocol key, ordered
	// by submission time ASC.
	GetByProtocol(ctx context.Context, protocolKey string) ([]*domain.OperationRecord, error)

	// GetByTimeRange retrieves records submitted within [start, end]
	// unix ms (inclusive), ordered by submission time ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.OperationRecord, error)
}

// ProbeStore provides access to solver probe attempt storage.
type ProbeStore interface {
	// Insert adds a single probe attempt. Returns ErrDuplicateKey if
	// probe_id exists.
	Insert(ctx context.Context, attempt *domain.ProbeAttempt) error

	// InsertBulk adds multiple attempts atomically. Fails entire batch
	// on any duplicate.
	InsertBulk(ctx context.Context, attempts []*domain.ProbeAttempt) error

	// GetByAppID retrieves all attempts against an application, ordered
	// by submission time ASC.
	GetByAppID(ctx context.Context, appID uint64) ([]*domain.ProbeAttempt, error)

	// GetByClass retrieves all attempts with a given classification,
	// ordered by submission time ASC.
	GetByClass(ctx context.Context, class domain.ProbeClass) ([]*domain.ProbeAttempt, error)

	// GetByTimeRange retrieves attempts submitted within [start, end]
	// unix ms (inclusive), ordered by submission time ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.ProbeAttempt, error)
}
