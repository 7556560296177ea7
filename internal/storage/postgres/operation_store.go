package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/storage"
)

// OperationStore implements storage.OperationStore using PostgreSQL.
type OperationStore struct {
	pool *Pool
}

// NewOperationStore creates a new OperationStore.
func NewOperationStore(pool *Pool) *OperationStore {
	return &OperationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OperationStore = (*OperationStore)(nil)

const operationColumns = `
	operation_id, protocol_key, op_type, sender, receiver, app_id,
	amount_micro, asset_id, tx_id, outcome, confirmed_round, fee_micro,
	pool_error, note, submitted_at
`

// Insert adds a new operation record. Returns ErrDuplicateKey if operation_id exists.
func (s *OperationStore) Insert(ctx context.Context, op *domain.OperationRecord) error {
	if op == nil || op.OperationID == "" || op.Sender == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := s.pool.Exec(ctx, query,
		op.OperationID,
		op.ProtocolKey,
		string(op.Type),
		op.Sender,
		op.Receiver,
		op.AppID,
		op.AmountMicro,
		op.AssetID,
		op.TxID,
		string(op.Outcome),
		op.ConfirmedRound,
		op.FeeMicro,
		op.PoolError,
		op.Note,
		op.SubmittedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// GetByID retrieves a record by operation ID. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(ctx context.Context, operationID string) (*domain.OperationRecord, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operations
		WHERE operation_id = $1
	`

	row := s.pool.QueryRow(ctx, query, operationID)
	op, err := scanOperation(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get operation by id: %w", err)
	}
	return op, nil
}

// GetBySender retrieves all records for a sender, ordered by submission time ASC.
func (s *OperationStore) GetBySender(ctx context.Context, sender string) ([]*domain.OperationRecord, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operations
		WHERE sender = $1
		ORDER BY submitted_at ASC, operation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, sender)
	if err != nil {
		return nil, fmt.Errorf("get operations by sender: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// GetByProtocol retrieves all records for a protocol key, ordered by submission time ASC.
func (s *OperationStore) GetByProtocol(ctx context.Context, protocolKey string) ([]*domain.OperationRecord, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operations
		WHERE protocol_key = $1
		ORDER BY submitted_at ASC, operation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, protocolKey)
	if err != nil {
		return nil, fmt.Errorf("get operations by protocol: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// GetByTimeRange retrieves records submitted within [start, end] (inclusive).
func (s *OperationStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.OperationRecord, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operations
		WHERE submitted_at >= $1 AND submitted_at <= $2
		ORDER BY submitted_at ASC, operation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get operations by time range: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// scanOperation scans a single row into an OperationRecord.
func scanOperation(row pgx.Row) (*domain.OperationRecord, error) {
	var (
		op      domain.OperationRecord
		opType  string
		outcome string
	)

	err := row.Scan(
		&op.OperationID,
		&op.ProtocolKey,
		&opType,
		&op.Sender,
		&op.Receiver,
		&op.AppID,
		&op.AmountMicro,
		&op.AssetID,
		&op.TxID,
		&outcome,
		&op.ConfirmedRound,
		&op.FeeMicro,
		&op.PoolError,
		&op.Note,
		&op.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	op.Type = domain.OperationType(opType)
	op.Outcome = domain.Outcome(outcome)
	return &op, nil
}

// scanOperations scans multiple rows into a slice of OperationRecord.
func scanOperations(rows pgx.Rows) ([]*domain.OperationRecord, error) {
	var ops []*domain.OperationRecord

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation row: %w", err)
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operation rows: %w", err)
	}

	return ops, nil
}
