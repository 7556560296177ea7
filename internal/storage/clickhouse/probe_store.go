package clickhouse

import (
	"context"
	"fmt"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/storage"
)

// ProbeStore implements storage.ProbeStore using ClickHouse.
type ProbeStore struct {
	conn *Conn
}

// NewProbeStore creates a new ProbeStore.
func NewProbeStore(conn *Conn) *ProbeStore {
	return &ProbeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ProbeStore = (*ProbeStore)(nil)

const probeColumns = `
	probe_id, app_id, arg_set_name, on_completion, tx_id,
	class, pool_error, failed_pc, confirmed_round, submitted_at
`

// Insert adds a single probe attempt. Returns ErrDuplicateKey if probe_id exists.
func (s *ProbeStore) Insert(ctx context.Context, attempt *domain.ProbeAttempt) error {
	return s.InsertBulk(ctx, []*domain.ProbeAttempt{attempt})
}

// InsertBulk adds multiple attempts atomically. Fails entire batch on any duplicate.
// MergeTree does not enforce uniqueness, so duplicates are checked before insert.
func (s *ProbeStore) InsertBulk(ctx context.Context, attempts []*domain.ProbeAttempt) error {
	if len(attempts) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(attempts))
	for _, a := range attempts {
		if a == nil || a.ProbeID == "" || a.AppID == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[a.ProbeID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[a.ProbeID] = struct{}{}
	}

	for _, a := range attempts {
		exists, err := s.exists(ctx, a.ProbeID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO probe_attempts (`+probeColumns+`)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, a := range attempts {
		err = batch.Append(
			a.ProbeID, a.AppID, a.ArgSetName, a.OnCompletion, a.TxID,
			string(a.Class), a.PoolError, a.FailedPC, a.ConfirmedRound, a.SubmittedAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAppID retrieves all attempts against an application, ordered by submission time ASC.
func (s *ProbeStore) GetByAppID(ctx context.Context, appID uint64) ([]*domain.ProbeAttempt, error) {
	query := `
		SELECT ` + probeColumns + `
		FROM probe_attempts
		WHERE app_id = ?
		ORDER BY submitted_at ASC, probe_id ASC
	`

	rows, err := s.conn.Query(ctx, query, appID)
	if err != nil {
		return nil, fmt.Errorf("query by app id: %w", err)
	}
	defer rows.Close()

	return scanProbeAttempts(rows)
}

// GetByClass retrieves all attempts with a given classification, ordered by submission time ASC.
func (s *ProbeStore) GetByClass(ctx context.Context, class domain.ProbeClass) ([]*domain.ProbeAttempt, error) {
	query := `
		SELECT ` + probeColumns + `
		FROM probe_attempts
		WHERE class = ?
		ORDER BY submitted_at ASC, probe_id ASC
	`

	rows, err := s.conn.Query(ctx, query, string(class))
	if err != nil {
		return nil, fmt.Errorf("query by class: %w", err)
	}
	defer rows.Close()

	return scanProbeAttempts(rows)
}

// GetByTimeRange retrieves attempts submitted within [start, end] (inclusive).
func (s *ProbeStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.ProbeAttempt, error) {
	query := `
		SELECT ` + probeColumns + `
		FROM probe_attempts
		WHERE submitted_at >= ? AND submitted_at <= ?
		ORDER BY submitted_at ASC, probe_id ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanProbeAttempts(rows)
}

// exists checks if an attempt with the given probe ID exists.
func (s *ProbeStore) exists(ctx context.Context, probeID string) (bool, error) {
	query := `
		SELECT count(*) FROM probe_attempts
		WHERE probe_id = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, probeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanProbeAttempts scans multiple rows into a slice of ProbeAttempt.
func scanProbeAttempts(rows chRows) ([]*domain.ProbeAttempt, error) {
	var attempts []*domain.ProbeAttempt

	for rows.Next() {
		var (
			a     domain.ProbeAttempt
			class string
		)

		err := rows.Scan(
			&a.ProbeID, &a.AppID, &a.ArgSetName, &a.OnCompletion, &a.TxID,
			&class, &a.PoolError, &a.FailedPC, &a.ConfirmedRound, &a.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan probe attempt row: %w", err)
		}

		a.Class = domain.ProbeClass(class)
		attempts = append(attempts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate probe attempt rows: %w", err)
	}

	return attempts, nil
}
