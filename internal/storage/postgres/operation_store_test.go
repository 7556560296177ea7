package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/storage"
)

func testOperation(id string, submittedAt int64) *domain.OperationRecord {
	return &domain.OperationRecord{
		OperationID:    id,
		ProtocolKey:    "tinyman_v2",
		Type:           domain.OpAppCall,
		Sender:         "SENDERADDRESS",
		AppID:          1002541853,
		AmountMicro:    1000,
		TxID:           "TX" + id,
		Outcome:        domain.OutcomeRejected,
		PoolError:      "logic eval error: assert failed pc=297",
		Note:           "probe",
		SubmittedAt:    submittedAt,
	}
}

func TestOperationStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(pool)
	ctx := context.Background()

	op := testOperation("op1", 1704067200000)
	require.NoError(t, store.Insert(ctx, op))

	got, err := store.GetByID(ctx, "op1")
	require.NoError(t, err)
	assert.Equal(t, "op1", got.OperationID)
	assert.Equal(t, domain.OpAppCall, got.Type)
	assert.Equal(t, domain.OutcomeRejected, got.Outcome)
	assert.Equal(t, uint64(1002541853), got.AppID)
	assert.Equal(t, "logic eval error: assert failed pc=297", got.PoolError)
	assert.Equal(t, int64(1704067200000), got.SubmittedAt)
}

func TestOperationStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOperationStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(pool)
	ctx := context.Background()

	op := testOperation("op1", 1000)
	require.NoError(t, store.Insert(ctx, op))

	err := store.Insert(ctx, op)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestOperationStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &domain.OperationRecord{Sender: "S"}), storage.ErrInvalidInput)
}

func TestOperationStore_GetBySenderOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(pool)
	ctx := context.Background()

	for _, op := range []*domain.OperationRecord{
		testOperation("op3", 3000),
		testOperation("op1", 1000),
		testOperation("op2", 2000),
	} {
		require.NoError(t, store.Insert(ctx, op))
	}

	got, err := store.GetBySender(ctx, "SENDERADDRESS")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "op1", got[0].OperationID)
	assert.Equal(t, "op2", got[1].OperationID)
	assert.Equal(t, "op3", got[2].OperationID)
}

func TestOperationStore_GetByProtocol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(pool)
	ctx := context.Background()

	op1 := testOperation("op1", 1000)
	op2 := testOperation("op2", 2000)
	op2.ProtocolKey = "folks_finance"

	require.NoError(t, store.Insert(ctx, op1))
	require.NoError(t, store.Insert(ctx, op2))

	got, err := store.GetByProtocol(ctx, "folks_finance")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "op2", got[0].OperationID)
}

func TestOperationStore_GetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOperationStore(pool)
	ctx := context.Background()

	for _, op := range []*domain.OperationRecord{
		testOperation("op1", 1000),
		testOperation("op2", 2000),
		testOperation("op3", 3000),
	} {
		require.NoError(t, store.Insert(ctx, op))
	}

	got, err := store.GetByTimeRange(ctx, 1000, 2000)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
