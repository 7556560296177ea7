package memory

import (
	"context"
	"errors"
	"testing"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/storage"
)

func sampleOperation(id string, submittedAt int64) *domain.OperationRecord {
	return &domain.OperationRecord{
		OperationID: id,
		ProtocolKey: "tinyman_v2",
		Type:        domain.OpPayment,
		Sender:      "SENDER",
		Receiver:    "RECEIVER",
		AmountMicro: 1000,
		TxID:        "TX" + id,
		Outcome:     domain.OutcomeConfirmed,
		FeeMicro:    1000,
		SubmittedAt: submittedAt,
	}
}

func TestOperationStore_InsertAndGet(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	op := sampleOperation("op1", 1704067200000)
	if err := store.Insert(ctx, op); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByID(ctx, "op1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if result.TxID != "TXop1" {
		t.Errorf("TxID mismatch: got %s, want TXop1", result.TxID)
	}
	if result.Outcome != domain.OutcomeConfirmed {
		t.Errorf("Outcome mismatch: got %s", result.Outcome)
	}
}

func TestOperationStore_NotFound(t *testing.T) {
	store := NewOperationStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOperationStore_DuplicateKey(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	op := sampleOperation("op1", 1000)
	if err := store.Insert(ctx, op); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, op)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestOperationStore_InvalidInput(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil record: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &domain.OperationRecord{Sender: "S"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty ID: expected ErrInvalidInput, got %v", err)
	}
}

func TestOperationStore_GetBySenderOrdered(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	for _, op := range []*domain.OperationRecord{
		sampleOperation("op3", 3000),
		sampleOperation("op1", 1000),
		sampleOperation("op2", 2000),
	} {
		if err := store.Insert(ctx, op); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetBySender(ctx, "SENDER")
	if err != nil {
		t.Fatalf("GetBySender failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(result))
	}
	for i, want := range []string{"op1", "op2", "op3"} {
		if result[i].OperationID != want {
			t.Errorf("Position %d: got %s, want %s", i, result[i].OperationID, want)
		}
	}
}

func TestOperationStore_GetByProtocol(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	op1 := sampleOperation("op1", 1000)
	op2 := sampleOperation("op2", 2000)
	op2.ProtocolKey = "folks_finance"

	if err := store.Insert(ctx, op1); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, op2); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByProtocol(ctx, "folks_finance")
	if err != nil {
		t.Fatalf("GetByProtocol failed: %v", err)
	}
	if len(result) != 1 || result[0].OperationID != "op2" {
		t.Errorf("Expected only op2, got %v", result)
	}
}

func TestOperationStore_GetByTimeRange(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	for i, ts := range []int64{1000, 2000, 3000} {
		op := sampleOperation(string(rune('a'+i)), ts)
		if err := store.Insert(ctx, op); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetByTimeRange(ctx, 1000, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Expected 2 records in [1000, 2000], got %d", len(result))
	}
}

func TestOperationStore_ReturnsCopies(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	op := sampleOperation("op1", 1000)
	if err := store.Insert(ctx, op); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByID(ctx, "op1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	result.TxID = "mutated"

	again, err := store.GetByID(ctx, "op1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if again.TxID != "TXop1" {
		t.Errorf("Store leaked internal pointer: TxID = %s", again.TxID)
	}
}
