package submit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/node/stub"
)

func TestWaitForConfirmationConfirmed(t *testing.T) {
	client := stub.New()
	client.Pending["TX1"] = []models.PendingTransactionInfoResponse{
		{},
		{},
		{ConfirmedRound: 41000123},
	}

	conf := WaitForConfirmation(context.Background(), client, "TX1", time.Millisecond, time.Second)
	if conf.Outcome != domain.OutcomeConfirmed {
		t.Fatalf("outcome = %q, want confirmed", conf.Outcome)
	}
	if conf.Round != 41000123 {
		t.Errorf("round = %d, want 41000123", conf.Round)
	}
}

func TestWaitForConfirmationRejected(t *testing.T) {
	client := stub.New()
	client.Pending["TX2"] = []models.PendingTransactionInfoResponse{
		{PoolError: "transaction already in ledger"},
	}

	conf := WaitForConfirmation(context.Background(), client, "TX2", time.Millisecond, time.Second)
	if conf.Outcome != domain.OutcomeRejected {
		t.Fatalf("outcome = %q, want rejected", conf.Outcome)
	}
	if conf.PoolError == "" {
		t.Error("pool error not propagated")
	}
}

func TestWaitForConfirmationTimesOut(t *testing.T) {
	client := stub.New()

	start := time.Now()
	conf := WaitForConfirmation(context.Background(), client, "TX3", time.Millisecond, 25*time.Millisecond)
	if conf.Outcome != domain.OutcomeTimedOut {
		t.Fatalf("outcome = %q, want timed_out", conf.Outcome)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("poller ran %v past its timeout", elapsed)
	}
}

func TestWaitForConfirmationToleratesPollErrors(t *testing.T) {
	client := stub.New()
	client.PendingErr = errors.New("connection reset by peer")

	conf := WaitForConfirmation(context.Background(), client, "TX4", time.Millisecond, 20*time.Millisecond)
	if conf.Outcome != domain.OutcomeTimedOut {
		t.Fatalf("outcome = %q, want timed_out despite poll errors", conf.Outcome)
	}
}

func TestWaitForConfirmationHonorsContext(t *testing.T) {
	client := stub.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conf := WaitForConfirmation(ctx, client, "TX5", time.Millisecond, time.Minute)
	if conf.Outcome != domain.OutcomeTimedOut {
		t.Fatalf("outcome = %q, want timed_out on cancelled context", conf.Outcome)
	}
}
