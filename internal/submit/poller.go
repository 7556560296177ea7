package submit

import (
	"context"
	"time"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/node"
)

// Confirmation is the terminal state of a submitted transaction.
type Confirmation struct {
	Outcome   domain.Outcome
	Round     uint64 // set when confirmed
	PoolError string // set when rejected
}

// WaitForConfirmation polls pending-transaction state until the
// transaction confirms, the pool rejects it, or the timeout elapses.
// It always terminates within the timeout and reports exactly one
// outcome; poll errors are tolerated until the deadline.
func WaitForConfirmation(ctx context.Context, client node.Client, txid string, interval, timeout time.Duration) Confirmation {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		info, err := client.PendingTransaction(ctx, txid)
		if err == nil {
			if info.ConfirmedRound > 0 {
				return Confirmation{Outcome: domain.OutcomeConfirmed, Round: info.ConfirmedRound}
			}
			if info.PoolError != "" {
				return Confirmation{Outcome: domain.OutcomeRejected, PoolError: info.PoolError}
			}
		}

		select {
		case <-ctx.Done():
			return Confirmation{Outcome: domain.OutcomeTimedOut}
		case <-ticker.C:
		}
	}
}
