package submit

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/node"
)

// Result is the full outcome of one sign-submit-confirm cycle.
type Result struct {
	TxID      string
	Outcome   domain.Outcome
	Round     uint64
	FeeMicro  uint64
	PoolError string
}

// Submitter signs and submits transactions and waits for their outcome.
type Submitter struct {
	client       node.Client
	key          ed25519.PrivateKey
	pollInterval time.Duration
	timeout      time.Duration
}

// NewSubmitter creates a Submitter for one signing key.
func NewSubmitter(client node.Client, key ed25519.PrivateKey, pollInterval, timeout time.Duration) *Submitter {
	return &Submitter{
		client:       client,
		key:          key,
		pollInterval: pollInterval,
		timeout:      timeout,
	}
}

// Request wraps one transaction so it cannot be submitted twice.
type Request struct {
	txn       types.Transaction
	submitted bool
}

// NewRequest creates a single-use submission request.
func NewRequest(txn types.Transaction) *Request {
	return &Request{txn: txn}
}

// Run signs the request's transaction, submits it once, and polls for
// its terminal state. A rejection at submission time maps to
// OutcomeRejected; ambiguous network failures after submission fall
// through to the poller, which resolves them by txid.
func (s *Submitter) Run(ctx context.Context, req *Request) (*Result, error) {
	if req.submitted {
		return nil, ErrAlreadySubmitted
	}
	req.submitted = true

	txid, stx, err := crypto.SignTransaction(s.key, req.txn)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	if _, err := s.client.SendRawTransaction(ctx, stx); err != nil {
		if node.IsTransient(err) {
			// The node may have accepted the transaction before the
			// connection dropped. Resolve by txid rather than guessing;
			// the transaction is never rebuilt or re-signed.
			conf := WaitForConfirmation(ctx, s.client, txid, s.pollInterval, s.timeout)
			return s.result(txid, req.txn, conf), nil
		}
		return &Result{
			TxID:      txid,
			Outcome:   domain.OutcomeRejected,
			PoolError: err.Error(),
		}, nil
	}

	conf := WaitForConfirmation(ctx, s.client, txid, s.pollInterval, s.timeout)
	return s.result(txid, req.txn, conf), nil
}

func (s *Submitter) result(txid string, txn types.Transaction, conf Confirmation) *Result {
	res := &Result{
		TxID:      txid,
		Outcome:   conf.Outcome,
		Round:     conf.Round,
		PoolError: conf.PoolError,
	}
	if conf.Outcome == domain.OutcomeConfirmed {
		res.FeeMicro = uint64(txn.Fee)
	}
	return res
}

// CheckBalance fetches the account balance and enforces the floor.
// Returns the balance in microalgos, or ErrInsufficientBalance when it
// is below minMicro. Callers submit nothing on error.
func CheckBalance(ctx context.Context, client node.Client, address string, minMicro uint64) (uint64, error) {
	account, err := client.AccountInformation(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("account information: %w", err)
	}
	if account.Amount < minMicro {
		return account.Amount, fmt.Errorf("%w: %d microalgos, need at least %d",
			ErrInsufficientBalance, account.Amount, minMicro)
	}
	return account.Amount, nil
}
