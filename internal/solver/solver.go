// Package solver probes deployed applications with declarative argument
// sets until one produces a call the approval program accepts. Every
// attempt is recorded, including the failures.
package solver

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/types"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/idhash"
	"algorand-defi-lab/internal/node"
	"algorand-defi-lab/internal/storage"
	"algorand-defi-lab/internal/submit"
)

// DefaultGuardPC is the program counter of the entry assert both
// registry protocols reject unknown callers at.
const DefaultGuardPC uint64 = 297

// Result summarizes one probe run against a single application.
type Result struct {
	AppID    uint64
	Attempts []*domain.ProbeAttempt
	// Solved points at the first confirmed attempt, nil if none confirmed.
	Solved *domain.ProbeAttempt
	// Progressed counts attempts rejected past the guard PC.
	Progressed int
}

// Options contains configuration for creating a Solver.
type Options struct {
	Client    node.Client
	Submitter *submit.Submitter
	Sender    types.Address
	Store     storage.ProbeStore
	GuardPC   uint64
	Logger    *log.Logger
}

// Solver walks an application through candidate argument sets.
type Solver struct {
	client    node.Client
	submitter *submit.Submitter
	sender    types.Address
	store     storage.ProbeStore
	guardPC   uint64
	logger    *log.Logger
}

// New creates a Solver.
func New(opts Options) *Solver {
	guardPC := opts.GuardPC
	if guardPC == 0 {
		guardPC = DefaultGuardPC
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Solver{
		client:    opts.Client,
		submitter: opts.Submitter,
		sender:    opts.Sender,
		store:     opts.Store,
		guardPC:   guardPC,
		logger:    logger,
	}
}

// Run probes appID with each argument set in order and stops at the
// first confirmation. All attempts are persisted before Run returns,
// whichever way each one ended.
func (s *Solver) Run(ctx context.Context, appID uint64, argSets []domain.ArgSet) (*Result, error) {
	if appID == 0 {
		return nil, fmt.Errorf("app id must be nonzero")
	}
	if len(argSets) == 0 {
		argSets = DefaultArgSets()
	}

	result := &Result{AppID: appID}

	for _, argSet := range argSets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		attempt, err := s.probe(ctx, appID, argSet)
		if err != nil {
			return result, fmt.Errorf("probe %s: %w", argSet.Name, err)
		}

		if err := s.store.Insert(ctx, attempt); err != nil {
			return result, fmt.Errorf("record probe %s: %w", argSet.Name, err)
		}
		result.Attempts = append(result.Attempts, attempt)

		switch attempt.Class {
		case domain.ProbeConfirmed:
			s.logger.Printf("[solver] app %d accepted arg set %q in round %d",
				appID, argSet.Name, attempt.ConfirmedRound)
			result.Solved = attempt
			return result, nil
		case domain.ProbeProgressed:
			result.Progressed++
			s.logger.Printf("[solver] app %d arg set %q progressed past guard (pc=%d)",
				appID, argSet.Name, attempt.FailedPC)
		case domain.ProbeGuardPC:
			s.logger.Printf("[solver] app %d arg set %q stopped at entry guard", appID, argSet.Name)
		default:
			s.logger.Printf("[solver] app %d arg set %q: %s", appID, argSet.Name, attempt.Class)
		}
	}

	return result, nil
}

// probe submits one argument set and classifies the outcome.
func (s *Solver) probe(ctx context.Context, appID uint64, argSet domain.ArgSet) (*domain.ProbeAttempt, error) {
	sp, err := s.client.SuggestedParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggested params: %w", err)
	}

	txn, err := submit.BuildAppCall(sp, s.sender, submit.AppCallSpec{
		AppID:         appID,
		OnCompletion:  argSet.OnCompletion,
		AppArgs:       argSet.AppArgs,
		Accounts:      argSet.Accounts,
		ForeignAssets: argSet.ForeignAssets,
	})
	if err != nil {
		return nil, fmt.Errorf("build app call: %w", err)
	}

	submittedAt := time.Now().UnixMilli()
	res, err := s.submitter.Run(ctx, submit.NewRequest(txn))
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	class, failedPC := Classify(res.Outcome, res.PoolError, s.guardPC)

	return &domain.ProbeAttempt{
		ProbeID:        idhash.ComputeProbeID(appID, argSet.Name, argSet.OnCompletion, submittedAt),
		AppID:          appID,
		ArgSetName:     argSet.Name,
		OnCompletion:   argSet.OnCompletion,
		TxID:           res.TxID,
		Class:          class,
		PoolError:      res.PoolError,
		FailedPC:       failedPC,
		ConfirmedRound: res.Round,
		SubmittedAt:    submittedAt,
	}, nil
}
