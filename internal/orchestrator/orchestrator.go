// Package orchestrator runs the pre-flight maintenance tasks every
// command shares: node health, wallet balance, and registry audit.
// Tasks run concurrently; one slow check does not serialize the rest.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/node"
)

// TaskStatus is the terminal state of one maintenance task.
type TaskStatus string

const (
	TaskOK      TaskStatus = "ok"
	TaskWarning TaskStatus = "warning"
	TaskFailed  TaskStatus = "failed"
)

// TaskResult is the outcome of a single task.
type TaskResult struct {
	Name    string
	Status  TaskStatus
	Detail  string
	Elapsed time.Duration
}

// RunResult collects all task results, ordered by task name.
type RunResult struct {
	Results []TaskResult
}

// Healthy reports whether no task failed. Warnings are tolerated.
func (r *RunResult) Healthy() bool {
	for _, res := range r.Results {
		if res.Status == TaskFailed {
			return false
		}
	}
	return true
}

// Options for creating an Orchestrator.
type Options struct {
	Client          node.Client
	Address         string
	MinBalanceMicro uint64
	Protocols       []domain.Protocol
	Logger          *log.Logger
}

// Orchestrator coordinates the maintenance tasks.
type Orchestrator struct {
	client          node.Client
	address         string
	minBalanceMicro uint64
	protocols       []domain.Protocol
	logger          *log.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		client:          opts.Client,
		address:         opts.Address,
		minBalanceMicro: opts.MinBalanceMicro,
		protocols:       opts.Protocols,
		logger:          logger,
	}
}

// Run executes every task concurrently and returns once all finish.
// Task failures land in the result, not in the returned error; the
// error is reserved for context cancellation.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	tasks := []struct {
		name string
		fn   func(context.Context) TaskResult
	}{
		{"node_health", o.checkNodeHealth},
		{"wallet_balance", o.checkBalance},
		{"registry_audit", o.auditRegistry},
	}

	var (
		mu      sync.Mutex
		results []TaskResult
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res := task.fn(gctx)
			res.Name = task.name
			res.Elapsed = time.Since(start)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()

			o.logger.Printf("[orchestrator] %s: %s (%s)", res.Name, res.Status, res.Detail)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return &RunResult{Results: results}, nil
}

func (o *Orchestrator) checkNodeHealth(ctx context.Context) TaskResult {
	status, err := o.client.Status(ctx)
	if err != nil {
		return TaskResult{Status: TaskFailed, Detail: fmt.Sprintf("status unreachable: %v", err)}
	}
	return TaskResult{
		Status: TaskOK,
		Detail: fmt.Sprintf("last round %d", status.LastRound),
	}
}

func (o *Orchestrator) checkBalance(ctx context.Context) TaskResult {
	account, err := o.client.AccountInformation(ctx, o.address)
	if err != nil {
		return TaskResult{Status: TaskFailed, Detail: fmt.Sprintf("account lookup: %v", err)}
	}
	if account.Amount < o.minBalanceMicro {
		return TaskResult{
			Status: TaskWarning,
			Detail: fmt.Sprintf("balance %d below floor %d, submissions will be refused", account.Amount, o.minBalanceMicro),
		}
	}
	return TaskResult{
		Status: TaskOK,
		Detail: fmt.Sprintf("balance %d microalgos", account.Amount),
	}
}

func (o *Orchestrator) auditRegistry(ctx context.Context) TaskResult {
	var missing []string
	for _, p := range o.protocols {
		app, err := o.client.ApplicationInformation(ctx, p.AppID)
		if err != nil {
			return TaskResult{Status: TaskFailed, Detail: fmt.Sprintf("lookup %s (app %d): %v", p.Key, p.AppID, err)}
		}
		if len(app.Params.ApprovalProgram) == 0 {
			missing = append(missing, p.Key)
		}
	}
	if len(missing) > 0 {
		return TaskResult{
			Status: TaskWarning,
			Detail: fmt.Sprintf("no approval program on-chain for: %v", missing),
		}
	}
	return TaskResult{
		Status: TaskOK,
		Detail: fmt.Sprintf("%d protocols verified", len(o.protocols)),
	}
}
