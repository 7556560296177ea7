// Package node wraps the algod REST client with retry, backoff, and the
// narrow interface the rest of the system consumes.
package node

import (
	"context"
	"fmt"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Default configuration values.
const (
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// Client is the node surface consumed by submit, solver, and monitor.
type Client interface {
	// Status returns current node status (last round, catchup state).
	Status(ctx context.Context) (models.NodeStatus, error)

	// AccountInformation returns account state for an address.
	AccountInformation(ctx context.Context, address string) (models.Account, error)

	// SuggestedParams fetches fresh transaction parameters.
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)

	// SendRawTransaction submits a signed transaction, returning its txid.
	SendRawTransaction(ctx context.Context, stx []byte) (string, error)

	// PendingTransaction returns pool/confirmation state for a txid.
	PendingTransaction(ctx context.Context, txid string) (models.PendingTransactionInfoResponse, error)

	// ApplicationInformation returns on-chain application state.
	ApplicationInformation(ctx context.Context, appID uint64) (models.Application, error)
}

// AlgodClient implements Client over the SDK REST client, retrying
// transient failures with exponential backoff.
type AlgodClient struct {
	inner       *algod.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// Option configures AlgodClient.
type Option func(*AlgodClient)

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) Option {
	return func(c *AlgodClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *AlgodClient) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) Option {
	return func(c *AlgodClient) {
		c.maxDelay = d
	}
}

// Dial creates a node client for the given algod endpoint. Public
// endpoints take an empty token.
func Dial(address, token string, opts ...Option) (*AlgodClient, error) {
	inner, err := algod.MakeClient(address, token)
	if err != nil {
		return nil, fmt.Errorf("make algod client: %w", err)
	}

	c := &AlgodClient{
		inner:       inner,
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// withRetry runs fn with exponential backoff on transient errors.
// Permanent errors (node rejections) are returned immediately.
func (c *AlgodClient) withRetry(ctx context.Context, fn func() error) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *AlgodClient) Status(ctx context.Context) (models.NodeStatus, error) {
	var status models.NodeStatus
	err := c.withRetry(ctx, func() error {
		var err error
		status, err = c.inner.Status().Do(ctx)
		return err
	})
	return status, err
}

func (c *AlgodClient) AccountInformation(ctx context.Context, address string) (models.Account, error) {
	var account models.Account
	err := c.withRetry(ctx, func() error {
		var err error
		account, err = c.inner.AccountInformation(address).Do(ctx)
		return err
	})
	return account, err
}

func (c *AlgodClient) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	var sp types.SuggestedParams
	err := c.withRetry(ctx, func() error {
		var err error
		sp, err = c.inner.SuggestedParams().Do(ctx)
		return err
	})
	return sp, err
}

// SendRawTransaction is not retried: a pool rejection is permanent, and
// resubmitting an identical transaction after an ambiguous network error
// is a no-op on the node side (same txid), so one attempt plus the
// poller is sufficient.
func (c *AlgodClient) SendRawTransaction(ctx context.Context, stx []byte) (string, error) {
	return c.inner.SendRawTransaction(stx).Do(ctx)
}

func (c *AlgodClient) PendingTransaction(ctx context.Context, txid string) (models.PendingTransactionInfoResponse, error) {
	var info models.PendingTransactionInfoResponse
	err := c.withRetry(ctx, func() error {
		var err error
		info, _, err = c.inner.PendingTransactionInformation(txid).Do(ctx)
		return err
	})
	return info, err
}

func (c *AlgodClient) ApplicationInformation(ctx context.Context, appID uint64) (models.Application, error) {
	var app models.Application
	err := c.withRetry(ctx, func() error {
		var err error
		app, err = c.inner.GetApplicationByID(appID).Do(ctx)
		return err
	})
	return app, err
}

// Compile-time interface check.
var _ Client = (*AlgodClient)(nil)
