// Package stub provides an in-memory node.Client for tests.
package stub

import (
	"context"
	"crypto/sha512"
	"encoding/base32"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Client implements node.Client with scripted responses.
type Client struct {
	mu sync.Mutex

	NodeStatus models.NodeStatus
	StatusErr  error

	Accounts    map[string]models.Account
	AccountErr  error
	Params      types.SuggestedParams
	ParamsErr   error
	SendErr     error
	Apps        map[uint64]models.Application
	AppErr      error
	PendingErr  error
	Submissions [][]byte

	// Pending maps txid to a queue of poll responses; the final entry is
	// repeated once the queue drains.
	Pending map[string][]models.PendingTransactionInfoResponse
	polls   map[string]int
}

// New creates a stub client with an empty script.
func New() *Client {
	return &Client{
		Accounts: make(map[string]models.Account),
		Apps:     make(map[uint64]models.Application),
		Pending:  make(map[string][]models.PendingTransactionInfoResponse),
		polls:    make(map[string]int),
		Params: types.SuggestedParams{
			Fee:             1000,
			MinFee:          1000,
			FirstRoundValid: 1000,
			LastRoundValid:  2000,
			GenesisID:       "testnet-v1.0",
			GenesisHash:     make([]byte, 32),
		},
	}
}

func (c *Client) Status(context.Context) (models.NodeStatus, error) {
	return c.NodeStatus, c.StatusErr
}

func (c *Client) AccountInformation(_ context.Context, address string) (models.Account, error) {
	if c.AccountErr != nil {
		return models.Account{}, c.AccountErr
	}
	return c.Accounts[address], nil
}

func (c *Client) SuggestedParams(context.Context) (types.SuggestedParams, error) {
	return c.Params, c.ParamsErr
}

// SendRawTransaction records the submission and returns a synthetic txid
// derived from the payload, so identical payloads map to one txid.
func (c *Client) SendRawTransaction(_ context.Context, stx []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SendErr != nil {
		return "", c.SendErr
	}
	c.Submissions = append(c.Submissions, append([]byte(nil), stx...))
	return TxID(stx), nil
}

func (c *Client) PendingTransaction(_ context.Context, txid string) (models.PendingTransactionInfoResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.PendingErr != nil {
		return models.PendingTransactionInfoResponse{}, c.PendingErr
	}

	queue := c.Pending[txid]
	if len(queue) == 0 {
		return models.PendingTransactionInfoResponse{}, nil
	}

	i := c.polls[txid]
	if i >= len(queue) {
		i = len(queue) - 1
	}
	c.polls[txid]++
	return queue[i], nil
}

func (c *Client) ApplicationInformation(_ context.Context, appID uint64) (models.Application, error) {
	if c.AppErr != nil {
		return models.Application{}, c.AppErr
	}
	return c.Apps[appID], nil
}

// SubmissionCount returns how many transactions were submitted.
func (c *Client) SubmissionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Submissions)
}

// TxID derives the synthetic transaction ID the stub assigns to a payload.
func TxID(stx []byte) string {
	sum := sha512.Sum512_256(stx)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:])
}
