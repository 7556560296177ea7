// Package submit builds, signs, submits, and confirms Algorand
// transactions. Every submission resolves to exactly one of
// confirmed, rejected, or timed out.
package submit

import (
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// OnCompletion names for application calls.
const (
	OnCompletionNoOp   = "noop"
	OnCompletionOptIn  = "optin"
	OnCompletionUpdate = "update"
)

// AppCallSpec describes an application-call transaction.
type AppCallSpec struct {
	AppID         uint64
	OnCompletion  string // OnCompletionNoOp | OnCompletionOptIn | OnCompletionUpdate
	AppArgs       [][]byte
	Accounts      []string
	ForeignApps   []uint64
	ForeignAssets []uint64
	Note          []byte
}

// BuildPayment constructs a payment transaction from fresh params.
func BuildPayment(sp types.SuggestedParams, sender, receiver string, amountMicro uint64, note []byte) (types.Transaction, error) {
	txn, err := transaction.MakePaymentTxn(sender, receiver, amountMicro, note, "", sp)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("make payment txn: %w", err)
	}
	return txn, nil
}

// BuildAssetTransfer constructs an ASA transfer. The sender must be
// opted in to the asset; ALGO itself moves via BuildPayment.
func BuildAssetTransfer(sp types.SuggestedParams, sender, receiver string, amount, assetID uint64, note []byte) (types.Transaction, error) {
	txn, err := transaction.MakeAssetTransferTxn(sender, receiver, amount, note, sp, "", assetID)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("make asset transfer txn: %w", err)
	}
	return txn, nil
}

// BuildAppCall constructs an application-call transaction for the given
// on-completion action.
func BuildAppCall(sp types.SuggestedParams, sender types.Address, spec AppCallSpec) (types.Transaction, error) {
	var (
		txn types.Transaction
		err error
	)

	switch spec.OnCompletion {
	case OnCompletionNoOp:
		txn, err = transaction.MakeApplicationNoOpTx(
			spec.AppID, spec.AppArgs, spec.Accounts, spec.ForeignApps, spec.ForeignAssets,
			sp, sender, spec.Note, types.Digest{}, [32]byte{}, types.Address{},
		)
	case OnCompletionOptIn:
		txn, err = transaction.MakeApplicationOptInTx(
			spec.AppID, spec.AppArgs, spec.Accounts, spec.ForeignApps, spec.ForeignAssets,
			sp, sender, spec.Note, types.Digest{}, [32]byte{}, types.Address{},
		)
	case OnCompletionUpdate:
		txn, err = transaction.MakeApplicationUpdateTx(
			spec.AppID, spec.AppArgs, spec.Accounts, spec.ForeignApps, spec.ForeignAssets,
			nil, nil,
			sp, sender, spec.Note, types.Digest{}, [32]byte{}, types.Address{},
		)
	default:
		return types.Transaction{}, fmt.Errorf("unknown on-completion action %q", spec.OnCompletion)
	}

	if err != nil {
		return types.Transaction{}, fmt.Errorf("make app call txn (%s): %w", spec.OnCompletion, err)
	}
	return txn, nil
}
