package domain

// OperationType identifies the transaction shape of an operation.
type OperationType string

const (
	OpPayment       OperationType = "payment"
	OpAssetTransfer OperationType = "asset_transfer"
	OpAppCall       OperationType = "app_call"
)

// Outcome is the terminal state of a submitted transaction.
// The confirmation poller reports exactly one of these.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeTimedOut  Outcome = "timed_out"
)

// OperationRecord is the append-only log entry for one executed operation.
// One schema for every command; key names do not drift per caller.
type OperationRecord struct {
	OperationID string // deterministic hash
	ProtocolKey string // registry key, empty for plain transfers
	Type        OperationType
	Sender      string
	Receiver    string // empty for app calls
	AppID       uint64 // zero for transfers
	AmountMicro uint64 // microalgos or ASA base units
	AssetID     uint64 // zero for native ALGO

	TxID           string
	Outcome        Outcome
	ConfirmedRound uint64 // zero unless confirmed
	FeeMicro       uint64 // zero unless confirmed
	PoolError      string // empty unless rejected
	Note           string
	SubmittedAt    int64 // unix ms
}
