package domain

// Protocol describes one DeFi protocol application on Algorand.
type Protocol struct {
	Key         string  // stable identifier, e.g. "tinyman_v2"
	Name        string  // display name
	AppID       uint64  // on-chain application ID
	Description string
	FeeRate     float64 // protocol fee as a fraction, e.g. 0.003
	MaxSlippage float64 // slippage tolerance as a fraction
}

// Asset IDs referenced by trading operations.
// ALGO is the native asset and has no ASA index.
const (
	AssetAlgo uint64 = 0
	AssetUSDC uint64 = 31566704
)
