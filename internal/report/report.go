// Package report summarizes stored operations and probe attempts into
// run reports.
package report

import "time"

// Report is a complete run report covering one time range.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Network     string    `json:"network"`
	Sender      string    `json:"sender"`
	RangeStart  int64     `json:"range_start_ms"`
	RangeEnd    int64     `json:"range_end_ms"`

	Operations OperationSummary `json:"operations"`
	Probes     ProbeSummary     `json:"probes"`
}

// OperationSummary aggregates the operation log.
type OperationSummary struct {
	Total          int            `json:"total"`
	ByOutcome      map[string]int `json:"by_outcome"`
	ByType         map[string]int `json:"by_type"`
	ByProtocol     map[string]int `json:"by_protocol"`
	TotalFeeMicro  uint64         `json:"total_fee_micro"`
	ConfirmedMicro uint64         `json:"confirmed_amount_micro"`
}

// ProbeSummary aggregates solver attempts.
type ProbeSummary struct {
	Total      int            `json:"total"`
	ByClass    map[string]int `json:"by_class"`
	ByApp      map[uint64]int `json:"by_app"`
	Progressed []ProbeRow     `json:"progressed"`
}

// ProbeRow is a single noteworthy probe attempt.
type ProbeRow struct {
	AppID      uint64 `json:"app_id"`
	ArgSetName string `json:"arg_set_name"`
	TxID       string `json:"tx_id"`
	Class      string `json:"class"`
	FailedPC   int64  `json:"failed_pc"`
}
