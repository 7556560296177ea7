package domain

// ArgSet is one declarative candidate for an application-call probe.
type ArgSet struct {
	Name          string   // stable identifier, e.g. "update_user"
	OnCompletion  string   // "noop" | "optin" | "update"
	AppArgs       [][]byte // raw application arguments
	ForeignAssets []uint64
	Accounts      []string // extra account references; sender is implied
	Description   string
}

// ProbeClass refines Outcome for solver attempts: a rejection at the
// known guard PC is distinguished from one that progressed past it.
type ProbeClass string

const (
	ProbeConfirmed  ProbeClass = "confirmed"
	ProbeGuardPC    ProbeClass = "guard_pc"   // rejected at the app's known guard PC
	ProbeProgressed ProbeClass = "progressed" // rejected, but past the guard PC
	ProbeTimedOut   ProbeClass = "timed_out"
	ProbeError      ProbeClass = "error" // submission never reached the pool
)

// ProbeAttempt records a single solver probe against an application.
type ProbeAttempt struct {
	ProbeID      string // deterministic hash
	AppID        uint64
	ArgSetName   string
	OnCompletion string

	TxID      string
	Class     ProbeClass
	PoolError string // empty unless rejected
	FailedPC  int64  // parsed from pool error, -1 when absent

	ConfirmedRound uint64
	SubmittedAt    int64 // unix ms
}
