package solver

import (
	"strings"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/inspect"
)

// Classify maps a terminal submission state to a probe class. A
// rejection at guardPC means the approval program's entry guard fired;
// a rejection anywhere else means the candidate got past it. A pool
// rejection without a program counter still proves the logic ran, so
// it counts as progress too.
func Classify(outcome domain.Outcome, poolError string, guardPC uint64) (domain.ProbeClass, int64) {
	switch outcome {
	case domain.OutcomeConfirmed:
		return domain.ProbeConfirmed, -1
	case domain.OutcomeTimedOut:
		return domain.ProbeTimedOut, -1
	}

	if pc, ok := inspect.ParseFailedPC(poolError); ok {
		if pc == guardPC {
			return domain.ProbeGuardPC, int64(pc)
		}
		return domain.ProbeProgressed, int64(pc)
	}

	if strings.Contains(strings.ToLower(poolError), "transactionpool.remember") {
		return domain.ProbeProgressed, -1
	}

	return domain.ProbeError, -1
}
