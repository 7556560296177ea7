package report

import (
	"context"
	"fmt"
	"time"

	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	operationStore storage.OperationStore
	probeStore     storage.ProbeStore
	now            func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(operationStore storage.OperationStore, probeStore storage.ProbeStore) *Generator {
	return &Generator{
		operationStore: operationStore,
		probeStore:     probeStore,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report for operations and probes submitted within
// [start, end] unix ms.
func (g *Generator) Generate(ctx context.Context, network, sender string, start, end int64) (*Report, error) {
	ops, err := g.operationStore.GetByTimeRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load operations: %w", err)
	}

	probes, err := g.probeStore.GetByTimeRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load probes: %w", err)
	}

	return &Report{
		GeneratedAt: g.now(),
		Network:     network,
		Sender:      sender,
		RangeStart:  start,
		RangeEnd:    end,
		Operations:  summarizeOperations(ops),
		Probes:      summarizeProbes(probes),
	}, nil
}

func summarizeOperations(ops []*domain.OperationRecord) OperationSummary {
	s := OperationSummary{
		ByOutcome:  make(map[string]int),
		ByType:     make(map[string]int),
		ByProtocol: make(map[string]int),
	}

	for _, op := range ops {
		s.Total++
		s.ByOutcome[string(op.Outcome)]++
		s.ByType[string(op.Type)]++
		if op.ProtocolKey != "" {
			s.ByProtocol[op.ProtocolKey]++
		}
		s.TotalFeeMicro += op.FeeMicro
		if op.Outcome == domain.OutcomeConfirmed {
			s.ConfirmedMicro += op.AmountMicro
		}
	}

	return s
}

func summarizeProbes(attempts []*domain.ProbeAttempt) ProbeSummary {
	s := ProbeSummary{
		ByClass: make(map[string]int),
		ByApp:   make(map[uint64]int),
	}

	for _, a := range attempts {
		s.Total++
		s.ByClass[string(a.Class)]++
		s.ByApp[a.AppID]++
		if a.Class == domain.ProbeProgressed || a.Class == domain.ProbeConfirmed {
			s.Progressed = append(s.Progressed, ProbeRow{
				AppID:      a.AppID,
				ArgSetName: a.ArgSetName,
				TxID:       a.TxID,
				Class:      string(a.Class),
				FailedPC:   a.FailedPC,
			})
		}
	}

	return s
}
