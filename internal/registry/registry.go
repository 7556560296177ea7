// Package registry holds the validated protocol table. Protocol keys
// and application IDs are unique; a duplicate app ID is a construction
// error, never silently accepted data.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"algorand-defi-lab/internal/domain"
)

var (
	// ErrDuplicateKey is returned when two protocols share a key.
	ErrDuplicateKey = errors.New("duplicate protocol key")

	// ErrDuplicateAppID is returned when two protocols share an app ID.
	// Distinct protocols cannot live behind one application.
	ErrDuplicateAppID = errors.New("duplicate protocol app ID")

	// ErrUnknownProtocol is returned by lookups for unregistered keys.
	ErrUnknownProtocol = errors.New("unknown protocol")
)

// Registry is an immutable set of protocols keyed by protocol key.
type Registry struct {
	byKey map[string]domain.Protocol
	order []string // keys in registration order
}

// New builds a registry, enforcing key and app-ID uniqueness.
func New(protocols []domain.Protocol) (*Registry, error) {
	r := &Registry{byKey: make(map[string]domain.Protocol, len(protocols))}
	byApp := make(map[uint64]string, len(protocols))

	for _, p := range protocols {
		if p.Key == "" || p.AppID == 0 {
			return nil, fmt.Errorf("protocol %q: key and app ID are required", p.Key)
		}
		if _, exists := r.byKey[p.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, p.Key)
		}
		if prev, exists := byApp[p.AppID]; exists {
			return nil, fmt.Errorf("%w: app %d claimed by both %s and %s",
				ErrDuplicateAppID, p.AppID, prev, p.Key)
		}
		r.byKey[p.Key] = p
		byApp[p.AppID] = p.Key
		r.order = append(r.order, p.Key)
	}

	return r, nil
}

// Get returns the protocol for a key. Returns ErrUnknownProtocol if absent.
func (r *Registry) Get(key string) (domain.Protocol, error) {
	p, ok := r.byKey[key]
	if !ok {
		return domain.Protocol{}, fmt.Errorf("%w: %s", ErrUnknownProtocol, key)
	}
	return p, nil
}

// List returns all protocols in registration order.
func (r *Registry) List() []domain.Protocol {
	out := make([]domain.Protocol, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Filter returns the protocols whose keys appear in keys, in registration
// order. Unknown keys are reported as an error rather than dropped.
func (r *Registry) Filter(keys []string) ([]domain.Protocol, error) {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := r.byKey[k]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, k)
		}
		want[k] = true
	}

	var out []domain.Protocol
	for _, key := range r.order {
		if want[key] {
			out = append(out, r.byKey[key])
		}
	}
	return out, nil
}

// AppIDs returns all registered application IDs in ascending order.
func (r *Registry) AppIDs() []uint64 {
	out := make([]uint64, 0, len(r.byKey))
	for _, p := range r.byKey {
		out = append(out, p.AppID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Default returns the mainnet protocol table. App IDs that several of
// the legacy data sources disagreed on are excluded until verified;
// only one protocol may claim an application.
func Default() *Registry {
	r, err := New([]domain.Protocol{
		{
			Key:         "tinyman_v2",
			Name:        "Tinyman V2",
			AppID:       1002541853,
			Description: "AMM DEX",
			FeeRate:     0.005,
			MaxSlippage: 0.02,
		},
		{
			Key:         "folks_finance",
			Name:        "Folks Finance",
			AppID:       465814065,
			Description: "Lending and borrowing",
			FeeRate:     0.004,
			MaxSlippage: 0.03,
		},
	})
	if err != nil {
		// The default table is static; a failure here is a programming error.
		panic(err)
	}
	return r
}
