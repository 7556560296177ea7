package solver

import (
	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/submit"
)

// DefaultArgSets returns the candidate argument sets a probe run walks
// through, in order. Single-method candidates first, then supply calls
// that reference an asset.
func DefaultArgSets() []domain.ArgSet {
	methods := []string{
		"update_user",
		"update_account",
		"update_state",
		"update_settings",
		"update_profile",
		"update_preferences",
		"update_config",
		"update_metadata",
	}

	sets := make([]domain.ArgSet, 0, len(methods)+2)
	for _, m := range methods {
		sets = append(sets, domain.ArgSet{
			Name:         m,
			OnCompletion: submit.OnCompletionNoOp,
			AppArgs:      [][]byte{[]byte(m)},
			Description:  "no-op call with method selector " + m,
		})
	}

	sets = append(sets,
		domain.ArgSet{
			Name:          "supply_algo",
			OnCompletion:  submit.OnCompletionNoOp,
			AppArgs:       [][]byte{[]byte("supply")},
			Description:   "supply call, native ALGO",
		},
		domain.ArgSet{
			Name:          "supply_usdc",
			OnCompletion:  submit.OnCompletionNoOp,
			AppArgs:       [][]byte{[]byte("supply")},
			ForeignAssets: []uint64{domain.AssetUSDC},
			Description:   "supply call referencing the USDC ASA",
		},
	)

	return sets
}
