package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeProbeID computes a deterministic probe_id using SHA256.
// Formula: SHA256(app_id|arg_set|on_completion|submitted_at_ms)
func ComputeProbeID(
	appID uint64,
	argSetName string,
	onCompletion string,
	submittedAtMs int64,
) string {
	data := fmt.Sprintf("%d|%s|%s|%d",
		appID,
		argSetName,
		onCompletion,
		submittedAtMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
