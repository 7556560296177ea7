package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeOperationID computes a deterministic operation_id using SHA256.
// Formula: SHA256(sender|type|app_id|receiver|amount|submitted_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeOperationID(
	sender string,
	opType string,
	appID uint64,
	receiver string,
	amountMicro uint64,
	submittedAtMs int64,
) string {
	data := fmt.Sprintf("%s|%s|%d|%s|%d|%d",
		sender,
		opType,
		appID,
		receiver,
		amountMicro,
		submittedAtMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
