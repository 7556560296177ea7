package submit

import (
	"errors"
	"strings"
)

var (
	// ErrInsufficientBalance is returned by the balance guard when the
	// wallet cannot cover the configured floor. Nothing is submitted.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAlreadySubmitted is returned when a request is run twice.
	// A signed transaction is submitted at most once per request.
	ErrAlreadySubmitted = errors.New("transaction already submitted")
)

// IsOverspend reports whether a node error indicates the sender tried to
// spend more than its balance. These surface at submission time, before
// the transaction ever reaches the pool.
func IsOverspend(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "overspend") ||
		strings.Contains(msg, "below min") ||
		strings.Contains(msg, "balance") && strings.Contains(msg, "insufficient")
}
