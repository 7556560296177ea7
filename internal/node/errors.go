package node

import (
	"context"
	"errors"
	"net"
	"strings"
)

// IsTransient reports whether an algod call failed for a reason worth
// retrying: connection problems, timeouts, rate limiting, or server-side
// errors. Pool rejections and request errors are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"eof",
		"too many requests",
		"429",
		"502",
		"503",
		"504",
		"service unavailable",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
