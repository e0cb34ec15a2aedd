package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// NewAuthError reports a missing or rejected credential for a provider.
func NewAuthError(provider string, cause error) error {
	return types.WrapError(types.ADVISOR_UNAUTHORIZED,
		fmt.Sprintf("%s credential missing or rejected", provider), cause)
}

// TranslateError converts a raw provider error into a typed engine error
// with retryability derived from the failure class.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var engineErr *types.EngineError
	if errors.As(err, &engineErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewRetryableError(types.ADVISOR_TIMEOUT,
			fmt.Sprintf("%s request timed out", provider))
	}
	if errors.Is(err, context.Canceled) {
		return types.WrapError(types.ADVISOR_UNAVAILABLE,
			fmt.Sprintf("%s request canceled", provider), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		e := types.WrapError(types.ADVISOR_UNAVAILABLE,
			fmt.Sprintf("%s network failure", provider), err)
		e.Retryable = true
		return e
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		e := types.WrapError(types.ADVISOR_RATE_LIMITED,
			fmt.Sprintf("%s rate limited", provider), err)
		e.Retryable = true
		return e
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401") ||
		strings.Contains(msg, "invalid api key"):
		return NewAuthError(provider, err)
	default:
		e := types.WrapError(types.ADVISOR_UNAVAILABLE,
			fmt.Sprintf("%s request failed", provider), err)
		e.Retryable = true
		return e
	}
}

// IsRetryable reports whether an advisory error may succeed on retry.
func IsRetryable(err error) bool {
	var engineErr *types.EngineError
	if !errors.As(err, &engineErr) {
		return false
	}
	return engineErr.Retryable
}
