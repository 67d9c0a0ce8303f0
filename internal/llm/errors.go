package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFatalAPI marks upstream errors that will not succeed on retry:
// exhausted quota, billing problems, or bad credentials. Operators should
// fix the account or key rather than resubmitting the session.
var ErrFatalAPI = errors.New("fatal API error")

// fatalPatterns are substrings of provider error messages that indicate a
// non-transient failure. Matched case-insensitively.
var fatalPatterns = []string{
	"credit balance",
	"rate limit",
	"quota",
	"billing",
	"invalid api key",
	"authentication",
	"unauthorized",
	"401",
	"403",
}

// isFatalAPIError reports whether err (or any wrapped error) matches a
// known fatal pattern.
func isFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range fatalPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// wrapFatalError wraps fatal API errors with ErrFatalAPI so callers can
// errors.Is them. Non-fatal errors pass through unchanged.
func wrapFatalError(err error) error {
	if err == nil {
		return nil
	}
	if isFatalAPIError(err) {
		return fmt.Errorf("%w: %v", ErrFatalAPI, err)
	}
	return err
}
