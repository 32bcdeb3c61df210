package fetchers

import (
	"errors"
	"fmt"
)

// FailureReason classifies why a budget fetch failed
type FailureReason string

const (
	ReasonTransport FailureReason = "transport"
	ReasonStatus    FailureReason = "status"
	ReasonDecode    FailureReason = "decode"
)

// NetworkError is the only error the budget fetcher returns. It covers connection
// failures, timeouts, non-2xx responses and malformed bodies.
type NetworkError struct {
	URL        string
	Reason     FailureReason
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("budget API %s returned status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("budget API %s %s failure: %v", e.URL, e.Reason, e.Err)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Fields returns the error attributes as structured log fields
func (e *NetworkError) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"url":    e.URL,
		"reason": string(e.Reason),
	}
	if e.StatusCode != 0 {
		fields["status"] = e.StatusCode
	}
	return fields
}

// AsNetworkError unwraps err into a *NetworkError when possible
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}
	return nil, false
}
