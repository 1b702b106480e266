package integration

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means the exam API base URL is missing. Surfaced at call
// time so a misconfigured deployment fails loudly instead of no-oping.
var ErrNotConfigured = errors.New("exam api base url is not configured")

// ValidationError carries a rejection message from the exam API verbatim.
// It is safe to show to the end user.
type ValidationError struct {
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError means the request never completed. The cause is for logs
// only and must not be surfaced to the end user raw.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("exam api %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
