package gateway

import (
	"errors"
	"fmt"
)

// ErrSessionExpired means the server rejected an otherwise valid-looking
// credential. The credential is already cleared when this is returned; the
// caller redirects to the authentication entry point instead of retrying.
var ErrSessionExpired = errors.New("session expired, authentication required")

// RequestError is a business rejection by the server (validation, not-found,
// conflict). It never affects the credential and is never retried by the
// gateway.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// NetworkError means no response was obtained. The initiating operation is
// left in its pre-call state, so the caller may retry by repeating the
// action.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
