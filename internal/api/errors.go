package api

import (
	"fmt"
	"net/http"
)

// RemoteError is an explicit rejection from the remote service: the request
// made it there and came back with an error payload or a non-2xx status.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.StatusCode)
}

// NotFound reports whether the service rejected the request because the
// targeted resource does not exist.
func (e *RemoteError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TransportError means no usable response arrived: connection failure,
// timeout, or a malformed body. The caller's local state is expected to be
// left unchanged so the user can retry manually.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "service unavailable, please try again later"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
