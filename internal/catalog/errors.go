package catalog

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the current session is not allowed to
// attempt a mutation. The request never leaves the client; the user should be
// prompted to authenticate.
var ErrUnauthorized = errors.New("operation requires authentication")

// ValidationError is a local input failure caught before any network call.
// The offending draft is preserved so the user can correct it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
