package scoring

import (
	"errors"
	"fmt"
)

// Failure kinds. Callers treat all of them the same way (one notice, no state change);
// they are kept apart for logging and for the HTTP status the local API returns.
var (
	ErrTransport      = errors.New("scoring service unreachable")
	ErrStatus         = errors.New("scoring service returned an error status")
	ErrMalformed      = errors.New("scoring service response is malformed")
	ErrInvalidRequest = errors.New("invalid analysis request")
)

// StatusError carries the non-2xx status returned by the scoring service
type StatusError struct {
	Code int
	Body string // first bytes of the response body, for logs
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", ErrStatus, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", ErrStatus, e.Code, e.Body)
}

// Is makes errors.Is(err, ErrStatus) match any StatusError
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// FieldError reports the first response field that broke the contract
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrMalformed, e.Path, e.Reason)
}

// Is makes errors.Is(err, ErrMalformed) match any FieldError
func (e *FieldError) Is(target error) bool {
	return target == ErrMalformed
}
