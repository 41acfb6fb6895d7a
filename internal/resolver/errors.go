package resolver

import (
	"errors"
	"fmt"
)

// ErrRequestFailure marks any failure of a resolver's outbound call. It is
// local to the field being resolved.
var ErrRequestFailure = errors.New("request failed")

// RequestError describes a failed outbound call.
type RequestError struct {
	Method string
	URL    string
	// StatusCode is zero when no response was received.
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailure }
