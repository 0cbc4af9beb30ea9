package form

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleResponse is returned for a check whose answer arrived after a
	// newer check was issued or the identifier was edited.
	ErrStaleResponse = errors.New("identifier check superseded by a newer request")
	// ErrIdentifierChanged is returned, without contacting the checker, when
	// the requested identifier is not the one currently in the form.
	ErrIdentifierChanged = errors.New("identifier does not match the form")
	// ErrNoHandler is returned by Dispatch for an unregistered element/event pair.
	ErrNoHandler = errors.New("no handler registered for event")
)

const (
	MsgNetworkFailure = "Could not reach the server. Please try again."
	MsgServerFailure  = "The server could not check this ID. Please try again."
)

// NetworkError reports a transport failure: connection refused, timeout or cancellation.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError reports a non-2xx answer or a payload that could not be decoded.
type ServerError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("server error (status %d): %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// FailureMessage maps a check failure to the text shown in the status element.
func FailureMessage(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return MsgServerFailure
	}
	return MsgNetworkFailure
}
