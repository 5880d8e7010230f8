package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every failure returned by the client is an *Error
// whose Err wraps exactly one of these.
var (
	ErrTransport      = errors.New("transport failure")
	ErrStatus         = errors.New("unexpected status")
	ErrDecode         = errors.New("undecodable response")
	ErrInvalidBaseURL = errors.New("invalid base url")
)

// Error is the uniform rejection of the client. Transport failures carry
// StatusCode 0.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Payload is the most specific description available: compacted JSON,
	// text extracted from an HTML page, the raw body or the transport message.
	Payload string
	// Detail is the server-supplied message, if the body carried one.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ServerMessage returns the server-supplied message, empty when none.
func (e *Error) ServerMessage() string { return e.Detail }

// kind is the metrics label for the failure class.
func (e *Error) kind() string {
	switch {
	case errors.Is(e.Err, ErrStatus):
		return "status"
	case errors.Is(e.Err, ErrDecode):
		return "decode"
	default:
		return "transport"
	}
}
