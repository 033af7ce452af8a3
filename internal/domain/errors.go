package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrTransport covers connection failures and short or empty reads.
	ErrTransport = errors.New("transport")
	// ErrTimeout is returned when the relay does not answer within the deadline.
	ErrTimeout = errors.New("timeout")
	// ErrEncoding covers bad recipient hex and payload text that is not UTF-8.
	ErrEncoding = errors.New("encoding")
	// ErrProtocolShape covers replies too short for the fields they must carry.
	ErrProtocolShape = errors.New("protocol shape")
	// ErrSigning covers failures of the signing key or primitive.
	ErrSigning = errors.New("signing")

	ErrSessionFailed = errors.New("session failed; start a new session")
	ErrSessionClosed = errors.New("session closed")
	ErrNotReady      = errors.New("session not authenticated")
)

// OpError describes a failed protocol operation.
type OpError struct {
	Op     string // operation, e.g. "authenticate"
	Kind   error  // one of the Err* kinds above
	Detail string // expected vs. received, when known
	Err    error  // underlying cause, may be nil
}

func (e *OpError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewOpError builds an OpError with a formatted detail.
func NewOpError(op string, kind error, err error, format string, args ...any) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err, Detail: fmt.Sprintf(format, args...)}
}
