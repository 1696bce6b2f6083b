// Package aierr normalizes AI backend failures into one error shape with a
// machine-readable code. All provider adapters construct their errors here.
package aierr

import (
	"context"
	"errors"
	"fmt"
	"net"
)

type Code string

const (
	// CodeTimeout: the bounded wall-clock timeout elapsed before a response.
	CodeTimeout Code = "timeout"
	// CodeAPIError: the backend answered with a non-2xx HTTP status.
	CodeAPIError Code = "api_error"
	// CodeLogicalError: a 2xx response whose body carries an error payload.
	CodeLogicalError Code = "logical_error"
	// CodeUnknown: network failures and anything else.
	CodeUnknown Code = "unknown"
)

type Error struct {
	Provider string
	Code     Code
	Status   int // HTTP status for CodeAPIError, 0 otherwise
	Message  string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

func New(provider string, code Code, status int, message string) *Error {
	return &Error{Provider: provider, Code: code, Status: status, Message: message}
}

// FromTransport classifies a transport-level error from the HTTP client.
func FromTransport(provider string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return New(provider, CodeTimeout, 0, err.Error())
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return New(provider, CodeTimeout, 0, err.Error())
	}
	return New(provider, CodeUnknown, 0, err.Error())
}

// CodeOf returns the normalized code of err, or CodeUnknown for foreign
// errors.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}
