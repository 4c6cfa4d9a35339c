package issuance

import (
	"fmt"
)

// ErrorCategory classifies a failed send. No category is retried.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorTransport      ErrorCategory = "transport"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorRejected       ErrorCategory = "rejected"
	ErrorBadResponse    ErrorCategory = "bad_response"
	ErrorSigning        ErrorCategory = "signing"
)

// ProtocolError describes a failed call to the issuance protocol.
// StatusCode is zero when no response was received.
type ProtocolError struct {
	Category   ErrorCategory
	StatusCode int
	Message    string
	Underlying error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("issuance [%s]: %s", e.Category, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	return e.Underlying
}

func newError(category ErrorCategory, status int, message string, underlying error) *ProtocolError {
	return &ProtocolError{Category: category, StatusCode: status, Message: message, Underlying: underlying}
}
