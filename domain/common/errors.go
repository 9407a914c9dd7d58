package common

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ErrorKind classifies domain failures for callers
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindNotFound          ErrorKind = "not_found"
	KindStateConflict     ErrorKind = "state_conflict"
	KindIntegrity         ErrorKind = "integrity"
)

// DomainError represents a structured error with caller-facing and internal messages
type DomainError struct {
	Kind        ErrorKind   // Classification used by route handlers
	UserMessage string      // Message safe to show to the player
	LogMessage  string      // Internal message for logging
	Err         error       // Underlying error
	Context     interface{} // Additional context for logging
}

// Error implements the error interface
func (e *DomainError) Error() string {
	msg := e.LogMessage
	if msg == "" {
		msg = e.UserMessage
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError creates an error for malformed or out-of-range input
func NewValidationError(userMessage string) *DomainError {
	return &DomainError{
		Kind:        KindValidation,
		UserMessage: userMessage,
		LogMessage:  "validation failed: " + userMessage,
	}
}

// NewInsufficientFundsError creates an error for a balance that cannot cover a spend
func NewInsufficientFundsError(currency string, have, need int64) *DomainError {
	return &DomainError{
		Kind:        KindInsufficientFunds,
		UserMessage: fmt.Sprintf("Insufficient %s: have %d, need %d", currency, have, need),
		LogMessage:  fmt.Sprintf("insufficient %s balance: have %d, need %d", currency, have, need),
		Context:     map[string]int64{"have": have, "need": need},
	}
}

// NewNotFoundError creates an error for a missing or foreign resource
func NewNotFoundError(resource string, id interface{}) *DomainError {
	return &DomainError{
		Kind:        KindNotFound,
		UserMessage: fmt.Sprintf("%s not found", resource),
		LogMessage:  fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewStateConflictError creates an error for an operation invalid in the current state
func NewStateConflictError(userMessage string) *DomainError {
	return &DomainError{
		Kind:        KindStateConflict,
		UserMessage: userMessage,
		LogMessage:  "state conflict: " + userMessage,
	}
}

// NewIntegrityFailure creates a fatal error for ledger or fairness mismatches.
// It is logged on creation so it can never be silently dropped.
func NewIntegrityFailure(err error, logMessage string) *DomainError {
	e := &DomainError{
		Kind:        KindIntegrity,
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Err:         err,
	}
	log.WithFields(log.Fields{
		"integrity": true,
		"error":     e.Error(),
	}).Error("Integrity failure detected")
	return e
}

// KindOf returns the kind of the first DomainError in the chain
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

func isKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsInsufficientFunds reports whether err is an insufficient funds failure
func IsInsufficientFunds(err error) bool { return isKind(err, KindInsufficientFunds) }

// IsNotFound reports whether err is a not found failure
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsStateConflict reports whether err is a state conflict
func IsStateConflict(err error) bool { return isKind(err, KindStateConflict) }

// IsIntegrityFailure reports whether err is an integrity failure
func IsIntegrityFailure(err error) bool { return isKind(err, KindIntegrity) }
