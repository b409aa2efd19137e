package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy of the engine. Every caller-facing operation reports one of
// these; nothing is silently swallowed.
var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session id is known but was
	// evicted by the idle-expiry policy.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionBusy is returned when another operation holds the session
	// and the caller chose not to wait.
	ErrSessionBusy = errors.New("session busy")

	// ErrQuestionNotFound is returned when an answer references a question
	// id outside the bank.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInvalidOption is returned when a selected option id is not valid
	// for the question.
	ErrInvalidOption = errors.New("invalid option")

	// ErrMissingInput is returned when a required input is absent.
	ErrMissingInput = errors.New("missing input")

	// ErrInvalidStateTransition is returned when an operation is attempted
	// outside its valid session state.
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// BackendError wraps a generation backend failure, preserving its message
// verbatim for the caller.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation backend failed: %v", e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// IsValidationError reports whether err is one of the answer-validation
// sentinels, which never mutate interview state.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrInvalidOption) ||
		errors.Is(err, ErrMissingInput)
}
