// Package apperr provides the error taxonomy shared by the analyzer, the review
// state machine and the API layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind represents the category of an error.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInputIncomplete
	KindJurisdictionUnresolved
	KindAnalysisFailure
	KindInvalidTransition
	KindLookupMiss
	KindNotFound
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindInputIncomplete:
		return "input_incomplete"
	case KindJurisdictionUnresolved:
		return "jurisdiction_unresolved"
	case KindAnalysisFailure:
		return "analysis_failure"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindLookupMiss:
		return "lookup_miss"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is the base error type for clauseguard errors.
type Error struct {
	// Kind indicates the category of error
	Kind Kind

	// Op is the operation being performed (e.g., "review.Reject")
	Op string

	// Message is a human-readable description
	Message string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target. Errors match on Kind, and on
// Message too when the target carries one, so package-level sentinels can be
// more specific than their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Sentinels for errors.Is checks by kind.
var (
	ErrInputIncomplete        = &Error{Kind: KindInputIncomplete}
	ErrJurisdictionUnresolved = &Error{Kind: KindJurisdictionUnresolved}
	ErrAnalysisFailure        = &Error{Kind: KindAnalysisFailure}
	ErrInvalidTransition      = &Error{Kind: KindInvalidTransition}
	ErrLookupMiss             = &Error{Kind: KindLookupMiss}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput}
)

// New creates an error of the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Message: msg}
}

// Wrap creates an error of the given kind wrapping err.
func Wrap(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the caller may retry the failed operation.
func IsRetryable(err error) bool {
	return KindOf(err) == KindAnalysisFailure
}
