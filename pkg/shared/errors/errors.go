// Package errors defines the error taxonomy shared across the gateway: a
// generic OperationError for ambient failures, plus the discriminated kinds
// named in the core's error design (ValidationError, AuthError, Timeout,
// ExecutionError, HandlerMissing, HandlerError, StateError,
// ResourceExhausted).
package errors

import (
	"errors"
	"fmt"
)

// OperationError describes a failed operation with enough context to locate
// it in logs: what was attempted, which component attempted it, and against
// which resource, if any.
type OperationError struct {
	Operation string
	Component string
	Resource  string
	Cause     error
}

func (e *OperationError) Error() string {
	msg := "failed to " + e.Operation
	if e.Component != "" {
		msg += ", component: " + e.Component
	}
	if e.Resource != "" {
		msg += ", resource: " + e.Resource
	}
	if e.Cause != nil {
		msg += ", cause: " + e.Cause.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// FailedTo wraps cause in a short "failed to <action>: <cause>" error, or
// returns a plain "failed to <action>" error if cause is nil.
func FailedTo(action string, cause error) error {
	if cause == nil {
		return fmt.Errorf("failed to %s", action)
	}
	return fmt.Errorf("failed to %s: %w", action, cause)
}

// Kind discriminates the expected failure modes the core never panics for.
type Kind string

const (
	KindNone             Kind = ""
	KindValidation       Kind = "ValidationError"
	KindAuth             Kind = "AuthError"
	KindTimeout          Kind = "Timeout"
	KindExecution        Kind = "ExecutionError"
	KindHandlerMissing   Kind = "HandlerMissing"
	KindHandlerError     Kind = "HandlerError"
	KindState            Kind = "StateError"
	KindResourceExhausted Kind = "ResourceExhausted"
)

// KindError is a discriminated error carrying a Kind and a category, so
// callers can render a stable, user-facing message without string-sniffing.
type KindError struct {
	ErrKind  Kind
	Category string
	Message  string
	Cause    error
}

func (e *KindError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("%s: %s (category=%s)", e.ErrKind, e.Message, e.Category)
	}
	return fmt.Sprintf("%s: %s", e.ErrKind, e.Message)
}

func (e *KindError) Unwrap() error {
	return e.Cause
}

func New(kind Kind, message string) *KindError {
	return &KindError{ErrKind: kind, Message: message}
}

func NewCategory(kind Kind, category, message string) *KindError {
	return &KindError{ErrKind: kind, Category: category, Message: message}
}

func Wrap(kind Kind, message string, cause error) *KindError {
	return &KindError{ErrKind: kind, Message: message, Cause: cause}
}

// KindOf returns the Kind carried by err, or KindNone if err does not wrap a
// KindError.
func KindOf(err error) Kind {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.ErrKind
	}
	return KindNone
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
