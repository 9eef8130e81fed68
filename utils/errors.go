package utils

import (
	"errors"
	"fmt"
)

// Stable machine-readable error kinds surfaced to callers. Every
// lifecycle failure carries one of these plus a human-readable message;
// all of them are recoverable by the caller.
const (
	KindInvalidTransition = "INVALID_TRANSITION"
	KindQuotaExceeded     = "QUOTA_EXCEEDED"
	KindInvalidAmount     = "INVALID_AMOUNT"
	KindConflict          = "CONFLICT"
	KindNotFound          = "NOT_FOUND"
	KindForbidden         = "FORBIDDEN"
)

// LifecycleError is the error type returned by the preorder lifecycle
// guards. CurrentStatus gives the caller enough context to decide
// whether to reload, retry, or inform the end user.
type LifecycleError struct {
	Kind          string `json:"kind"`
	Message       string `json:"message"`
	CurrentStatus string `json:"current_status,omitempty"`
}

// Error implements the error interface
func (e *LifecycleError) Error() string {
	if e.CurrentStatus != "" {
		return fmt.Sprintf("%s: %s (current status: %s)", e.Kind, e.Message, e.CurrentStatus)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// InvalidTransitionError reports a state change that violates the guard table.
func InvalidTransitionError(message, currentStatus string) *LifecycleError {
	return &LifecycleError{Kind: KindInvalidTransition, Message: message, CurrentStatus: currentStatus}
}

// QuotaExceededError reports a reservation attempt with no slots remaining.
func QuotaExceededError(message string) *LifecycleError {
	return &LifecycleError{Kind: KindQuotaExceeded, Message: message}
}

// InvalidAmountError reports a money field outside its valid range.
func InvalidAmountError(message string) *LifecycleError {
	return &LifecycleError{Kind: KindInvalidAmount, Message: message}
}

// ConflictLostError reports a lost concurrent-update race. The caller
// should reload and retry.
func ConflictLostError(message string) *LifecycleError {
	return &LifecycleError{Kind: KindConflict, Message: message}
}

// NotFoundLifecycleError reports a missing entity.
func NotFoundLifecycleError(message string) *LifecycleError {
	return &LifecycleError{Kind: KindNotFound, Message: message}
}

// ForbiddenLifecycleError reports an actor not permitted for the event.
func ForbiddenLifecycleError(message, currentStatus string) *LifecycleError {
	return &LifecycleError{Kind: KindForbidden, Message: message, CurrentStatus: currentStatus}
}

// AsLifecycleError returns the LifecycleError inside err, if any.
func AsLifecycleError(err error) *LifecycleError {
	var le *LifecycleError
	if errors.As(err, &le) {
		return le
	}
	return nil
}

// IsKind checks whether err is a LifecycleError of the given kind.
func IsKind(err error, kind string) bool {
	if le := AsLifecycleError(err); le != nil {
		return le.Kind == kind
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
