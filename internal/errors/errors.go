package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/ecohabits/internal/logger"
)

// Kind is the machine-readable category of an application error.
type Kind string

const (
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION"
)

// Error is returned by the action layer for every classified failure.
type Error struct {
	Kind    Kind   // Machine-readable kind
	Message string // Human-readable message
	Field   string // Offending input field, for validation failures
	Cause   error  // Wrapped underlying error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "authentication required"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation   = &Error{Kind: KindValidation, Message: "invalid input"}
)

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that wraps cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Unauthorized reports a missing caller identity.
func Unauthorized() *Error {
	return New(KindUnauthorized, "authentication required")
}

// NotFound reports a missing or foreign entity.
func NotFound(entity, id string) *Error {
	return New(KindNotFound, fmt.Sprintf("%s %q not found", entity, id))
}

// Invalid reports an input that fails shape or range constraints.
func Invalid(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", KindOf(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
