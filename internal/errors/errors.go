// Package errors provides structured error handling for the molt CLI.
// It includes categorized errors with actionable remediation guidance.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by invalid or missing configuration.
	Configuration
	// Resolution errors occur when an artifact or category cannot be found
	// in the manifest. They are fatal to a run.
	Resolution
	// Oracle errors occur when the rewrite oracle times out or returns
	// empty/unparseable output. They are recoverable per generation.
	Oracle
	// Verification errors occur when a candidate rewrite regresses the
	// feature contract or quality score. They are recoverable per generation.
	Verification
	// Persistence errors occur when archive or manifest writes fail.
	Persistence
)

// String returns the category name as it appears in error output.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "argument"
	case Configuration:
		return "configuration"
	case Resolution:
		return "resolution"
	case Oracle:
		return "oracle"
	case Verification:
		return "verification"
	case Persistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this category abort a molt run.
// Oracle and Verification errors are recorded per generation and the run
// continues; everything else stops the run before a report is written.
func (c ErrorCategory) Fatal() bool {
	return c != Oracle && c != Verification
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	// Category is the type of error (Resolution, Oracle, etc.)
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Usage shows the correct command syntax (optional, for argument errors).
	Usage string
	// cause is the wrapped underlying error, if any.
	cause error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is and errors.As.
func (e *CLIError) Unwrap() error {
	return e.cause
}

// NewArgumentError creates a new argument error with the given message and remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentErrorWithUsage creates a new argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     message,
		Usage:       usage,
		Remediation: remediation,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewResolutionError creates a new resolution error.
func NewResolutionError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Resolution,
		Message:     message,
		Remediation: remediation,
	}
}

// NewOracleError creates a new oracle error.
func NewOracleError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Oracle,
		Message:     message,
		Remediation: remediation,
	}
}

// NewVerificationError creates a new verification error.
func NewVerificationError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Verification,
		Message:     message,
		Remediation: remediation,
	}
}

// NewPersistenceError creates a new persistence error.
func NewPersistenceError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Persistence,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		cause:       err,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		cause:       err,
	}
}

// IsCLIError reports whether err has a CLIError anywhere in its chain.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError extracts the CLIError from err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
