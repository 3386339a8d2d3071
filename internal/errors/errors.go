// Package errors defines the error taxonomy for the triage automation.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeTransport    ErrorCode = "SESSION-001"
	ErrCodePollTimeout  ErrorCode = "SESSION-002"
	ErrCodeParse        ErrorCode = "SESSION-003"
	ErrCodePrecondition ErrorCode = "SESSION-004"

	// Ticket source errors (TICKET-001 to TICKET-099)
	ErrCodeTicketSource   ErrorCode = "TICKET-001"
	ErrCodeTicketNotFound ErrorCode = "TICKET-002"

	// Store errors (STORE-001 to STORE-099)
	ErrCodeStoreQuery ErrorCode = "STORE-001"
	ErrCodeStoreOpen  ErrorCode = "STORE-002"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"
)

// AutomationError represents an enhanced error with code and suggestions
type AutomationError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *AutomationError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AutomationError) Unwrap() error {
	return e.Cause
}

// New creates a new AutomationError
func New(code ErrorCode, message string) *AutomationError {
	return &AutomationError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AutomationError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *AutomationError {
	return &AutomationError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *AutomationError) WithSuggestion(suggestion string) *AutomationError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// HasCode reports whether err (or anything it wraps) is an AutomationError
// carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var autoErr *AutomationError
	if stderrors.As(err, &autoErr) {
		return autoErr.Code == code
	}
	return false
}

// IsTransport reports whether err is a network/auth/remote-5xx failure.
// Transport failures are non-retryable within one call; the caller may
// retry the whole stage.
func IsTransport(err error) bool {
	return HasCode(err, ErrCodeTransport)
}

// IsPollTimeout reports whether err is a poll-ceiling timeout. Terminal for
// that call.
func IsPollTimeout(err error) bool {
	return HasCode(err, ErrCodePollTimeout)
}

// IsParse reports whether err is a structured-output or JSON extraction
// failure. Parse failures are always absorbed into the fallback path and
// never surfaced to workflow callers.
func IsParse(err error) bool {
	return HasCode(err, ErrCodeParse)
}

// IsPrecondition reports whether err is a missing-credential precondition
// failure. Fatal, surfaced immediately.
func IsPrecondition(err error) bool {
	return HasCode(err, ErrCodePrecondition)
}

// Common error constructors for frequently used errors

// NewTransportError creates a transport-level failure against the session API
func NewTransportError(op string, cause error) *AutomationError {
	return Wrap(ErrCodeTransport, fmt.Sprintf("session transport failed: %s", op), cause).
		WithSuggestion("Check network connectivity to the agent service").
		WithSuggestion("Verify the configured API base URL and credential")
}

// NewPollTimeoutError creates a poll-ceiling timeout error
func NewPollTimeoutError(sessionID string, elapsed string) *AutomationError {
	return New(ErrCodePollTimeout, fmt.Sprintf("session %s did not reach a terminal status within %s", sessionID, elapsed)).
		WithSuggestion("Retry the stage; long-running sessions sometimes finish on a second attempt").
		WithSuggestion("Inspect the session in the agent dashboard before retrying")
}

// NewParseError creates a structured-output/JSON extraction error
func NewParseError(detail string, cause error) *AutomationError {
	return Wrap(ErrCodeParse, fmt.Sprintf("agent response not parseable: %s", detail), cause)
}

// NewPreconditionError creates a missing-credential precondition error
func NewPreconditionError(detail string) *AutomationError {
	return New(ErrCodePrecondition, detail).
		WithSuggestion("Set the agent API token in the configuration file or AGENT_API_TOKEN").
		WithSuggestion("Scope and plan can run in fallback-only mode; execute cannot")
}

// NewTicketSourceError creates a ticket-tracker API error. Ticket source
// failures are non-retryable and propagate unchanged.
func NewTicketSourceError(op string, cause error) *AutomationError {
	return Wrap(ErrCodeTicketSource, fmt.Sprintf("ticket source failed: %s", op), cause).
		WithSuggestion("Verify the repository exists and the token has access to it")
}
