// Package exitcode maps triage errors onto stable process exit codes so
// scripts and CI steps can branch on the outcome.
package exitcode

import (
	"context"
	"errors"
	"os"

	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates a missing or invalid configuration file
	ConfigError = 3

	// PreconditionError indicates a stage was invoked without its inputs
	PreconditionError = 4

	// NetworkError indicates the agent or ticket source was unreachable
	NetworkError = 5

	// TimeoutError indicates a session poll gave up at the ceiling
	TimeoutError = 6

	// Interrupted indicates the user cancelled the run (SIGINT)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch {
	case autoerrors.IsPollTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		return TimeoutError
	case autoerrors.IsTransport(err):
		return NetworkError
	case autoerrors.IsPrecondition(err):
		return PreconditionError
	case autoerrors.HasCode(err, autoerrors.ErrCodeConfigNotFound),
		autoerrors.HasCode(err, autoerrors.ErrCodeConfigInvalid):
		return ConfigError
	case autoerrors.HasCode(err, autoerrors.ErrCodeTicketNotFound),
		autoerrors.HasCode(err, autoerrors.ErrCodeTicketSource):
		return NetworkError
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Invalid command usage"
	case ConfigError:
		return "Configuration error"
	case PreconditionError:
		return "Stage precondition not met"
	case NetworkError:
		return "Network or remote service error"
	case TimeoutError:
		return "Session polling timed out"
	default:
		return "Unknown error"
	}
}
