package exitcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ConfigError", ConfigError, 3},
		{"PreconditionError", PreconditionError, 4},
		{"NetworkError", NetworkError, 5},
		{"TimeoutError", TimeoutError, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, Success},
		{"plain error", errors.New("something broke"), GeneralError},
		{"transport", autoerrors.NewTransportError("create session", errors.New("refused")), NetworkError},
		{"poll timeout", autoerrors.NewPollTimeoutError("sess-1", "5m0s"), TimeoutError},
		{"context deadline", context.DeadlineExceeded, TimeoutError},
		{"precondition", autoerrors.NewPreconditionError("execute requires a plan"), PreconditionError},
		{"config not found", autoerrors.New(autoerrors.ErrCodeConfigNotFound, "no file"), ConfigError},
		{"config invalid", autoerrors.New(autoerrors.ErrCodeConfigInvalid, "bad yaml"), ConfigError},
		{"ticket source", autoerrors.NewTicketSourceError("list issues", errors.New("503")), NetworkError},
		{"parse is general", autoerrors.NewParseError("bad json", nil), GeneralError},
		{"wrapped transport", fmt.Errorf("scope: %w",
			autoerrors.NewTransportError("get session", errors.New("eof"))), NetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	if got := Description(TimeoutError); got != "Session polling timed out" {
		t.Errorf("Description(TimeoutError) = %q", got)
	}
	if got := Description(99); got != "Unknown error" {
		t.Errorf("Description(99) = %q", got)
	}
}
