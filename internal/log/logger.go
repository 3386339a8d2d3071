// Package log provides structured logging over slog for the collaborator
// layers (CLI, dashboard, stores). The triage core itself stays silent and
// reports through provenance instead.
package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
)

// Format selects the handler encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level to emit: "debug", "info", "warn", "error".
	Level string

	// Format is the output encoding. Defaults to JSON.
	Format Format

	// Output is where log lines go. Defaults to stderr.
	Output io.Writer

	// AddSource includes source file and line in every record.
	AddSource bool
}

// Logger wraps slog with AutomationError-aware helpers.
type Logger struct {
	slog *slog.Logger
}

// New creates a Logger from config.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatText:
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	return &Logger{slog: slog.New(handler)}
}

// Default creates a logger with info-level JSON output to stderr.
func Default() *Logger {
	return New(Config{})
}

// Development creates a debug-level text logger with source locations.
func Development() *Logger {
	return New(Config{Level: "debug", Format: FormatText, AddSource: true})
}

// ParseLevel maps a level name onto slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN", "warning":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a Logger with the given attributes added to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// WithError adds error details to the logger. AutomationErrors contribute
// their code and suggestions as structured attributes.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	if autoErr, ok := err.(*errors.AutomationError); ok {
		args := []any{
			"error", autoErr.Message,
			"error_code", string(autoErr.Code),
		}
		if len(autoErr.Suggestions) > 0 {
			args = append(args, "suggestions", autoErr.Suggestions)
		}
		if autoErr.Cause != nil {
			args = append(args, "cause", autoErr.Cause.Error())
		}
		return l.With(args...)
	}

	return l.With("error", err.Error())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) { l.slog.Info(msg, args...) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) { l.slog.Warn(msg, args...) }

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }
