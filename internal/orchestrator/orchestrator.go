// Package orchestrator drives remote agent sessions to a terminal,
// interpretable result. It owns the poll loop and the three-tier result
// resolution; the wire protocol itself lives in the session package.
package orchestrator

import (
	"context"
	"time"

	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
)

// Poll tuning is fixed, not configurable at the interface level.
const (
	// PollInterval is the suspension between poll ticks.
	PollInterval = 5 * time.Second

	// PollCeiling is the hard wall-clock budget for one poll loop, measured
	// from loop entry, not from session creation.
	PollCeiling = 300 * time.Second
)

// Transport is the narrow slice of the session API the orchestrator needs.
// *session.Client satisfies it; tests substitute fakes.
type Transport interface {
	CreateSession(ctx context.Context, prompt string, opts session.CreateOptions) (*session.Session, error)
	GetSession(ctx context.Context, sessionID string) (*session.Session, error)
	SendMessage(ctx context.Context, sessionID string, text string) (*session.Session, error)
}

// StatusFunc is invoked at every poll tick with the latest session status.
type StatusFunc func(session.Status)

// Orchestrator drives one request/response cycle against the remote agent.
// It holds no mutable state between calls and is safe for concurrent use.
type Orchestrator struct {
	transport Transport

	// Overridable in package tests only; New always installs the constants.
	interval time.Duration
	ceiling  time.Duration
}

// New creates an orchestrator over the given transport.
func New(transport Transport) *Orchestrator {
	return &Orchestrator{
		transport: transport,
		interval:  PollInterval,
		ceiling:   PollCeiling,
	}
}

// CreateAndDrive creates a session seeded with prompt and polls it until the
// status stops the loop or the ceiling elapses. Transport failures propagate
// as transport errors; an exceeded ceiling is a distinct poll-timeout error
// with no partial result. The caller decides whether to retry, fall back, or
// surface it.
func (o *Orchestrator) CreateAndDrive(ctx context.Context, prompt string, schema *session.OutputSchema, tags []string, onStatus StatusFunc) (*session.Session, error) {
	sess, err := o.transport.CreateSession(ctx, prompt, session.CreateOptions{
		Tags:         tags,
		OutputSchema: schema,
	})
	if err != nil {
		return nil, err
	}

	return o.poll(ctx, sess, onStatus)
}

// ContinueSession sends a follow-up message to an existing session and
// re-enters the poll loop. Used to chain plan generation onto a blocked
// scope session without re-stating full context.
func (o *Orchestrator) ContinueSession(ctx context.Context, sessionID string, followupPrompt string, onStatus StatusFunc) (*session.Session, error) {
	sess, err := o.transport.SendMessage(ctx, sessionID, followupPrompt)
	if err != nil {
		return nil, err
	}

	return o.poll(ctx, sess, onStatus)
}

// poll drives sess until its status stops the loop. The ceiling is measured
// from here. A finished session found on tick N returns after exactly N
// ticks, with no trailing sleep.
func (o *Orchestrator) poll(ctx context.Context, sess *session.Session, onStatus StatusFunc) (*session.Session, error) {
	notify := func(status session.Status) {
		if onStatus != nil {
			onStatus(status)
		}
	}

	notify(sess.Status)
	if sess.Status.StopPolling() {
		return sess, nil
	}

	deadline := time.Now().Add(o.ceiling)
	timer := time.NewTimer(o.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		if time.Now().After(deadline) {
			return nil, autoerrors.NewPollTimeoutError(sess.SessionID, o.ceiling.String())
		}

		latest, err := o.transport.GetSession(ctx, sess.SessionID)
		if err != nil {
			return nil, err
		}
		sess = latest

		notify(sess.Status)
		if sess.Status.StopPolling() {
			return sess, nil
		}

		timer.Reset(o.interval)
	}
}
