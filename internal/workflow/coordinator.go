// Package workflow sequences the three ticket-lifecycle stages — scope,
// plan, execute — and threads session continuity between them. Scope and
// plan degrade to the local heuristic instead of failing; execute has no
// offline equivalent and surfaces its errors.
package workflow

import (
	"context"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/heuristic"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/orchestrator"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
)

// Transport is the session API surface the coordinator needs: the
// orchestrator's slice plus credential visibility. *session.Client
// satisfies it.
type Transport interface {
	orchestrator.Transport

	// Available reports whether a credential is configured. Without one,
	// scope and plan run in fallback-only mode and Execute refuses.
	Available() bool
}

// Coordinator runs the scope → plan → execute chain for one ticket at a
// time. Independent tickets may be coordinated concurrently; the coordinator
// itself holds no mutable state.
type Coordinator struct {
	transport Transport
	orch      *orchestrator.Orchestrator
}

// New creates a coordinator over the given transport.
func New(transport Transport) *Coordinator {
	return &Coordinator{
		transport: transport,
		orch:      orchestrator.New(transport),
	}
}

// Scope analyzes a ticket via a remote agent session. Orchestrator-level
// errors (transport, poll timeout) degrade to the heuristic scorer, never
// to the caller; the result's provenance says which path produced it.
func (c *Coordinator) Scope(ctx context.Context, ticket domain.Ticket, onStatus orchestrator.StatusFunc) domain.ScopeResult {
	if !c.transport.Available() {
		return heuristic.Score(ticket)
	}

	sess, err := c.orch.CreateAndDrive(ctx, scopePrompt(ticket), scopeSchema, stageTags(ticket, "scope"), onStatus)
	if err != nil {
		return heuristic.Score(ticket)
	}

	result, usedFallback := orchestrator.Resolve(sess, scopeSchema, func() domain.ScopeResult {
		return heuristic.Score(ticket)
	})
	result.Provenance = domain.Provenance{
		SessionID:    sess.SessionID,
		SessionURL:   sess.URL,
		UsedFallback: usedFallback,
	}
	result.ClampBounds()
	return result
}

// Plan produces an implementation plan from a ticket and its scope result.
// When the scope stage left a live session in blocked status, planning
// continues that session; otherwise a fresh session is created with full
// context embedded. Same degradation policy as Scope.
func (c *Coordinator) Plan(ctx context.Context, ticket domain.Ticket, scope domain.ScopeResult, onStatus orchestrator.StatusFunc) domain.PlanResult {
	if !c.transport.Available() {
		return heuristic.PlanFallback(ticket, scope)
	}

	sess, err := c.planSession(ctx, ticket, scope, onStatus)
	if err != nil {
		return heuristic.PlanFallback(ticket, scope)
	}

	result, usedFallback := orchestrator.Resolve(sess, planSchema, func() domain.PlanResult {
		return heuristic.PlanFallback(ticket, scope)
	})
	result.Provenance = domain.Provenance{
		SessionID:    sess.SessionID,
		SessionURL:   sess.URL,
		UsedFallback: usedFallback,
	}
	return result
}

// planSession tries to continue the scope session when it is still blocked
// waiting for input; anything short of that — no scope session, a fallback
// scope, a lookup failure, or a session in another state — starts fresh.
// Continuation is an optimization, not a requirement.
func (c *Coordinator) planSession(ctx context.Context, ticket domain.Ticket, scope domain.ScopeResult, onStatus orchestrator.StatusFunc) (*session.Session, error) {
	if sid := scope.Provenance.SessionID; sid != "" && !scope.Provenance.UsedFallback {
		if live, err := c.transport.GetSession(ctx, sid); err == nil && live.Status == session.StatusBlocked {
			return c.orch.ContinueSession(ctx, sid, planFollowupPrompt(scope), onStatus)
		}
	}

	return c.orch.CreateAndDrive(ctx, planPrompt(ticket, scope), planSchema, stageTags(ticket, "plan"), onStatus)
}

// Execute starts a fire-and-forget execution session embedding the full step
// list. There is nothing to execute locally, so a missing credential is a
// hard precondition failure raised before any network call, and transport
// failures surface directly. The session is not polled.
func (c *Coordinator) Execute(ctx context.Context, ticket domain.Ticket, plan domain.PlanResult) (domain.ExecutionHandle, error) {
	if !c.transport.Available() {
		return domain.ExecutionHandle{}, autoerrors.NewPreconditionError(
			"execute requires an agent API credential; none is configured")
	}

	sess, err := c.transport.CreateSession(ctx, executePrompt(ticket, plan), session.CreateOptions{
		Tags: stageTags(ticket, "execute"),
	})
	if err != nil {
		return domain.ExecutionHandle{}, err
	}

	return domain.ExecutionHandle{
		SessionID:  sess.SessionID,
		SessionURL: sess.URL,
		Status:     domain.ExecutionStarted,
	}, nil
}
