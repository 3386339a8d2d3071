package workflow

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/heuristic"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
)

// fakeTransport scripts each endpoint with a function and counts calls.
// Unset endpoints fail the test if hit.
type fakeTransport struct {
	t         *testing.T
	available bool

	createFn func(prompt string, opts session.CreateOptions) (*session.Session, error)
	getFn    func(sessionID string) (*session.Session, error)
	sendFn   func(sessionID, text string) (*session.Session, error)

	creates int
	gets    int
	sends   int
}

func (f *fakeTransport) Available() bool { return f.available }

func (f *fakeTransport) CreateSession(ctx context.Context, prompt string, opts session.CreateOptions) (*session.Session, error) {
	f.creates++
	if f.createFn == nil {
		f.t.Fatal("unexpected CreateSession call")
	}
	return f.createFn(prompt, opts)
}

func (f *fakeTransport) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	f.gets++
	if f.getFn == nil {
		f.t.Fatal("unexpected GetSession call")
	}
	return f.getFn(sessionID)
}

func (f *fakeTransport) SendMessage(ctx context.Context, sessionID string, text string) (*session.Session, error) {
	f.sends++
	if f.sendFn == nil {
		f.t.Fatal("unexpected SendMessage call")
	}
	return f.sendFn(sessionID, text)
}

var testTicket = domain.Ticket{
	Number:   42,
	Title:    "Fix crash",
	Body:     strings.Repeat("a", 1200),
	Labels:   []string{"bug", "complex"},
	Owner:    "octo",
	RepoName: "widgets",
}

const scopePayload = `{
	"scope": "Guard against nil config in the loader",
	"complexity": 4,
	"confidence_score": 82,
	"requirements": ["reproduce the crash"],
	"risks": ["config schema may vary"],
	"estimated_time": "8 hours"
}`

const planPayload = `{
	"steps": ["add nil check", "add regression test"],
	"files_to_modify": ["internal/loader/loader.go"],
	"testing_strategy": "table test over malformed configs",
	"success_criteria": ["crash no longer reproduces"]
}`

func finishedSession(id string, payload string) *session.Session {
	return &session.Session{
		SessionID:        id,
		URL:              "https://agent.example.com/sessions/" + id,
		Status:           session.StatusFinished,
		StructuredOutput: json.RawMessage(payload),
	}
}

func TestScope_NoCredentialGoesStraightToHeuristic(t *testing.T) {
	transport := &fakeTransport{t: t, available: false}
	c := New(transport)

	got := c.Scope(context.Background(), testTicket, nil)

	assert.Equal(t, heuristic.Score(testTicket), got)
	assert.True(t, got.Provenance.UsedFallback)
	assert.Zero(t, transport.creates, "fallback-only mode must not touch the network")
}

func TestScope_RemoteStructuredOutput(t *testing.T) {
	transport := &fakeTransport{
		t:         t,
		available: true,
		createFn: func(prompt string, opts session.CreateOptions) (*session.Session, error) {
			assert.Contains(t, prompt, "Fix crash")
			assert.Contains(t, prompt, "octo/widgets")
			require.NotNil(t, opts.OutputSchema)
			assert.Contains(t, opts.Tags, "scope")
			assert.Contains(t, opts.Tags, "issue-42")
			return finishedSession("sess-scope", scopePayload), nil
		},
	}
	c := New(transport)

	got := c.Scope(context.Background(), testTicket, nil)

	assert.False(t, got.Provenance.UsedFallback)
	assert.Equal(t, "sess-scope", got.Provenance.SessionID)
	assert.Equal(t, 4, got.Complexity)
	assert.Equal(t, 82, got.ConfidenceScore)
	assert.Equal(t, "8 hours", got.EstimatedTime)
}

func TestScope_TransportFailureDegradesWithoutError(t *testing.T) {
	transport := &fakeTransport{
		t:         t,
		available: true,
		createFn: func(string, session.CreateOptions) (*session.Session, error) {
			return nil, autoerrors.NewTransportError("create session", nil)
		},
	}
	c := New(transport)

	got := c.Scope(context.Background(), testTicket, nil)

	assert.True(t, got.Provenance.UsedFallback)
	assert.Equal(t, heuristic.Score(testTicket), got)
}

func TestScope_UnusableResponseFallsBackWithSessionProvenance(t *testing.T) {
	transport := &fakeTransport{
		t:         t,
		available: true,
		createFn: func(string, session.CreateOptions) (*session.Session, error) {
			return &session.Session{
				SessionID: "sess-noise",
				URL:       "https://agent.example.com/sessions/sess-noise",
				Status:    session.StatusFinished,
				Messages: []session.Message{
					{Role: session.RoleAssistant, Text: "sorry, nothing structured"},
				},
			}, nil
		},
	}
	c := New(transport)

	got := c.Scope(context.Background(), testTicket, nil)

	assert.True(t, got.Provenance.UsedFallback)
	// The failed session stays inspectable via provenance.
	assert.Equal(t, "sess-noise", got.Provenance.SessionID)
	assert.Equal(t, heuristic.Score(testTicket).Complexity, got.Complexity)
}

func TestScope_OutOfBoundsRemoteValuesAreClamped(t *testing.T) {
	payload := `{"scope":"x","complexity":25,"confidence_score":150,"requirements":[],"risks":[],"estimated_time":"1 hour"}`
	transport := &fakeTransport{
		t:         t,
		available: true,
		createFn: func(string, session.CreateOptions) (*session.Session, error) {
			return finishedSession("sess-wild", payload), nil
		},
	}
	c := New(transport)

	got := c.Scope(context.Background(), testTicket, nil)

	assert.False(t, got.Provenance.UsedFallback)
	assert.Equal(t, 10, got.Complexity)
	assert.Equal(t, 100, got.ConfidenceScore)
}

func TestPlan_ContinuesBlockedScopeSession(t *testing.T) {
	scope := domain.ScopeResult{
		Scope:      "small fix",
		Complexity: 3, ConfidenceScore: 80,
		Provenance: domain.Provenance{SessionID: "sess-scope", UsedFallback: false},
	}
	transport := &fakeTransport{
		t:         t,
		available: true,
		getFn: func(sessionID string) (*session.Session, error) {
			assert.Equal(t, "sess-scope", sessionID)
			return &session.Session{SessionID: "sess-scope", Status: session.StatusBlocked}, nil
		},
		sendFn: func(sessionID, text string) (*session.Session, error) {
			assert.Equal(t, "sess-scope", sessionID)
			assert.Contains(t, text, "implementation plan")
			return finishedSession("sess-scope", planPayload), nil
		},
	}
	c := New(transport)

	got := c.Plan(context.Background(), testTicket, scope, nil)

	assert.False(t, got.Provenance.UsedFallback)
	assert.Equal(t, []string{"add nil check", "add regression test"}, got.Steps)
	assert.Zero(t, transport.creates, "continuation must not create a fresh session")
	assert.Equal(t, 1, transport.sends)
}

func TestPlan_FinishedScopeSessionStartsFresh(t *testing.T) {
	scope := domain.ScopeResult{
		Scope:      "small fix",
		Provenance: domain.Provenance{SessionID: "sess-scope", UsedFallback: false},
	}
	transport := &fakeTransport{
		t:         t,
		available: true,
		getFn: func(string) (*session.Session, error) {
			return &session.Session{SessionID: "sess-scope", Status: session.StatusFinished}, nil
		},
		createFn: func(prompt string, opts session.CreateOptions) (*session.Session, error) {
			// Fresh sessions re-state the full context.
			assert.Contains(t, prompt, "Fix crash")
			assert.Contains(t, prompt, "small fix")
			return finishedSession("sess-plan", planPayload), nil
		},
	}
	c := New(transport)

	got := c.Plan(context.Background(), testTicket, scope, nil)

	assert.False(t, got.Provenance.UsedFallback)
	assert.Equal(t, "sess-plan", got.Provenance.SessionID)
	assert.Zero(t, transport.sends)
}

func TestPlan_FallbackScopeSkipsContinuityLookup(t *testing.T) {
	scope := heuristic.Score(testTicket)
	transport := &fakeTransport{
		t:         t,
		available: true,
		createFn: func(string, session.CreateOptions) (*session.Session, error) {
			return finishedSession("sess-plan", planPayload), nil
		},
	}
	c := New(transport)

	got := c.Plan(context.Background(), testTicket, scope, nil)

	assert.False(t, got.Provenance.UsedFallback)
	assert.Zero(t, transport.gets, "heuristic scope has no session to continue")
}

func TestPlan_ContinuityLookupFailureStartsFresh(t *testing.T) {
	scope := domain.ScopeResult{
		Provenance: domain.Provenance{SessionID: "sess-gone", UsedFallback: false},
	}
	transport := &fakeTransport{
		t:         t,
		available: true,
		getFn: func(string) (*session.Session, error) {
			return nil, autoerrors.NewTransportError("get session", nil)
		},
		createFn: func(string, session.CreateOptions) (*session.Session, error) {
			return finishedSession("sess-plan", planPayload), nil
		},
	}
	c := New(transport)

	got := c.Plan(context.Background(), testTicket, scope, nil)
	assert.False(t, got.Provenance.UsedFallback)
}

func TestPlan_ContinuationFailureDegradesToHeuristic(t *testing.T) {
	scope := domain.ScopeResult{
		Provenance: domain.Provenance{SessionID: "sess-scope", UsedFallback: false},
	}
	transport := &fakeTransport{
		t:         t,
		available: true,
		getFn: func(string) (*session.Session, error) {
			return &session.Session{SessionID: "sess-scope", Status: session.StatusBlocked}, nil
		},
		sendFn: func(string, string) (*session.Session, error) {
			return nil, autoerrors.NewTransportError("send message", nil)
		},
	}
	c := New(transport)

	got := c.Plan(context.Background(), testTicket, scope, nil)

	assert.True(t, got.Provenance.UsedFallback)
	assert.Equal(t, heuristic.PlanFallback(testTicket, scope), got)
}

func TestPlan_NoCredentialUsesPlanFallback(t *testing.T) {
	transport := &fakeTransport{t: t, available: false}
	c := New(transport)
	scope := heuristic.Score(testTicket)

	got := c.Plan(context.Background(), testTicket, scope, nil)

	assert.Equal(t, heuristic.PlanFallback(testTicket, scope), got)
	assert.Zero(t, transport.creates)
}

func TestExecute_MissingCredentialIsPreconditionBeforeNetwork(t *testing.T) {
	transport := &fakeTransport{t: t, available: false}
	c := New(transport)

	_, err := c.Execute(context.Background(), testTicket, domain.PlanResult{Steps: []string{"do it"}})

	require.Error(t, err)
	assert.True(t, autoerrors.IsPrecondition(err))
	assert.Zero(t, transport.creates, "precondition must fail before any network call")
}

func TestExecute_StartsWithoutPolling(t *testing.T) {
	plan := domain.PlanResult{
		Steps:           []string{"add nil check", "add regression test"},
		TestingStrategy: "table tests",
	}
	transport := &fakeTransport{
		t:         t,
		available: true,
		createFn: func(prompt string, opts session.CreateOptions) (*session.Session, error) {
			assert.Contains(t, prompt, "1. add nil check")
			assert.Contains(t, prompt, "2. add regression test")
			assert.Contains(t, opts.Tags, "execute")
			return &session.Session{
				SessionID: "sess-exec",
				URL:       "https://agent.example.com/sessions/sess-exec",
				Status:    session.StatusRunning,
			}, nil
		},
	}
	c := New(transport)

	handle, err := c.Execute(context.Background(), testTicket, plan)

	require.NoError(t, err)
	assert.Equal(t, "sess-exec", handle.SessionID)
	assert.Equal(t, domain.ExecutionStarted, handle.Status)
	assert.Zero(t, transport.gets, "execution sessions are fire-and-forget")
}

func TestExecute_TransportErrorSurfaces(t *testing.T) {
	transport := &fakeTransport{
		t:         t,
		available: true,
		createFn: func(string, session.CreateOptions) (*session.Session, error) {
			return nil, autoerrors.NewTransportError("create session", nil)
		},
	}
	c := New(transport)

	_, err := c.Execute(context.Background(), testTicket, domain.PlanResult{})
	require.Error(t, err)
	assert.True(t, autoerrors.IsTransport(err))
}
