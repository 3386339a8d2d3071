// Package session is the wire binding for the remote agent session API:
// create a session, fetch its state, send follow-up messages. It contains
// protocol plumbing only; driving a session to completion lives in the
// orchestrator package.
package session

import "encoding/json"

// Status is the server-reported lifecycle state of a session.
type Status string

const (
	// StatusRunning means the agent is still working; keep polling.
	StatusRunning Status = "running"

	// StatusBlocked means the agent is waiting for operator input. The
	// session remains continuable via SendMessage, but one-shot stages treat
	// it as terminal enough to read output from.
	StatusBlocked Status = "blocked"

	// StatusFinished means the agent completed its task.
	StatusFinished Status = "finished"

	// StatusExpired means the session lapsed server-side before completion.
	StatusExpired Status = "expired"
)

// Terminal reports whether the session can never change state again.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusExpired
}

// StopPolling reports whether a poll loop should stop on this status.
// Blocked stops the loop even though the session stays continuable: the
// stages here are one-shot, so a waiting agent has said all it is going to.
func (s Status) StopPolling() bool {
	return s != StatusRunning
}

// Message roles as reported by the agent service.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in a session's conversation. The slice order on
// Session is the authoritative conversation order.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the remote session state as last fetched.
type Session struct {
	SessionID        string          `json:"session_id"`
	URL              string          `json:"url"`
	Status           Status          `json:"status"`
	StructuredOutput json.RawMessage `json:"structured_output,omitempty"`
	Messages         []Message       `json:"messages,omitempty"`
}

// LastAssistantMessage returns the text of the most recent agent-authored
// message, or "" when none exists.
func (s *Session) LastAssistantMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i].Text
		}
	}
	return ""
}

// CreateOptions carries the optional parts of a session-create call.
type CreateOptions struct {
	// Tags are attached to the session for observability.
	Tags []string

	// OutputSchema, when set, asks the agent to emit structured output
	// conforming to the schema.
	OutputSchema *OutputSchema
}
