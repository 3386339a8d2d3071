// Package store persists stage results with their provenance so consumers
// (comment posting, the dashboard) can reuse prior analysis and tell real
// agent output from heuristic output.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
)

// Stage identifies which lifecycle stage produced a record.
type Stage string

const (
	StageScope   Stage = "scope"
	StagePlan    Stage = "plan"
	StageExecute Stage = "execute"
)

// Record is one persisted stage result.
type Record struct {
	Key          string          `json:"key"`
	TicketRef    string          `json:"ticket_ref"`
	Stage        Stage           `json:"stage"`
	Payload      json.RawMessage `json:"payload"`
	SessionID    string          `json:"session_id,omitempty"`
	SessionURL   string          `json:"session_url,omitempty"`
	UsedFallback bool            `json:"used_fallback"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Repository is the persistence contract used by the CLI and dashboard.
type Repository interface {
	Put(ctx context.Context, ticket domain.Ticket, stage Stage, payload any, prov domain.Provenance) error
	Get(ctx context.Context, ticket domain.Ticket, stage Stage) (*Record, error)
	ListByTicket(ctx context.Context, ticketRef string) ([]Record, error)
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

func marshalPayload(payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}
