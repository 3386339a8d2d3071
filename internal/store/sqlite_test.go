package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "triage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

var storeTicket = domain.Ticket{Number: 42, Title: "Fix crash", Owner: "octo", RepoName: "widgets"}

func TestCacheKey_DeterministicAndStageScoped(t *testing.T) {
	assert.Equal(t, CacheKey(storeTicket, StageScope), CacheKey(storeTicket, StageScope))
	assert.NotEqual(t, CacheKey(storeTicket, StageScope), CacheKey(storeTicket, StagePlan))

	other := storeTicket
	other.Number = 43
	assert.NotEqual(t, CacheKey(storeTicket, StageScope), CacheKey(other, StageScope))

	// Hex of blake3-256.
	assert.Len(t, CacheKey(storeTicket, StageScope), 64)
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	scope := domain.ScopeResult{
		Scope:           "guard the loader",
		Complexity:      4,
		ConfidenceScore: 82,
		EstimatedTime:   "8 hours",
	}
	prov := domain.Provenance{
		SessionID:  "sess-1",
		SessionURL: "https://agent.example.com/sessions/sess-1",
	}

	require.NoError(t, repo.Put(ctx, storeTicket, StageScope, scope, prov))

	record, err := repo.Get(ctx, storeTicket, StageScope)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "octo/widgets#42", record.TicketRef)
	assert.Equal(t, StageScope, record.Stage)
	assert.Equal(t, "sess-1", record.SessionID)
	assert.False(t, record.UsedFallback)

	var got domain.ScopeResult
	require.NoError(t, json.Unmarshal(record.Payload, &got))
	assert.Equal(t, scope, got)
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	repo := newTestStore(t)

	record, err := repo.Get(context.Background(), storeTicket, StagePlan)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStore_PutReplacesPreviousRun(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	first := domain.ScopeResult{Scope: "first pass", Complexity: 3, ConfidenceScore: 76}
	require.NoError(t, repo.Put(ctx, storeTicket, StageScope, first, domain.Provenance{UsedFallback: true}))

	second := domain.ScopeResult{Scope: "second pass", Complexity: 5, ConfidenceScore: 60}
	require.NoError(t, repo.Put(ctx, storeTicket, StageScope, second, domain.Provenance{SessionID: "sess-2"}))

	record, err := repo.Get(ctx, storeTicket, StageScope)
	require.NoError(t, err)
	require.NotNil(t, record)

	var got domain.ScopeResult
	require.NoError(t, json.Unmarshal(record.Payload, &got))
	assert.Equal(t, "second pass", got.Scope)
	assert.False(t, record.UsedFallback)

	records, err := repo.ListByTicket(ctx, storeTicket.Ref())
	require.NoError(t, err)
	assert.Len(t, records, 1, "re-runs must replace, not accumulate")
}

func TestStore_ListByTicketAndRecent(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	other := domain.Ticket{Number: 7, Owner: "octo", RepoName: "widgets"}

	require.NoError(t, repo.Put(ctx, storeTicket, StageScope, domain.ScopeResult{Scope: "s"}, domain.Provenance{}))
	require.NoError(t, repo.Put(ctx, storeTicket, StagePlan, domain.PlanResult{Steps: []string{"a"}}, domain.Provenance{}))
	require.NoError(t, repo.Put(ctx, other, StageScope, domain.ScopeResult{Scope: "o"}, domain.Provenance{UsedFallback: true}))

	byTicket, err := repo.ListByTicket(ctx, storeTicket.Ref())
	require.NoError(t, err)
	assert.Len(t, byTicket, 2)
	for _, record := range byTicket {
		assert.Equal(t, "octo/widgets#42", record.TicketRef)
	}

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	limited, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
