package tickets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL: server.URL,
		Token:   "gh-token",
		Owner:   "octo",
		Repo:    "widgets",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, server
}

func TestNewClient_RequiresOwnerAndRepo(t *testing.T) {
	_, err := NewClient(Config{Owner: "octo"})
	if err == nil {
		t.Fatal("expected error for missing repo")
	}
}

func TestClient_ListIssues(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octo/widgets/issues" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if got := r.URL.Query().Get("labels"); got != "bug,p1" {
			t.Errorf("unexpected labels query: %s", got)
		}
		if got := r.URL.Query().Get("state"); got != "open" {
			t.Errorf("unexpected state query: %s", got)
		}

		w.Write([]byte(`[
			{"number": 1, "title": "Crash on start", "body": "boom", "labels": [{"name": "bug"}, {"name": "p1"}]},
			{"number": 2, "title": "A pull request", "labels": [], "pull_request": {}},
			{"number": 3, "title": "Another bug", "body": "", "labels": [{"name": "bug"}]}
		]`))
	})

	got, err := client.ListIssues(context.Background(), IssueFilter{State: "open", Labels: []string{"bug", "p1"}})
	if err != nil {
		t.Fatalf("ListIssues() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 tickets (pull request skipped), got %d", len(got))
	}
	if got[0].Number != 1 || got[0].Title != "Crash on start" {
		t.Errorf("unexpected first ticket: %+v", got[0])
	}
	if got[0].Owner != "octo" || got[0].RepoName != "widgets" {
		t.Errorf("ticket not stamped with repo identity: %+v", got[0])
	}
	if len(got[0].Labels) != 2 || got[0].Labels[0] != "bug" {
		t.Errorf("labels not flattened: %v", got[0].Labels)
	}
}

func TestClient_GetIssue(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octo/widgets/issues/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"number": 42, "title": "Fix crash", "body": "stack trace...", "labels": [{"name": "bug"}]}`))
	})

	got, err := client.GetIssue(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetIssue() error = %v", err)
	}
	if got.Number != 42 || got.Title != "Fix crash" {
		t.Errorf("unexpected ticket: %+v", got)
	}
}

func TestClient_GetIssue_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Not Found"}`))
	})

	_, err := client.GetIssue(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error")
	}
	if !autoerrors.HasCode(err, autoerrors.ErrCodeTicketNotFound) {
		t.Errorf("expected ticket-not-found code, got %v", err)
	}
}

func TestClient_AddComment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octo/widgets/issues/42/comments" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["body"] != "## Scope Analysis" {
			t.Errorf("unexpected comment body: %q", payload["body"])
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 1}`))
	})

	if err := client.AddComment(context.Background(), 42, "## Scope Analysis"); err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
}

func TestClient_UpdateIssue(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("unexpected method: %s", r.Method)
		}
		var patch IssuePatch
		json.NewDecoder(r.Body).Decode(&patch)
		if patch.Labels == nil || len(*patch.Labels) != 2 {
			t.Errorf("labels patch not forwarded: %+v", patch)
		}
		if patch.Title != nil {
			t.Error("unset title must not be sent")
		}
		w.Write([]byte(`{"number": 42, "title": "Fix crash", "labels": [{"name": "bug"}, {"name": "triaged"}]}`))
	})

	labels := []string{"bug", "triaged"}
	got, err := client.UpdateIssue(context.Background(), 42, IssuePatch{Labels: &labels})
	if err != nil {
		t.Fatalf("UpdateIssue() error = %v", err)
	}
	if len(got.Labels) != 2 || got.Labels[1] != "triaged" {
		t.Errorf("unexpected labels: %v", got.Labels)
	}
}

func TestClient_APIErrorIsHumanReadable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	})

	_, err := client.ListIssues(context.Background(), IssueFilter{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !autoerrors.HasCode(err, autoerrors.ErrCodeTicketSource) {
		t.Errorf("expected ticket source code, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "API rate limit exceeded") {
		t.Errorf("error lost the API message: %s", msg)
	}
}
