// Package tickets binds the ticket-source contract to the GitHub issues API.
// It is deliberately thin: every failure is non-retryable and propagates
// unchanged with a human-readable message.
package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// Config configures the GitHub client. Authentication flows are out of
// scope; the token arrives as plain configuration input.
type Config struct {
	BaseURL string
	Token   string
	Owner   string
	Repo    string
	Timeout time.Duration
}

// Client is a thin GitHub issues client scoped to one repository.
type Client struct {
	baseURL string
	token   string
	owner   string
	repo    string
	client  *http.Client
}

// NewClient creates a GitHub issues client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, autoerrors.New(autoerrors.ErrCodeConfigInvalid, "ticket source requires owner and repo")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		token:   cfg.Token,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// IssueFilter narrows ListIssues. Zero value lists open issues.
type IssueFilter struct {
	// State is "open", "closed" or "all". Defaults to "open".
	State string

	// Labels restricts to issues carrying all of these labels.
	Labels []string

	// PerPage caps the returned page size. Defaults to the API's 30.
	PerPage int
}

// IssuePatch carries the mutable issue fields for UpdateIssue. Nil fields
// are left untouched.
type IssuePatch struct {
	Title  *string   `json:"title,omitempty"`
	Body   *string   `json:"body,omitempty"`
	State  *string   `json:"state,omitempty"`
	Labels *[]string `json:"labels,omitempty"`
}

type githubLabel struct {
	Name string `json:"name"`
}

type githubIssue struct {
	Number      int           `json:"number"`
	Title       string        `json:"title"`
	Body        string        `json:"body"`
	Labels      []githubLabel `json:"labels"`
	PullRequest *struct{}     `json:"pull_request,omitempty"`
}

func (c *Client) ticket(issue githubIssue) domain.Ticket {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.Name)
	}
	return domain.Ticket{
		Number:   issue.Number,
		Title:    issue.Title,
		Body:     issue.Body,
		Labels:   labels,
		Owner:    c.owner,
		RepoName: c.repo,
	}
}

// ListIssues returns the repository's issues matching filter. Pull requests
// (which GitHub reports through the same endpoint) are skipped.
func (c *Client) ListIssues(ctx context.Context, filter IssueFilter) ([]domain.Ticket, error) {
	query := url.Values{}
	if filter.State != "" {
		query.Set("state", filter.State)
	}
	if len(filter.Labels) > 0 {
		query.Set("labels", strings.Join(filter.Labels, ","))
	}
	if filter.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(filter.PerPage))
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues", c.baseURL, c.owner, c.repo)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, "list issues")
	if err != nil {
		return nil, err
	}

	var issues []githubIssue
	if err := json.Unmarshal(body, &issues); err != nil {
		return nil, autoerrors.NewTicketSourceError("list issues", fmt.Errorf("unmarshal response: %w", err))
	}

	tickets := make([]domain.Ticket, 0, len(issues))
	for _, issue := range issues {
		if issue.PullRequest != nil {
			continue
		}
		tickets = append(tickets, c.ticket(issue))
	}
	return tickets, nil
}

// GetIssue fetches a single issue by number.
func (c *Client) GetIssue(ctx context.Context, number int) (domain.Ticket, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.baseURL, c.owner, c.repo, number)

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, fmt.Sprintf("get issue #%d", number))
	if err != nil {
		return domain.Ticket{}, err
	}

	var issue githubIssue
	if err := json.Unmarshal(body, &issue); err != nil {
		return domain.Ticket{}, autoerrors.NewTicketSourceError("get issue", fmt.Errorf("unmarshal response: %w", err))
	}
	return c.ticket(issue), nil
}

// AddComment posts a comment on an issue.
func (c *Client) AddComment(ctx context.Context, number int, text string) error {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.baseURL, c.owner, c.repo, number)
	payload := map[string]string{"body": text}

	_, err := c.do(ctx, http.MethodPost, endpoint, payload, fmt.Sprintf("comment on issue #%d", number))
	return err
}

// UpdateIssue patches an issue and returns its refreshed state.
func (c *Client) UpdateIssue(ctx context.Context, number int, patch IssuePatch) (domain.Ticket, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.baseURL, c.owner, c.repo, number)

	body, err := c.do(ctx, http.MethodPatch, endpoint, patch, fmt.Sprintf("update issue #%d", number))
	if err != nil {
		return domain.Ticket{}, err
	}

	var issue githubIssue
	if err := json.Unmarshal(body, &issue); err != nil {
		return domain.Ticket{}, autoerrors.NewTicketSourceError("update issue", fmt.Errorf("unmarshal response: %w", err))
	}
	return c.ticket(issue), nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any, op string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return nil, autoerrors.NewTicketSourceError(op, fmt.Errorf("marshal request: %w", err))
		}
		reader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, autoerrors.NewTicketSourceError(op, fmt.Errorf("create request: %w", err))
	}

	httpReq.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, autoerrors.NewTicketSourceError(op, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, autoerrors.NewTicketSourceError(op, fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeTicketNotFound,
			fmt.Sprintf("%s: not found", op), fmt.Errorf("http 404"))
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var ghErr struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &ghErr); err == nil && ghErr.Message != "" {
			return nil, autoerrors.NewTicketSourceError(op, fmt.Errorf("github api: %s (http %d)", ghErr.Message, httpResp.StatusCode))
		}
		return nil, autoerrors.NewTicketSourceError(op, fmt.Errorf("http error %d", httpResp.StatusCode))
	}

	return body, nil
}
