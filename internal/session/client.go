package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
)

// DefaultBaseURL is the production agent API endpoint.
const DefaultBaseURL = "https://api.agent.example.com/v1"

// Config configures the session API client. The bearer credential is passed
// in explicitly; the client never reads process environment itself.
type Config struct {
	// BaseURL of the agent API. Defaults to DefaultBaseURL.
	BaseURL string

	// Token is the bearer credential. May be empty: the client constructs
	// fine without one so callers can run in fallback-only mode, but every
	// request will be refused by the server.
	Token string

	// Timeout for a single HTTP request. Defaults to 30 seconds.
	Timeout time.Duration
}

// Client is a thin HTTP binding for the agent session endpoints. It is
// stateless per call and safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a session API client.
func NewClient(cfg Config) *Client {
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
		client:  &http.Client{Timeout: timeout},
	}
}

// Available reports whether the client holds a credential. Without one
// scope and plan run in fallback-only mode and execute must refuse.
func (c *Client) Available() bool {
	return c.token != ""
}

type createRequest struct {
	Prompt       string        `json:"prompt"`
	Tags         []string      `json:"tags,omitempty"`
	OutputSchema *OutputSchema `json:"output_schema,omitempty"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession starts a new remote session seeded with prompt.
func (c *Client) CreateSession(ctx context.Context, prompt string, opts CreateOptions) (*Session, error) {
	body := createRequest{
		Prompt:       prompt,
		Tags:         opts.Tags,
		OutputSchema: opts.OutputSchema,
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/sessions", body, "create session")
}

// GetSession fetches the current state of an existing session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("%s/sessions/%s", c.baseURL, sessionID), nil, "get session")
}

// SendMessage appends a user message to an existing session and returns the
// refreshed session state.
func (c *Client) SendMessage(ctx context.Context, sessionID string, text string) (*Session, error) {
	body := messageRequest{Message: text}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%s/sessions/%s/messages", c.baseURL, sessionID), body, "send message")
}

func (c *Client) do(ctx context.Context, method, url string, body any, op string) (*Session, error) {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return nil, autoerrors.NewTransportError(op, fmt.Errorf("marshal request: %w", err))
		}
		reader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, autoerrors.NewTransportError(op, fmt.Errorf("create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, autoerrors.NewTransportError(op, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, autoerrors.NewTransportError(op, fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		var errResp apiError
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, autoerrors.NewTransportError(op, fmt.Errorf("agent api: %s", errResp.Error.Message))
		}
		return nil, autoerrors.NewTransportError(op, fmt.Errorf("http error %d: %s", httpResp.StatusCode, string(respBody)))
	}

	var sess Session
	if err := json.Unmarshal(respBody, &sess); err != nil {
		return nil, autoerrors.NewTransportError(op, fmt.Errorf("unmarshal response: %w", err))
	}
	if sess.SessionID == "" {
		return nil, autoerrors.NewTransportError(op, fmt.Errorf("response missing session_id"))
	}

	return &sess, nil
}
