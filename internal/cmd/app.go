package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/config"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/log"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/store"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/tickets"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/workflow"
)

// app bundles the wired collaborators a command needs.
type app struct {
	cfg         *config.Config
	logger      *log.Logger
	coordinator *workflow.Coordinator
	github      *tickets.Client
	repo        store.Repository
}

// buildApp loads configuration and constructs the clients, coordinator
// and result store. Callers must Close() it.
func buildApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logger := log.New(log.Config{
		Level:  cfg.Log.Level,
		Format: log.Format(cfg.Log.Format),
	})

	agent := session.NewClient(session.Config{
		BaseURL: cfg.Agent.BaseURL,
		Token:   cfg.Agent.Token,
		Timeout: cfg.Agent.RequestTimeout(),
	})

	github, err := tickets.NewClient(tickets.Config{
		BaseURL: cfg.GitHub.BaseURL,
		Token:   cfg.GitHub.Token,
		Owner:   cfg.GitHub.Owner,
		Repo:    cfg.GitHub.Repo,
		Timeout: cfg.GitHub.RequestTimeout(),
	})
	if err != nil {
		return nil, err
	}

	repo, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		coordinator: workflow.New(agent),
		github:      github,
		repo:        repo,
	}, nil
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		a.logger.WithError(err).Warn("close result store")
	}
}

// persist stores a stage result, logging instead of failing the command
// when the write does not succeed. Persistence is bookkeeping, not part
// of the triage contract.
func (a *app) persist(ctx context.Context, put func(context.Context) error, stage string) {
	if err := put(ctx); err != nil {
		a.logger.WithError(err).Warn("persist stage result", "stage", stage)
	}
}

// printResult renders a result either as indented JSON or via the given
// text renderer.
func printResult(w io.Writer, result any, text func() string) error {
	if jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}
	fmt.Fprintln(w, text())
	return nil
}
