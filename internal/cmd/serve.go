package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/config"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/log"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/server"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored triage results over HTTP",
	Long: `Serve exposes the result store as a small read-only JSON API:

  GET /healthz
  GET /api/results?limit=N
  GET /api/tickets/{owner}/{repo}/{number}

The server drains connections gracefully on SIGINT/SIGTERM.

Examples:
  triage serve
  triage serve --addr :9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
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

	repo, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.WithError(err).Warn("close result store")
		}
	}()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(repo, logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	ctx := cmd.Context()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	// A fresh context: the signal context is already cancelled.
	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	<-errCh
	return nil
}
