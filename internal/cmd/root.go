// Package cmd implements the triage CLI commands.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	jsonOut   bool
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "AI-assisted GitHub issue triage",
	Long: `triage drives a remote AI agent service through a three-stage issue
workflow: scope an issue, plan the work, and kick off execution.

Every stage degrades gracefully: when the agent is unreachable or returns
output that cannot be parsed, scoping and planning fall back to a local
heuristic so the workflow always completes. Results carry provenance that
says which path produced them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, env vars expanded)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit results as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (json, text)")
}
