package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/store"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/tickets"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/workflow"
)

var (
	scopePostComment bool
	scopeApplyLabel  bool
)

var scopeCmd = &cobra.Command{
	Use:   "scope <issue-number>",
	Short: "Analyze an issue's scope and complexity",
	Long: `Scope runs the first triage stage: the remote agent reads the issue
and estimates scope, complexity (1-10) and confidence (1-100).

When the agent is unavailable or its output cannot be parsed, a local
heuristic produces the estimate instead; the result's provenance says
which one happened. This command never fails on agent trouble.

Examples:
  triage scope 42
  triage scope 42 --comment
  triage scope 42 --apply-label
  triage scope 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScope,
}

func init() {
	scopeCmd.Flags().BoolVar(&scopePostComment, "comment", false, "post the result as an issue comment")
	scopeCmd.Flags().BoolVar(&scopeApplyLabel, "apply-label", false, "set a complexity/N label on the issue")
	rootCmd.AddCommand(scopeCmd)
}

func runScope(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil || number < 1 {
		return usageErrorf("issue number must be a positive integer, got %q", args[0])
	}

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	ticket, err := a.github.GetIssue(ctx, number)
	if err != nil {
		return err
	}

	logger := a.logger.With("ticket", ticket.Ref(), "stage", "scope")
	scope := a.coordinator.Scope(ctx, ticket, func(status session.Status) {
		logger.Debug("session status", "status", string(status))
	})

	a.persist(ctx, func(ctx context.Context) error {
		return a.repo.Put(ctx, ticket, store.StageScope, scope, scope.Provenance)
	}, "scope")

	if scopePostComment {
		if err := a.github.AddComment(ctx, number, workflow.ScopeComment(scope)); err != nil {
			return err
		}
		logger.Info("posted scope comment")
	}

	if scopeApplyLabel {
		labels := complexityLabels(ticket.Labels, scope.Complexity)
		if _, err := a.github.UpdateIssue(ctx, number, tickets.IssuePatch{Labels: &labels}); err != nil {
			return err
		}
		logger.Info("applied complexity label", "complexity", scope.Complexity)
	}

	return printResult(cmd.OutOrStdout(), scope, func() string {
		return workflow.ScopeComment(scope)
	})
}

// complexityLabels returns the issue's labels with any previous complexity/N
// label replaced by the one matching the new estimate.
func complexityLabels(existing []string, complexity int) []string {
	labels := make([]string, 0, len(existing)+1)
	for _, l := range existing {
		if strings.HasPrefix(l, "complexity/") {
			continue
		}
		labels = append(labels, l)
	}
	return append(labels, fmt.Sprintf("complexity/%d", complexity))
}
