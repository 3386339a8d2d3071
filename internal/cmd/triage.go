package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/store"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/tickets"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/workflow"
)

var (
	triageLabels  []string
	triageLimit   int
	triageComment bool
)

var triageRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Scope and plan every matching open issue",
	Long: `Run walks the repository's open issues and performs the scope and plan
stages for each one. Failures on a single issue are logged and the walk
continues; agent trouble degrades each stage to the local heuristic.

Execution is never started by this command. Review the plans first, then
start individual executions with 'triage execute'.

Examples:
  triage run
  triage run --label bug --limit 10 --comment`,
	RunE: runTriage,
}

func init() {
	triageRunCmd.Flags().StringSliceVar(&triageLabels, "label", nil, "only issues carrying all of these labels")
	triageRunCmd.Flags().IntVar(&triageLimit, "limit", 10, "maximum number of issues to triage")
	triageRunCmd.Flags().BoolVar(&triageComment, "comment", false, "post results as issue comments")
	rootCmd.AddCommand(triageRunCmd)
}

func runTriage(cmd *cobra.Command, args []string) error {
	if triageLimit < 1 {
		return usageErrorf("--limit must be a positive integer, got %d", triageLimit)
	}

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	issues, err := a.github.ListIssues(ctx, tickets.IssueFilter{
		State:   "open",
		Labels:  triageLabels,
		PerPage: triageLimit,
	})
	if err != nil {
		return err
	}
	if len(issues) > triageLimit {
		issues = issues[:triageLimit]
	}
	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching open issues.")
		return nil
	}

	a.logger.Info("triaging issues", "count", len(issues))

	for _, ticket := range issues {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := triageOne(ctx, a, ticket); err != nil {
			// One bad issue must not stop the walk.
			a.logger.WithError(err).Warn("triage failed", "ticket", ticket.Ref())
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "triaged %s\n", ticket.Ref())
	}

	return nil
}

func triageOne(ctx context.Context, a *app, ticket domain.Ticket) error {
	logger := a.logger.With("ticket", ticket.Ref())
	onStatus := func(status session.Status) {
		logger.Debug("session status", "status", string(status))
	}

	scope := a.coordinator.Scope(ctx, ticket, onStatus)
	a.persist(ctx, func(ctx context.Context) error {
		return a.repo.Put(ctx, ticket, store.StageScope, scope, scope.Provenance)
	}, "scope")

	plan := a.coordinator.Plan(ctx, ticket, scope, onStatus)
	a.persist(ctx, func(ctx context.Context) error {
		return a.repo.Put(ctx, ticket, store.StagePlan, plan, plan.Provenance)
	}, "plan")

	if triageComment {
		if err := a.github.AddComment(ctx, ticket.Number, workflow.ScopeComment(scope)); err != nil {
			return err
		}
		if err := a.github.AddComment(ctx, ticket.Number, workflow.PlanComment(plan)); err != nil {
			return err
		}
	}

	return nil
}
