package cmd

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/store"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/workflow"
)

var planPostComment bool

var planCmd = &cobra.Command{
	Use:   "plan <issue-number>",
	Short: "Produce an implementation plan for an issue",
	Long: `Plan runs the second triage stage. It reuses the scope result stored
for the issue (running the scope stage first if none exists), then asks the
agent for an implementation plan. When the scope came from a still-open
agent session, the plan continues that session so the agent keeps its
context; otherwise a fresh session is created.

Agent trouble degrades to a generic local plan; provenance records which
path produced the result.

Examples:
  triage plan 42
  triage plan 42 --comment`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planPostComment, "comment", false, "post the result as an issue comment")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	logger := a.logger.With("ticket", ticket.Ref(), "stage", "plan")
	onStatus := func(status session.Status) {
		logger.Debug("session status", "status", string(status))
	}

	scope, err := loadOrScope(ctx, a, ticket, onStatus)
	if err != nil {
		return err
	}

	plan := a.coordinator.Plan(ctx, ticket, scope, onStatus)

	a.persist(ctx, func(ctx context.Context) error {
		return a.repo.Put(ctx, ticket, store.StagePlan, plan, plan.Provenance)
	}, "plan")

	if planPostComment {
		if err := a.github.AddComment(ctx, number, workflow.PlanComment(plan)); err != nil {
			return err
		}
		logger.Info("posted plan comment")
	}

	return printResult(cmd.OutOrStdout(), plan, func() string {
		return workflow.PlanComment(plan)
	})
}

// loadOrScope returns the stored scope result for the ticket, running the
// scope stage when nothing is stored yet.
func loadOrScope(ctx context.Context, a *app, ticket domain.Ticket, onStatus func(session.Status)) (domain.ScopeResult, error) {
	rec, err := a.repo.Get(ctx, ticket, store.StageScope)
	if err != nil {
		return domain.ScopeResult{}, err
	}
	if rec != nil {
		var scope domain.ScopeResult
		if err := json.Unmarshal(rec.Payload, &scope); err == nil {
			a.logger.Debug("reusing stored scope result", "ticket", ticket.Ref())
			return scope, nil
		}
		// Unreadable stored payload: fall through and re-scope.
	}

	scope := a.coordinator.Scope(ctx, ticket, onStatus)
	a.persist(ctx, func(ctx context.Context) error {
		return a.repo.Put(ctx, ticket, store.StageScope, scope, scope.Provenance)
	}, "scope")
	return scope, nil
}
