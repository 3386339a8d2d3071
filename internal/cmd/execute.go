package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/store"
)

var executeCmd = &cobra.Command{
	Use:   "execute <issue-number>",
	Short: "Start agent execution of an issue's plan",
	Long: `Execute runs the third triage stage: it hands the stored plan to the
agent and starts a fire-and-forget execution session. The session is not
waited on; the command prints the session URL and returns immediately.

Unlike scope and plan, execute has no heuristic fallback. It fails when no
plan exists for the issue or when the agent cannot be reached.

Examples:
  triage execute 42`,
	Args: cobra.ExactArgs(1),
	RunE: runExecute,
}

func init() {
	rootCmd.AddCommand(executeCmd)
}

func runExecute(cmd *cobra.Command, args []string) error {
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

	rec, err := a.repo.Get(ctx, ticket, store.StagePlan)
	if err != nil {
		return err
	}
	if rec == nil {
		return autoerrors.NewPreconditionError(
			fmt.Sprintf("no plan stored for %s; run 'triage plan %d' first", ticket.Ref(), number))
	}

	var plan domain.PlanResult
	if err := json.Unmarshal(rec.Payload, &plan); err != nil {
		return autoerrors.NewParseError("stored plan payload is unreadable", err)
	}

	handle, err := a.coordinator.Execute(ctx, ticket, plan)
	if err != nil {
		return err
	}

	a.persist(ctx, func(ctx context.Context) error {
		return a.repo.Put(ctx, ticket, store.StageExecute, handle, domain.Provenance{
			SessionID:  handle.SessionID,
			SessionURL: handle.SessionURL,
		})
	}, "execute")

	a.logger.Info("execution started",
		"ticket", ticket.Ref(),
		"session_id", handle.SessionID,
		"session_url", handle.SessionURL)

	return printResult(cmd.OutOrStdout(), handle, func() string {
		return fmt.Sprintf("Execution started for %s\nSession: %s", ticket.Ref(), handle.SessionURL)
	})
}
