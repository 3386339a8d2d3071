package workflow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
)

var scopeSchema = &session.OutputSchema{
	Name: "scope_result",
	Fields: []session.SchemaField{
		{Name: "scope", Type: session.FieldString, Required: true},
		{Name: "complexity", Type: session.FieldInt, Required: true},
		{Name: "confidence_score", Type: session.FieldInt, Required: true},
		{Name: "requirements", Type: session.FieldStringList, Required: true},
		{Name: "risks", Type: session.FieldStringList, Required: true},
		{Name: "estimated_time", Type: session.FieldString, Required: true},
	},
}

var planSchema = &session.OutputSchema{
	Name: "plan_result",
	Fields: []session.SchemaField{
		{Name: "steps", Type: session.FieldStringList, Required: true},
		{Name: "files_to_create", Type: session.FieldStringList, Required: false},
		{Name: "files_to_modify", Type: session.FieldStringList, Required: false},
		{Name: "testing_strategy", Type: session.FieldString, Required: true},
		{Name: "dependencies", Type: session.FieldStringList, Required: false},
		{Name: "success_criteria", Type: session.FieldStringList, Required: true},
	},
}

// stageTags builds the observability tags for a stage session. The short
// request id correlates dashboard entries with agent-side session logs.
func stageTags(ticket domain.Ticket, stage string) []string {
	return []string{
		"issue-triage",
		stage,
		fmt.Sprintf("issue-%d", ticket.Number),
		"req-" + uuid.NewString()[:8],
	}
}

func ticketContext(ticket domain.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s/%s\n", ticket.Owner, ticket.RepoName)
	fmt.Fprintf(&b, "Issue #%d: %s\n", ticket.Number, ticket.Title)
	if len(ticket.Labels) > 0 {
		fmt.Fprintf(&b, "Labels: %s\n", strings.Join(ticket.Labels, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n", ticket.Body)
	return b.String()
}

func scopePrompt(ticket domain.Ticket) string {
	var b strings.Builder
	b.WriteString("Analyze the following issue and produce a scope assessment.\n\n")
	b.WriteString(ticketContext(ticket))
	b.WriteString("\nRespond with a single JSON object containing: scope (string), ")
	b.WriteString("complexity (integer 1-10), confidence_score (integer 1-100), ")
	b.WriteString("requirements (list of strings), risks (list of strings), ")
	b.WriteString("estimated_time (string such as \"6 hours\").\n")
	return b.String()
}

func scopeContext(scope domain.ScopeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scope: %s\n", scope.Scope)
	fmt.Fprintf(&b, "Complexity: %d/10, confidence %d/100, estimate %s\n",
		scope.Complexity, scope.ConfidenceScore, scope.EstimatedTime)
	if len(scope.Requirements) > 0 {
		fmt.Fprintf(&b, "Requirements:\n- %s\n", strings.Join(scope.Requirements, "\n- "))
	}
	if len(scope.Risks) > 0 {
		fmt.Fprintf(&b, "Risks:\n- %s\n", strings.Join(scope.Risks, "\n- "))
	}
	return b.String()
}

// planFollowupPrompt continues an existing scope session, so it omits the
// ticket context the agent already has.
func planFollowupPrompt(scope domain.ScopeResult) string {
	var b strings.Builder
	b.WriteString("Based on your scope assessment, produce an implementation plan.\n\n")
	b.WriteString("Respond with a single JSON object containing: steps (list of strings), ")
	b.WriteString("files_to_create (list of paths), files_to_modify (list of paths), ")
	b.WriteString("testing_strategy (string), dependencies (list of strings), ")
	b.WriteString("success_criteria (list of strings).\n")
	return b.String()
}

// planPrompt starts a fresh planning session with full ticket and scope
// context embedded.
func planPrompt(ticket domain.Ticket, scope domain.ScopeResult) string {
	var b strings.Builder
	b.WriteString("Produce an implementation plan for the following issue.\n\n")
	b.WriteString(ticketContext(ticket))
	b.WriteString("\nScope assessment:\n")
	b.WriteString(scopeContext(scope))
	b.WriteString("\n")
	b.WriteString(planFollowupPrompt(scope))
	return b.String()
}

func executePrompt(ticket domain.Ticket, plan domain.PlanResult) string {
	var b strings.Builder
	b.WriteString("Execute the following implementation plan.\n\n")
	b.WriteString(ticketContext(ticket))
	b.WriteString("\nSteps:\n")
	for i, step := range plan.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	if plan.TestingStrategy != "" {
		fmt.Fprintf(&b, "\nTesting strategy: %s\n", plan.TestingStrategy)
	}
	if len(plan.SuccessCriteria) > 0 {
		fmt.Fprintf(&b, "\nSuccess criteria:\n- %s\n", strings.Join(plan.SuccessCriteria, "\n- "))
	}
	b.WriteString("\nWork through the steps in order and open a pull request when done.\n")
	return b.String()
}
