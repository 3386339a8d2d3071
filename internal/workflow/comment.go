package workflow

import (
	"fmt"
	"strings"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
)

// ScopeComment renders a scope result as a markdown issue comment, including
// enough provenance for readers to tell real analysis from heuristic
// analysis.
func ScopeComment(scope domain.ScopeResult) string {
	var b strings.Builder
	b.WriteString("## Scope Analysis\n\n")
	fmt.Fprintf(&b, "%s\n\n", scope.Scope)
	fmt.Fprintf(&b, "| Complexity | Confidence | Estimate |\n|---|---|---|\n| %d/10 | %d%% | %s |\n\n",
		scope.Complexity, scope.ConfidenceScore, scope.EstimatedTime)

	if len(scope.Requirements) > 0 {
		b.WriteString("**Requirements**\n")
		writeList(&b, scope.Requirements)
	}
	if len(scope.Risks) > 0 {
		b.WriteString("**Risks**\n")
		writeList(&b, scope.Risks)
	}

	writeProvenance(&b, scope.Provenance)
	return b.String()
}

// PlanComment renders a plan result as a markdown issue comment.
func PlanComment(plan domain.PlanResult) string {
	var b strings.Builder
	b.WriteString("## Implementation Plan\n\n")

	for i, step := range plan.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\n")

	if len(plan.FilesToCreate) > 0 {
		b.WriteString("**Files to create**\n")
		writeList(&b, plan.FilesToCreate)
	}
	if len(plan.FilesToModify) > 0 {
		b.WriteString("**Files to modify**\n")
		writeList(&b, plan.FilesToModify)
	}
	if plan.TestingStrategy != "" {
		fmt.Fprintf(&b, "**Testing strategy**: %s\n\n", plan.TestingStrategy)
	}
	if len(plan.SuccessCriteria) > 0 {
		b.WriteString("**Success criteria**\n")
		writeList(&b, plan.SuccessCriteria)
	}

	writeProvenance(&b, plan.Provenance)
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeProvenance(b *strings.Builder, p domain.Provenance) {
	if p.UsedFallback {
		b.WriteString("_Generated by local heuristic (agent service unavailable or response unusable)._\n")
	} else {
		b.WriteString("_Generated by remote agent analysis._\n")
	}
	if p.SessionURL != "" {
		fmt.Fprintf(b, "_Session: %s_\n", p.SessionURL)
	}
}
