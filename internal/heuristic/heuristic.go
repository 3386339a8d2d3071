// Package heuristic computes deterministic triage estimates from ticket
// metadata alone. It is the safety net of the resolution chain: no network,
// no clock, no randomness, and it never fails.
package heuristic

import (
	"fmt"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
)

const (
	baseComplexity     = 3
	longBodyThreshold  = 1000
	manyLabelThreshold = 3
	minComplexity      = 1
	maxComplexity      = 10
	minConfidence      = 20
)

// Score derives a ScopeResult from ticket shape only. Two calls with an
// identical ticket produce identical output.
func Score(ticket domain.Ticket) domain.ScopeResult {
	complexity := baseComplexity

	if len(ticket.Body) > longBodyThreshold {
		complexity += 2
	}
	if len(ticket.Labels) > manyLabelThreshold {
		complexity++
	}
	if ticket.HasLabel("bug") {
		complexity--
	}
	if ticket.HasLabel("enhancement") {
		complexity++
	}
	if ticket.HasLabel("complex") {
		complexity += 3
	}

	if complexity < minComplexity {
		complexity = minComplexity
	}
	if complexity > maxComplexity {
		complexity = maxComplexity
	}

	confidence := 100 - complexity*8
	if confidence < minConfidence {
		confidence = minConfidence
	}

	return domain.ScopeResult{
		Scope:           fmt.Sprintf("Heuristic scope analysis for issue #%d: %s", ticket.Number, ticket.Title),
		Complexity:      complexity,
		ConfidenceScore: confidence,
		Requirements: []string{
			fmt.Sprintf("Reproduce and confirm the behavior described in issue #%d", ticket.Number),
			"Identify the affected components and their owners",
			"Define acceptance criteria with the issue reporter",
		},
		Risks: []string{
			"Estimate derived from ticket metadata only, not code inspection",
			"Hidden coupling may surface once implementation starts",
		},
		EstimatedTime: fmt.Sprintf("%d hours", complexity*2),
		Provenance:    domain.Provenance{UsedFallback: true},
	}
}

// PlanFallback produces a generic implementation plan when the remote agent
// is unavailable. It depends on the scope result only for provenance; the
// steps are a fixed template.
func PlanFallback(ticket domain.Ticket, scope domain.ScopeResult) domain.PlanResult {
	return domain.PlanResult{
		Steps: []string{
			fmt.Sprintf("Review issue #%d and the scope analysis", ticket.Number),
			"Reproduce the current behavior locally",
			"Implement the change behind existing interfaces",
			"Add or update unit tests covering the change",
			"Run the full test suite and fix regressions",
			"Open a pull request referencing the issue",
		},
		FilesToCreate:   []string{},
		FilesToModify:   []string{},
		TestingStrategy: "Unit tests for changed code paths plus a manual verification of the reported scenario",
		Dependencies:    []string{},
		SuccessCriteria: []string{
			fmt.Sprintf("Issue #%d is resolved and verified by the reporter", ticket.Number),
			"No test regressions",
		},
		Provenance: domain.Provenance{UsedFallback: true},
	}
}
