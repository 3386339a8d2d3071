package domain

// Provenance records where a stage result came from so downstream consumers
// (comment posting, caching) can tell real analysis from heuristic analysis.
type Provenance struct {
	SessionID    string `json:"session_id,omitempty"`
	SessionURL   string `json:"session_url,omitempty"`
	UsedFallback bool   `json:"used_fallback"`
}

// ScopeResult is the structured outcome of the scoping stage.
// Complexity is always within [1,10] and ConfidenceScore within [1,100],
// regardless of whether the result came from the remote agent or the
// local heuristic.
type ScopeResult struct {
	Scope           string   `json:"scope"`
	Complexity      int      `json:"complexity"`
	ConfidenceScore int      `json:"confidence_score"`
	Requirements    []string `json:"requirements"`
	Risks           []string `json:"risks"`
	EstimatedTime   string   `json:"estimated_time"`

	Provenance Provenance `json:"provenance"`
}

// ClampBounds forces Complexity into [1,10] and ConfidenceScore into [1,100].
// Remote results parsed out of free text can carry anything; the bounds
// invariant holds regardless of provenance, so callers clamp after parsing.
func (r *ScopeResult) ClampBounds() {
	if r.Complexity < 1 {
		r.Complexity = 1
	}
	if r.Complexity > 10 {
		r.Complexity = 10
	}
	if r.ConfidenceScore < 1 {
		r.ConfidenceScore = 1
	}
	if r.ConfidenceScore > 100 {
		r.ConfidenceScore = 100
	}
}

// PlanResult is the structured outcome of the planning stage.
type PlanResult struct {
	Steps           []string `json:"steps"`
	FilesToCreate   []string `json:"files_to_create"`
	FilesToModify   []string `json:"files_to_modify"`
	TestingStrategy string   `json:"testing_strategy"`
	Dependencies    []string `json:"dependencies"`
	SuccessCriteria []string `json:"success_criteria"`

	Provenance Provenance `json:"provenance"`
}

// ExecutionHandle identifies a fire-and-forget execution session. Execution
// sessions are long-running and are not waited on; no lifecycle tracking
// exists beyond issuance.
type ExecutionHandle struct {
	SessionID  string `json:"session_id"`
	SessionURL string `json:"session_url"`
	Status     string `json:"status"`
}

// ExecutionStarted is the only status an ExecutionHandle ever carries.
const ExecutionStarted = "started"
