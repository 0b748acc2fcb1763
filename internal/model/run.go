package model

import "time"

// Run is one checking run over a set of discovered classes.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Sources      []string  `json:"sources,omitempty"`
	ModelVersion string    `json:"model_version,omitempty"`

	Context  Context        `json:"context"`
	Classes  []ClassSummary `json:"classes"`
	Skipped  []string       `json:"skipped,omitempty"`
	Findings []Finding      `json:"findings,omitempty"`
	Waived   int            `json:"waived,omitempty"`
}

type Context struct {
	Parallelism          int      `json:"parallelism,omitempty"`
	FailWhenPathNotExist bool     `json:"fail_when_path_not_exist"`
	DisabledRules        []string `json:"disabled_rules,omitempty"`
}

// ClassSummary records what the engine resolved for one class.
type ClassSummary struct {
	Name          TypeRef               `json:"name"`
	AncestorChain []TypeRef             `json:"ancestor_chain"`
	Active        map[MarkerKind]string `json:"active,omitempty"`
	Findings      int                   `json:"findings"`
}

// Passed reports whether the run produced no findings.
func (r *Run) Passed() bool { return len(r.Findings) == 0 }
