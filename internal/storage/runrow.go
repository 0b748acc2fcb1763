package storage

import "time"

// RunRow is a lightweight listing row for /runs.
type RunRow struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Sources      string    `json:"sources,omitempty"`
	ModelVersion string    `json:"model_version,omitempty"`
	Classes      int       `json:"classes"`
	Findings     int       `json:"findings"`
}
