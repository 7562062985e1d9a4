package storage

import "time"

// RunRow is a lightweight listing row for /runs.
type RunRow struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	Version   string    `json:"version,omitempty"`
	UseCases  int       `json:"use_cases"`
}
