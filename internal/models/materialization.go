// Package models defines the records tempura persists.
package models

import "time"

// MaterializationStatus is the outcome of a create run.
type MaterializationStatus string

const (
	MaterializationSucceeded MaterializationStatus = "succeeded"
	MaterializationFailed    MaterializationStatus = "failed"
)

// Materialization records one template materialization.
type Materialization struct {
	// ID matches the materializer result ID when the run succeeded.
	ID string `json:"id"`

	Template    string `json:"template"`
	Destination string `json:"destination"`

	Status MaterializationStatus `json:"status"`

	// FileCount is the number of files written.
	FileCount int `json:"file_count"`

	// ErrorKind and Error are set for failed runs.
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`

	// Variables are the substitutions supplied by the caller.
	Variables map[string]string `json:"variables,omitempty"`

	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}
