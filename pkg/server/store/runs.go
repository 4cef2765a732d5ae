package store

import (
	"errors"
	"time"

	"github.com/rankwatch/rankwatch/pkg/model"
)

// ErrRunNotFound is returned when a run doesn't exist
var ErrRunNotFound = errors.New("run not found")

// Run represents a collection run with its outcome
type Run struct {
	ID         int64           `json:"id"`
	Trigger    string          `json:"trigger"`
	Status     model.RunStatus `json:"status"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Error      string          `json:"error,omitempty"`
	RowPreview string          `json:"row_preview,omitempty"`
}

// RunsStore abstracts run storage operations
type RunsStore interface {
	// CreateRun records a new run in the running state and returns it with
	// its assigned ID.
	CreateRun(trigger string) (*Run, error)

	// FinishRun records the outcome of a run.
	FinishRun(id int64, status model.RunStatus, errMsg, rowPreview string) error

	// GetRun retrieves a run by ID.
	// Returns ErrRunNotFound if the run doesn't exist.
	GetRun(id int64) (*Run, error)

	// ListRuns returns runs newest-first.
	ListRuns(limit, offset int) ([]Run, error)

	// LatestRun returns the most recently started run.
	// Returns ErrRunNotFound when no run has ever been recorded.
	LatestRun() (*Run, error)
}
