package store

import (
	"errors"
	"time"
)

// ErrArtifactNotFound is returned when an artifact doesn't exist
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact represents metadata of a file captured during a run
type Artifact struct {
	ID          int64     `json:"id"`
	RunID       int64     `json:"run_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Path        string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArtifactsStore abstracts artifact metadata storage operations
type ArtifactsStore interface {
	// CreateArtifact persists artifact metadata and assigns its ID.
	CreateArtifact(artifact *Artifact) error

	// ListArtifactsByRun returns the artifacts captured during a run.
	ListArtifactsByRun(runID int64) ([]Artifact, error)

	// GetArtifact retrieves one artifact of a run by name.
	// Returns ErrArtifactNotFound if it doesn't exist.
	GetArtifact(runID int64, name string) (*Artifact, error)
}
