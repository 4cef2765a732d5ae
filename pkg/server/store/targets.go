package store

import "errors"

// ErrTargetNotFound is returned when a target doesn't exist
var ErrTargetNotFound = errors.New("target not found")

// Target represents a watched product page
type Target struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	Columns  int    `json:"columns"`
	Position int    `json:"position"`
	Enabled  bool   `json:"enabled"`
}

// TargetsStore abstracts target storage operations
type TargetsStore interface {
	// UpsertTarget inserts the target or updates the existing row with the
	// same slug.
	UpsertTarget(target *Target) error

	// ListTargets returns all targets in position order.
	ListTargets() ([]Target, error)

	// ListEnabledTargets returns enabled targets in position order.
	ListEnabledTargets() ([]Target, error)

	// GetTarget retrieves a target by slug.
	// Returns ErrTargetNotFound if it doesn't exist.
	GetTarget(slug string) (*Target, error)

	// SetEnabled toggles collection for a target.
	SetEnabled(slug string, enabled bool) error
}
