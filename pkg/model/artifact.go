package model

import "time"

// Artifact is the metadata of a file captured during a run. The bytes live
// under the artifact directory, keyed by run ID and name.
type Artifact struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	RunID       int64     `gorm:"column:run_id;uniqueIndex:idx_artifacts_run_name" json:"run_id"`
	Name        string    `gorm:"uniqueIndex:idx_artifacts_run_name" json:"name"`
	ContentType string    `gorm:"column:content_type" json:"content_type"`
	SizeBytes   int64     `gorm:"column:size_bytes" json:"size_bytes"`
	Path        string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a Artifact) TableName() string {
	return "artifacts"
}
