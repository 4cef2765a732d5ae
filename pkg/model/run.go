package model

import "time"

// Run triggers.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// Run is one execution of the collection pipeline.
type Run struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	Trigger    string     `json:"trigger"`
	Status     RunStatus  `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
	RowPreview string     `gorm:"column:row_preview" json:"row_preview,omitempty"`
}

func (r Run) TableName() string {
	return "runs"
}

// Duration returns the wall time of a finished run, or zero while it is
// still going.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
