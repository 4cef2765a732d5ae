package store

import "time"

// Row represents the cells collected for one target during a run
type Row struct {
	ID         int64     `json:"id"`
	RunID      int64     `json:"run_id"`
	TargetSlug string    `json:"target_slug"`
	RecordedAt time.Time `json:"recorded_at"`
	Cells      []string  `json:"cells"`
	Appended   bool      `json:"appended"`
}

// RowsStore abstracts ranking row storage operations
type RowsStore interface {
	// CreateRow persists a collected row and assigns its ID.
	CreateRow(row *Row) error

	// MarkAppended flags all rows of a run as appended to the sheet.
	MarkAppended(runID int64) error

	// ListRowsByRun returns the rows collected during a run, in target order.
	ListRowsByRun(runID int64) ([]Row, error)

	// ListRows returns all collected rows ordered by recording time, for
	// export.
	ListRows() ([]Row, error)
}
