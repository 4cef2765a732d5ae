package model

import (
	"encoding/json"
	"time"
)

// RankingRow holds the columns collected for a single target during a run.
// Cells is stored as a JSON array in a text column so the column count can
// differ per target without schema churn.
type RankingRow struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	RunID      int64     `gorm:"column:run_id" json:"run_id"`
	TargetSlug string    `gorm:"column:target_slug" json:"target_slug"`
	RecordedAt time.Time `gorm:"column:recorded_at" json:"recorded_at"`
	Cells      string    `gorm:"column:cells" json:"-"`
	Appended   bool      `json:"appended"`
}

func (r RankingRow) TableName() string {
	return "ranking_rows"
}

// SetCells stores cells as the row's JSON payload.
func (r *RankingRow) SetCells(cells []string) error {
	b, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	r.Cells = string(b)
	return nil
}

// CellValues decodes the row's JSON payload back into its cells.
func (r *RankingRow) CellValues() ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(r.Cells), &cells); err != nil {
		return nil, err
	}
	return cells, nil
}
