package gorm

import (
	"gorm.io/gorm"

	"github.com/rankwatch/rankwatch/pkg/model"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

// Ensure RowsStore implements store.RowsStore
var _ store.RowsStore = (*RowsStore)(nil)

// RowsStore implements store.RowsStore using GORM
type RowsStore struct {
	db *gorm.DB
}

// NewRowsStore creates a new RowsStore
func NewRowsStore(db *gorm.DB) *RowsStore {
	return &RowsStore{db: db}
}

// CreateRow persists a collected row
func (s *RowsStore) CreateRow(row *store.Row) error {
	record := model.RankingRow{
		RunID:      row.RunID,
		TargetSlug: row.TargetSlug,
		RecordedAt: row.RecordedAt,
		Appended:   row.Appended,
	}
	if err := record.SetCells(row.Cells); err != nil {
		return err
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	row.ID = record.ID
	return nil
}

// MarkAppended flags all rows of a run as appended to the sheet
func (s *RowsStore) MarkAppended(runID int64) error {
	return s.db.Model(&model.RankingRow{}).Where("run_id = ?", runID).Update("appended", true).Error
}

// ListRowsByRun returns the rows collected during a run
func (s *RowsStore) ListRowsByRun(runID int64) ([]store.Row, error) {
	var records []model.RankingRow
	if err := s.db.Where("run_id = ?", runID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toStoreRows(records)
}

// ListRows returns all collected rows ordered by recording time
func (s *RowsStore) ListRows() ([]store.Row, error) {
	var records []model.RankingRow
	if err := s.db.Order("recorded_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toStoreRows(records)
}

func toStoreRows(records []model.RankingRow) ([]store.Row, error) {
	rows := make([]store.Row, 0, len(records))
	for i := range records {
		cells, err := records[i].CellValues()
		if err != nil {
			return nil, err
		}
		rows = append(rows, store.Row{
			ID:         records[i].ID,
			RunID:      records[i].RunID,
			TargetSlug: records[i].TargetSlug,
			RecordedAt: records[i].RecordedAt,
			Cells:      cells,
			Appended:   records[i].Appended,
		})
	}
	return rows, nil
}
