package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/rankwatch/rankwatch/pkg/model"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

// Ensure RunsStore implements store.RunsStore
var _ store.RunsStore = (*RunsStore)(nil)

// RunsStore implements store.RunsStore using GORM
type RunsStore struct {
	db *gorm.DB
}

// NewRunsStore creates a new RunsStore
func NewRunsStore(db *gorm.DB) *RunsStore {
	return &RunsStore{db: db}
}

// CreateRun records a new run in the running state
func (s *RunsStore) CreateRun(trigger string) (*store.Run, error) {
	run := model.Run{
		Trigger:   trigger,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, err
	}
	return toStoreRun(&run), nil
}

// FinishRun records the outcome of a run
func (s *RunsStore) FinishRun(id int64, status model.RunStatus, errMsg, rowPreview string) error {
	now := time.Now().UTC()
	return s.db.Model(&model.Run{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      int(status),
		"finished_at": &now,
		"error":       errMsg,
		"row_preview": rowPreview,
	}).Error
}

// GetRun retrieves a run by ID
func (s *RunsStore) GetRun(id int64) (*store.Run, error) {
	var run model.Run
	tx := s.db.Where("id = ?", id).First(&run)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrRunNotFound
		}
		return nil, tx.Error
	}
	return toStoreRun(&run), nil
}

// ListRuns returns runs newest-first
func (s *RunsStore) ListRuns(limit, offset int) ([]store.Run, error) {
	var runs []model.Run
	query := s.db.Order("started_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}

	result := make([]store.Run, 0, len(runs))
	for i := range runs {
		result = append(result, *toStoreRun(&runs[i]))
	}
	return result, nil
}

// LatestRun returns the most recently started run
func (s *RunsStore) LatestRun() (*store.Run, error) {
	var run model.Run
	tx := s.db.Order("started_at desc").First(&run)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrRunNotFound
		}
		return nil, tx.Error
	}
	return toStoreRun(&run), nil
}

func toStoreRun(run *model.Run) *store.Run {
	return &store.Run{
		ID:         run.ID,
		Trigger:    run.Trigger,
		Status:     run.Status,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      run.Error,
		RowPreview: run.RowPreview,
	}
}
