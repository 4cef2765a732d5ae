package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rankwatch/rankwatch/pkg/model"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

// Ensure TargetsStore implements store.TargetsStore
var _ store.TargetsStore = (*TargetsStore)(nil)

// TargetsStore implements store.TargetsStore using GORM
type TargetsStore struct {
	db *gorm.DB
}

// NewTargetsStore creates a new TargetsStore
func NewTargetsStore(db *gorm.DB) *TargetsStore {
	return &TargetsStore{db: db}
}

// UpsertTarget inserts the target or updates the existing row with the same slug
func (s *TargetsStore) UpsertTarget(target *store.Target) error {
	record := model.Target{
		Slug:     target.Slug,
		Name:     target.Name,
		URL:      target.URL,
		Kind:     target.Kind,
		Columns:  target.Columns,
		Position: target.Position,
		Enabled:  target.Enabled,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "url", "kind", "columns", "position", "enabled"}),
	}).Create(&record).Error
	if err != nil {
		return err
	}
	target.ID = record.ID
	return nil
}

// ListTargets returns all targets in position order
func (s *TargetsStore) ListTargets() ([]store.Target, error) {
	return s.listTargets(s.db)
}

// ListEnabledTargets returns enabled targets in position order
func (s *TargetsStore) ListEnabledTargets() ([]store.Target, error) {
	return s.listTargets(s.db.Where("enabled = ?", true))
}

func (s *TargetsStore) listTargets(query *gorm.DB) ([]store.Target, error) {
	var records []model.Target
	if err := query.Order("position, slug").Find(&records).Error; err != nil {
		return nil, err
	}

	targets := make([]store.Target, 0, len(records))
	for i := range records {
		targets = append(targets, *toStoreTarget(&records[i]))
	}
	return targets, nil
}

// GetTarget retrieves a target by slug
func (s *TargetsStore) GetTarget(slug string) (*store.Target, error) {
	var record model.Target
	tx := s.db.Where("slug = ?", slug).First(&record)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrTargetNotFound
		}
		return nil, tx.Error
	}
	return toStoreTarget(&record), nil
}

// SetEnabled toggles collection for a target
func (s *TargetsStore) SetEnabled(slug string, enabled bool) error {
	tx := s.db.Model(&model.Target{}).Where("slug = ?", slug).Update("enabled", enabled)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrTargetNotFound
	}
	return nil
}

func toStoreTarget(record *model.Target) *store.Target {
	return &store.Target{
		ID:       record.ID,
		Slug:     record.Slug,
		Name:     record.Name,
		URL:      record.URL,
		Kind:     record.Kind,
		Columns:  record.Columns,
		Position: record.Position,
		Enabled:  record.Enabled,
	}
}
