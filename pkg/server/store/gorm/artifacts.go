package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/rankwatch/rankwatch/pkg/model"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

// Ensure ArtifactsStore implements store.ArtifactsStore
var _ store.ArtifactsStore = (*ArtifactsStore)(nil)

// ArtifactsStore implements store.ArtifactsStore using GORM
type ArtifactsStore struct {
	db *gorm.DB
}

// NewArtifactsStore creates a new ArtifactsStore
func NewArtifactsStore(db *gorm.DB) *ArtifactsStore {
	return &ArtifactsStore{db: db}
}

// CreateArtifact persists artifact metadata
func (s *ArtifactsStore) CreateArtifact(artifact *store.Artifact) error {
	record := model.Artifact{
		RunID:       artifact.RunID,
		Name:        artifact.Name,
		ContentType: artifact.ContentType,
		SizeBytes:   artifact.SizeBytes,
		Path:        artifact.Path,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	artifact.ID = record.ID
	artifact.CreatedAt = record.CreatedAt
	return nil
}

// ListArtifactsByRun returns the artifacts captured during a run
func (s *ArtifactsStore) ListArtifactsByRun(runID int64) ([]store.Artifact, error) {
	var records []model.Artifact
	if err := s.db.Where("run_id = ?", runID).Order("name").Find(&records).Error; err != nil {
		return nil, err
	}

	artifacts := make([]store.Artifact, 0, len(records))
	for i := range records {
		artifacts = append(artifacts, *toStoreArtifact(&records[i]))
	}
	return artifacts, nil
}

// GetArtifact retrieves one artifact of a run by name
func (s *ArtifactsStore) GetArtifact(runID int64, name string) (*store.Artifact, error) {
	var record model.Artifact
	tx := s.db.Where("run_id = ? AND name = ?", runID, name).First(&record)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrArtifactNotFound
		}
		return nil, tx.Error
	}
	return toStoreArtifact(&record), nil
}

func toStoreArtifact(record *model.Artifact) *store.Artifact {
	return &store.Artifact{
		ID:          record.ID,
		RunID:       record.RunID,
		Name:        record.Name,
		ContentType: record.ContentType,
		SizeBytes:   record.SizeBytes,
		Path:        record.Path,
		CreatedAt:   record.CreatedAt,
	}
}
