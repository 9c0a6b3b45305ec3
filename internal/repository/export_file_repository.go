package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"gorm.io/gorm"
)

type ExportFileRepository struct {
	db *gorm.DB
}

func NewExportFileRepository(db *gorm.DB) *ExportFileRepository {
	return &ExportFileRepository{db: db}
}

func (r *ExportFileRepository) Create(ctx context.Context, file *domain.ExportFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *ExportFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExportFile, error) {
	var file domain.ExportFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByProject returns the archived exports of a project, newest first
func (r *ExportFileRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ExportFile, error) {
	files := []domain.ExportFile{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *ExportFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ExportFile{}, "id = ?", id).Error
}
