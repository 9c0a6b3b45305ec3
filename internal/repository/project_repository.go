package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"gorm.io/gorm"
)

// ProjectRepository handles database operations for budget projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// GetByID retrieves a project visible to the caller
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyOwnerFilter(ctx, query)
	if err := query.First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByUser returns a user's projects, most recently updated first
func (r *ProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Project, error) {
	projects := []domain.Project{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListAll returns every project; used by background jobs
func (r *ProjectRepository) ListAll(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&projects).Error
	return projects, err
}

// UpdateDetails changes name and description. The project keeps its place in the list.
func (r *ProjectRepository) UpdateDetails(ctx context.Context, id uuid.UUID, name, description string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"name":        name,
		"description": description,
	})
}

// UpdateConfig writes the given configuration columns without making the project current
func (r *ProjectRepository) UpdateConfig(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	return r.updateColumns(ctx, id, columns)
}

// Touch bumps updated_at so the project sorts first
func (r *ProjectRepository) Touch(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"updated_at": time.Now().UTC(),
	})
}

// updateColumns skips gorm's automatic updated_at; only Touch reorders projects
func (r *ProjectRepository) updateColumns(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	query := r.db.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", id)
	query = ApplyOwnerFilter(ctx, query)
	result := query.UpdateColumns(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a project together with its items and archived export records
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id)
		query = ApplyOwnerFilter(ctx, query)
		result := query.Delete(&domain.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for _, category := range domain.Categories {
			if err := tx.Table(category.Table()).Where("project_id = ?", id).Delete(&domain.LineItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("project_id = ?", id).Delete(&domain.ExportFile{}).Error
	})
}
