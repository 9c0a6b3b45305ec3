package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"gorm.io/gorm"
)

// ItemRepository handles database operations for line items.
// Each category lives in its own table keyed by project_id.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new ItemRepository instance
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) table(ctx context.Context, category domain.Category) *gorm.DB {
	return r.db.WithContext(ctx).Table(category.Table())
}

// Create inserts a new item and fills in its generated fields
func (r *ItemRepository) Create(ctx context.Context, category domain.Category, item *domain.LineItem) error {
	return r.table(ctx, category).Create(item).Error
}

// GetByID retrieves an item of a project by its ID
func (r *ItemRepository) GetByID(ctx context.Context, category domain.Category, projectID uuid.UUID, id string) (*domain.LineItem, error) {
	var item domain.LineItem
	err := r.table(ctx, category).
		Where("id = ? AND project_id = ?", id, projectID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateField writes a single column of an item
func (r *ItemRepository) UpdateField(ctx context.Context, category domain.Category, projectID uuid.UUID, id string, column string, value interface{}) error {
	result := r.table(ctx, category).
		Where("id = ? AND project_id = ?", id, projectID).
		Updates(map[string]interface{}{
			column:       value,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an item from a project
func (r *ItemRepository) Delete(ctx context.Context, category domain.Category, projectID uuid.UUID, id string) error {
	result := r.table(ctx, category).
		Where("id = ? AND project_id = ?", id, projectID).
		Delete(&domain.LineItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByProject returns the items of a category in insertion order
func (r *ItemRepository) ListByProject(ctx context.Context, category domain.Category, projectID uuid.UUID) ([]domain.LineItem, error) {
	items := []domain.LineItem{}
	err := r.table(ctx, category).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// CountByProject returns the number of items of a category
func (r *ItemRepository) CountByProject(ctx context.Context, category domain.Category, projectID uuid.UUID) (int, error) {
	var count int64
	err := r.table(ctx, category).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return int(count), err
}
