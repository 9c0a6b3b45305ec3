package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"gorm.io/gorm"
)

// NotificationFilter narrows a user's notification feed
type NotificationFilter struct {
	UnreadOnly bool
	Variant    string
}

func (f NotificationFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UnreadOnly {
		db = db.Where("read = ?", false)
	}
	if f.Variant != "" {
		db = db.Where("variant = ?", f.Variant)
	}
	return db
}

// NotificationRepository stores the per-user feed of project and export events
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ofUser(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).Where("user_id = ?", userID)
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notification domain.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByUser returns one page of the feed, newest first, with the filtered total
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter NotificationFilter, page, pageSize int) ([]domain.Notification, int64, error) {
	var total int64
	if err := r.ofUser(ctx, userID).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	notifications := []domain.Notification{}
	if total == 0 {
		return notifications, 0, nil
	}
	err := r.ofUser(ctx, userID).
		Scopes(filter.scope).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	err := r.ofUser(ctx, userID).Scopes(NotificationFilter{UnreadOnly: true}.scope).Count(&count).Error
	return int(count), err
}

// MarkAsRead flags one notification; gorm.ErrRecordNotFound when the user does not own it
func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	result := r.ofUser(ctx, userID).Where("id = ?", id).Updates(readColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return r.ofUser(ctx, userID).Where("read = ?", false).Updates(readColumns()).Error
}

// DeleteRead purges notifications that were read and created before the cutoff
func (r *NotificationRepository) DeleteRead(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("read = ?", true).
		Where("created_at < ?", before).
		Delete(&domain.Notification{})
	return result.RowsAffected, result.Error
}

func readColumns() map[string]interface{} {
	return map[string]interface{}{
		"read":    true,
		"read_at": time.Now().UTC(),
	}
}
