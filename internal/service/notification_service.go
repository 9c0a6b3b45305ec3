package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/mapper"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationService handles business logic for notifications.
// It is also the Notifier stores report their failures to.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

var _ store.Notifier = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// CreateForUser creates a notification for a specific user
func (s *NotificationService) CreateForUser(
	ctx context.Context,
	userID uuid.UUID,
	notice store.Notice,
) (*domain.NotificationDTO, error) {
	notification := &domain.Notification{
		UserID:     userID,
		Variant:    string(notice.Variant),
		Title:      notice.Title,
		Message:    notice.Message,
		EntityType: notice.EntityType,
		EntityID:   notice.EntityID,
		Read:       false,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Debug("notification created",
		zap.String("notificationID", notification.ID.String()),
		zap.String("userID", userID.String()),
		zap.String("variant", notification.Variant),
	)

	dto := mapper.ToNotificationDTO(notification)
	return &dto, nil
}

// Notify records a notice for the user of the request. System callers only get a log line.
func (s *NotificationService) Notify(ctx context.Context, notice store.Notice) {
	fields := []zap.Field{
		zap.String("variant", string(notice.Variant)),
		zap.String("message", notice.Message),
	}
	if notice.Variant == domain.NotificationError {
		s.logger.Warn("user notice", fields...)
	} else {
		s.logger.Info("user notice", fields...)
	}

	userCtx, ok := auth.FromContext(ctx)
	if !ok || userCtx.IsSystem() {
		return
	}
	// The notice must survive a cancelled request
	if _, err := s.CreateForUser(context.WithoutCancel(ctx), userCtx.UserID, notice); err != nil {
		s.logger.Error("failed to persist notice", zap.Error(err))
	}
}

// currentUser returns the id of the person behind ctx
func currentUser(ctx context.Context) (uuid.UUID, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUserContextRequired
	}
	return userCtx.UserID, nil
}

// List returns one page of the caller's notifications, newest first
func (s *NotificationService) List(
	ctx context.Context,
	filter repository.NotificationFilter,
	page, pageSize int,
) (*domain.PaginatedResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	page = max(page, 1)
	if pageSize < 1 {
		pageSize = 20
	}
	pageSize = min(pageSize, repository.MaxPageSize)

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, 0, len(notifications))
	for i := range notifications {
		dtos = append(dtos, mapper.ToNotificationDTO(&notifications[i]))
	}
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// UnreadCount feeds the badge next to the notification bell
func (s *NotificationService) UnreadCount(ctx context.Context) (*domain.UnreadCountDTO, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return &domain.UnreadCountDTO{Count: count}, nil
}

// MarkRead flags one of the caller's notifications. Another user's id reads as not found.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	userID, err := currentUser(ctx)
	if err != nil {
		return err
	}
	err = s.notificationRepo.MarkAsRead(ctx, userID, notificationID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotificationNotFound
	case err != nil:
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	userID, err := currentUser(ctx)
	if err != nil {
		return err
	}
	if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

// PurgeRead deletes read notifications older than maxAge
func (s *NotificationService) PurgeRead(ctx context.Context, maxAge time.Duration) (int64, error) {
	deleted, err := s.notificationRepo.DeleteRead(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	return deleted, nil
}
