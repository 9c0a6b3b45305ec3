package jobs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// CleanupJobName is the name of the hourly cleanup job
const CleanupJobName = "cleanup"

// TokenPurger drops revocations of tokens that have expired
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// NotificationPurger drops read notifications older than a retention period
type NotificationPurger interface {
	PurgeRead(ctx context.Context, maxAge time.Duration) (int64, error)
}

// CleanupJob removes expired token revocations and old read notifications
type CleanupJob struct {
	tokens        TokenPurger
	notifications NotificationPurger
	retention     time.Duration
	logger        *zap.Logger
	timeout       time.Duration
}

func NewCleanupJob(tokens TokenPurger, notifications NotificationPurger, retention time.Duration, logger *zap.Logger, timeout time.Duration) *CleanupJob {
	return &CleanupJob{
		tokens:        tokens,
		notifications: notifications,
		retention:     retention,
		logger:        logger,
		timeout:       timeout,
	}
}

func (j *CleanupJob) Name() string           { return CleanupJobName }
func (j *CleanupJob) Timeout() time.Duration { return j.timeout }

// Run purges both tables; a failure in one does not skip the other
func (j *CleanupJob) Run(ctx context.Context) error {
	tokens, tokenErr := j.tokens.PurgeExpired(ctx)
	notifications, notificationErr := j.notifications.PurgeRead(ctx, j.retention)

	j.logger.Info("cleanup run finished",
		zap.Int64("revoked_tokens_deleted", tokens),
		zap.Int64("notifications_deleted", notifications),
	)
	return errors.Join(tokenErr, notificationErr)
}
