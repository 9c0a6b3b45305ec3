package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"go.uber.org/zap"
)

// Notice is a short user-facing message about the outcome of an operation
type Notice struct {
	Variant    domain.NotificationVariant
	Title      string
	Message    string
	EntityType string
	EntityID   *uuid.UUID
}

// ErrorNotice builds the notice shown when a store call fails
func ErrorNotice(message string) Notice {
	return Notice{Variant: domain.NotificationError, Title: "Erro", Message: message}
}

// SuccessNotice builds the notice shown after a completed operation
func SuccessNotice(message string) Notice {
	return Notice{Variant: domain.NotificationSuccess, Title: "Sucesso", Message: message}
}

// Notifier surfaces notices to the user that triggered an operation
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(ctx context.Context, notice Notice)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, notice Notice) {
	f(ctx, notice)
}

// LogNotifier writes notices to the log only
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by a zap logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notice at a level matching its variant
func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	fields := []zap.Field{
		zap.String("title", notice.Title),
		zap.String("message", notice.Message),
	}
	if notice.Variant == domain.NotificationError {
		n.logger.Warn("notice", fields...)
		return
	}
	n.logger.Info("notice", fields...)
}
