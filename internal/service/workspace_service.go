package service

import (
	"context"

	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/store"
	"go.uber.org/zap"
)

// WorkspaceService hands out the per-user scratch budget kept in memory
type WorkspaceService struct {
	registry *store.MemoryRegistry
	name     string
	logger   *zap.Logger
}

// NewWorkspaceService creates a new WorkspaceService instance
func NewWorkspaceService(registry *store.MemoryRegistry, name string, logger *zap.Logger) *WorkspaceService {
	return &WorkspaceService{registry: registry, name: name, logger: logger}
}

// Scratch returns the caller's scratch workspace
func (s *WorkspaceService) Scratch(ctx context.Context) (*store.Workspace, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	return &store.Workspace{Name: s.name, Store: s.registry.For(userCtx.UserID)}, nil
}

// Reset discards the caller's scratch workspace
func (s *WorkspaceService) Reset(ctx context.Context) (*store.Workspace, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	s.registry.Reset(userCtx.UserID)
	s.logger.Info("scratch workspace reset", zap.String("user_id", userCtx.UserID.String()))
	return s.Scratch(ctx)
}
