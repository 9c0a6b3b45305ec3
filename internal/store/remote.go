package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/metrics"
	"github.com/odo-atelier/budget-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notice messages for failed writes
const (
	msgAddItemFailed      = "Erro ao adicionar item"
	msgUpdateItemFailed   = "Erro ao atualizar item"
	msgRemoveItemFailed   = "Erro ao remover item"
	msgUpdateConfigFailed = "Erro ao atualizar configurações"
)

// RemoteBackend opens remote stores over the item and project tables
type RemoteBackend struct {
	items    *repository.ItemRepository
	projects *repository.ProjectRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewRemoteBackend creates a backend; failures are reported through notifier
func NewRemoteBackend(items *repository.ItemRepository, projects *repository.ProjectRepository, notifier Notifier, logger *zap.Logger) *RemoteBackend {
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &RemoteBackend{
		items:    items,
		projects: projects,
		notifier: notifier,
		logger:   logger,
	}
}

// Open loads a project's items into a new Remote store
func (b *RemoteBackend) Open(ctx context.Context, project *domain.Project) (*Remote, error) {
	r := &Remote{
		backend:   b,
		projectID: project.ID,
		snapshot:  Snapshot{Config: project.Config},
	}
	for _, category := range domain.Categories {
		items, err := b.items.ListByProject(ctx, category, project.ID)
		if err != nil {
			b.logger.Error("failed to load project items",
				zap.String("project_id", project.ID.String()),
				zap.String("category", string(category)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("load %s: %w", category, err)
		}
		r.setItems(category, items)
	}
	return r, nil
}

// Remote is a Store for one persisted project. It serves reads from a snapshot
// and only changes the snapshot after the database write succeeded.
type Remote struct {
	mu        sync.RWMutex
	backend   *RemoteBackend
	projectID uuid.UUID
	snapshot  Snapshot
}

// ProjectID returns the project the store writes to
func (r *Remote) ProjectID() uuid.UUID {
	return r.projectID
}

func (r *Remote) ListItems(ctx context.Context, category domain.Category) ([]domain.LineItem, error) {
	if !category.IsValid() {
		return nil, domain.ErrUnknownCategory
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneItems(r.snapshot.Items(category)), nil
}

func (r *Remote) AddItem(ctx context.Context, category domain.Category) (*domain.LineItem, error) {
	if !category.IsValid() {
		return nil, domain.ErrUnknownCategory
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item := domain.NewLineItem(r.snapshot.Config.DefaultTaxPercent)
	item.ProjectID = r.projectID
	if err := r.backend.items.Create(ctx, category, &item); err != nil {
		return nil, r.fail(ctx, "add_item", msgAddItemFailed, err)
	}

	r.setItems(category, append(r.snapshot.Items(category), item))
	return &item, nil
}

func (r *Remote) UpdateItem(ctx context.Context, category domain.Category, id string, field domain.ItemField, value interface{}) error {
	if !category.IsValid() {
		return domain.ErrUnknownCategory
	}
	normalized, err := domain.NormalizeValue(field, value)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.snapshot.Items(category)
	idx := indexOf(list, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if err := r.backend.items.UpdateField(ctx, category, r.projectID, id, field.Column(), normalized); err != nil {
		return r.fail(ctx, "update_item", msgUpdateItemFailed, notFoundAsItem(err, id))
	}

	updated := cloneItems(list)
	_ = updated[idx].SetField(field, normalized)
	r.setItems(category, updated)
	return nil
}

func (r *Remote) RemoveItem(ctx context.Context, category domain.Category, id string) error {
	if !category.IsValid() {
		return domain.ErrUnknownCategory
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.snapshot.Items(category)
	idx := indexOf(list, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if err := r.backend.items.Delete(ctx, category, r.projectID, id); err != nil {
		return r.fail(ctx, "remove_item", msgRemoveItemFailed, notFoundAsItem(err, id))
	}

	remaining := make([]domain.LineItem, 0, len(list)-1)
	remaining = append(remaining, list[:idx]...)
	remaining = append(remaining, list[idx+1:]...)
	r.setItems(category, remaining)
	return nil
}

func (r *Remote) GetConfig(ctx context.Context) (domain.BudgetConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.Config, nil
}

func (r *Remote) SetConfig(ctx context.Context, patch domain.ConfigPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := patch.Apply(r.snapshot.Config)
	if err := next.Validate(); err != nil {
		return err
	}
	columns := patch.Columns()
	if len(columns) == 0 {
		return nil
	}

	if err := r.backend.projects.UpdateConfig(ctx, r.projectID, columns); err != nil {
		return r.fail(ctx, "set_config", msgUpdateConfigFailed, err)
	}

	r.snapshot.Config = next
	return nil
}

// fail logs a failed write, tells the user and returns err unchanged
func (r *Remote) fail(ctx context.Context, operation, message string, err error) error {
	metrics.StoreFailuresTotal.WithLabelValues(operation).Inc()
	r.backend.logger.Error("budget store write failed",
		zap.String("operation", operation),
		zap.String("project_id", r.projectID.String()),
		zap.Error(err),
	)

	notice := ErrorNotice(message)
	notice.EntityType = "project"
	projectID := r.projectID
	notice.EntityID = &projectID
	r.backend.notifier.Notify(ctx, notice)
	return err
}

func (r *Remote) setItems(category domain.Category, items []domain.LineItem) {
	switch category {
	case domain.CategoryMaterials:
		r.snapshot.Materials = items
	case domain.CategoryMachines:
		r.snapshot.Machines = items
	case domain.CategoryProduction:
		r.snapshot.Production = items
	}
}

func indexOf(items []domain.LineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func notFoundAsItem(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return err
}
