package service

import (
	"context"
	"fmt"

	"github.com/odo-atelier/budget-api/internal/budget"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/store"
	"go.uber.org/zap"
)

// BudgetService runs item, configuration and pricing operations against any workspace store
type BudgetService struct {
	logger *zap.Logger
}

// NewBudgetService creates a new BudgetService instance
func NewBudgetService(logger *zap.Logger) *BudgetService {
	return &BudgetService{logger: logger}
}

// ListItems returns the items of a category with their computed costs
func (s *BudgetService) ListItems(ctx context.Context, ws *store.Workspace, category domain.Category) ([]budget.PricedItem, error) {
	items, err := ws.Store.ListItems(ctx, category)
	if err != nil {
		return nil, err
	}
	return budget.WithCosts(items), nil
}

// AddItem appends a blank item to a category
func (s *BudgetService) AddItem(ctx context.Context, ws *store.Workspace, category domain.Category) (*budget.PricedItem, error) {
	item, err := ws.Store.AddItem(ctx, category)
	if err != nil {
		return nil, err
	}
	priced := budget.PricedItem{LineItem: *item, LineCost: budget.CostOf(*item)}
	return &priced, nil
}

// UpdateItem edits one field of an item and returns the item as stored
func (s *BudgetService) UpdateItem(ctx context.Context, ws *store.Workspace, category domain.Category, id string, req *domain.UpdateItemRequest) (*budget.PricedItem, error) {
	if !req.Field.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownField, req.Field)
	}
	if err := ws.Store.UpdateItem(ctx, category, id, req.Field, req.Value); err != nil {
		return nil, err
	}

	items, err := ws.Store.ListItems(ctx, category)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			priced := budget.PricedItem{LineItem: item, LineCost: budget.CostOf(item)}
			return &priced, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// RemoveItem deletes an item from a category
func (s *BudgetService) RemoveItem(ctx context.Context, ws *store.Workspace, category domain.Category, id string) error {
	return ws.Store.RemoveItem(ctx, category, id)
}

// GetConfig returns the workspace configuration
func (s *BudgetService) GetConfig(ctx context.Context, ws *store.Workspace) (domain.BudgetConfig, error) {
	return ws.Store.GetConfig(ctx)
}

// UpdateConfig applies a partial configuration update and returns the result
func (s *BudgetService) UpdateConfig(ctx context.Context, ws *store.Workspace, patch domain.ConfigPatch) (domain.BudgetConfig, error) {
	if err := ws.Store.SetConfig(ctx, patch); err != nil {
		return domain.BudgetConfig{}, err
	}
	return ws.Store.GetConfig(ctx)
}

// Snapshot returns every category and the configuration of a workspace
func (s *BudgetService) Snapshot(ctx context.Context, ws *store.Workspace) (*store.Snapshot, error) {
	snap, err := store.Load(ctx, ws.Store)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Summary computes totals, per-piece costs and suggested prices
func (s *BudgetService) Summary(ctx context.Context, ws *store.Workspace) (*budget.Summary, error) {
	snap, err := store.Load(ctx, ws.Store)
	if err != nil {
		return nil, err
	}
	summary, err := budget.Summarize(snap.Materials, snap.Machines, snap.Production, snap.Config)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Suppliers groups the workspace materials by supplier
func (s *BudgetService) Suppliers(ctx context.Context, ws *store.Workspace) (*budget.SupplierView, error) {
	materials, err := ws.Store.ListItems(ctx, domain.CategoryMaterials)
	if err != nil {
		return nil, err
	}
	view := budget.GroupBySupplier(materials)
	return &view, nil
}
