// Package store is the persistence boundary the budget engine reads from and writes to.
// A Store holds the three item categories and the configuration of one budget.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
)

// ErrItemNotFound is returned when an item id does not exist in the category
var ErrItemNotFound = errors.New("item not found")

// Store exposes item and configuration operations of a single budget
type Store interface {
	ListItems(ctx context.Context, category domain.Category) ([]domain.LineItem, error)
	AddItem(ctx context.Context, category domain.Category) (*domain.LineItem, error)
	UpdateItem(ctx context.Context, category domain.Category, id string, field domain.ItemField, value interface{}) error
	RemoveItem(ctx context.Context, category domain.Category, id string) error
	GetConfig(ctx context.Context) (domain.BudgetConfig, error)
	SetConfig(ctx context.Context, patch domain.ConfigPatch) error
}

// Workspace is a named budget and the store that holds it
type Workspace struct {
	ID    *uuid.UUID
	Name  string
	Store Store
}

// Snapshot is the full content of a store at one point in time
type Snapshot struct {
	Materials  []domain.LineItem   `json:"materials"`
	Machines   []domain.LineItem   `json:"machines"`
	Production []domain.LineItem   `json:"production"`
	Config     domain.BudgetConfig `json:"config"`
}

// Items returns the snapshot list of a category
func (s Snapshot) Items(category domain.Category) []domain.LineItem {
	switch category {
	case domain.CategoryMaterials:
		return s.Materials
	case domain.CategoryMachines:
		return s.Machines
	case domain.CategoryProduction:
		return s.Production
	}
	return nil
}

// Load reads every category and the configuration from a store
func Load(ctx context.Context, s Store) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Materials, err = s.ListItems(ctx, domain.CategoryMaterials); err != nil {
		return Snapshot{}, err
	}
	if snap.Machines, err = s.ListItems(ctx, domain.CategoryMachines); err != nil {
		return Snapshot{}, err
	}
	if snap.Production, err = s.ListItems(ctx, domain.CategoryProduction); err != nil {
		return Snapshot{}, err
	}
	if snap.Config, err = s.GetConfig(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
