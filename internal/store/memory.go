package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
)

// Seed is the initial content of a memory store
type Seed struct {
	Materials  []domain.LineItem
	Machines   []domain.LineItem
	Production []domain.LineItem
	Config     domain.BudgetConfig
}

// Memory keeps a budget in process memory. Item ids come from a counter.
type Memory struct {
	mu     sync.RWMutex
	nextID int
	items  map[domain.Category][]domain.LineItem
	config domain.BudgetConfig
}

// NewMemory creates a store holding seed. Seed item ids are reassigned.
func NewMemory(seed Seed) *Memory {
	m := &Memory{
		nextID: 1,
		items:  make(map[domain.Category][]domain.LineItem, len(domain.Categories)),
		config: seed.Config,
	}
	seeded := map[domain.Category][]domain.LineItem{
		domain.CategoryMaterials:  seed.Materials,
		domain.CategoryMachines:   seed.Machines,
		domain.CategoryProduction: seed.Production,
	}
	for _, category := range domain.Categories {
		list := cloneItems(seeded[category])
		for i := range list {
			list[i].ID = m.newID()
		}
		m.items[category] = list
	}
	return m
}

// NewEmptyMemory creates a store with no items and the default configuration
func NewEmptyMemory() *Memory {
	return NewMemory(Seed{Config: domain.DefaultBudgetConfig()})
}

func (m *Memory) newID() string {
	id := strconv.Itoa(m.nextID)
	m.nextID++
	return id
}

func (m *Memory) ListItems(ctx context.Context, category domain.Category) ([]domain.LineItem, error) {
	if !category.IsValid() {
		return nil, domain.ErrUnknownCategory
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneItems(m.items[category]), nil
}

func (m *Memory) AddItem(ctx context.Context, category domain.Category) (*domain.LineItem, error) {
	if !category.IsValid() {
		return nil, domain.ErrUnknownCategory
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item := domain.NewLineItem(m.config.DefaultTaxPercent)
	item.ID = m.newID()
	m.items[category] = append(m.items[category], item)
	return &item, nil
}

func (m *Memory) UpdateItem(ctx context.Context, category domain.Category, id string, field domain.ItemField, value interface{}) error {
	if !category.IsValid() {
		return domain.ErrUnknownCategory
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.items[category]
	for i := range list {
		if list[i].ID == id {
			return list[i].SetField(field, value)
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func (m *Memory) RemoveItem(ctx context.Context, category domain.Category, id string) error {
	if !category.IsValid() {
		return domain.ErrUnknownCategory
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.items[category]
	for i := range list {
		if list[i].ID == id {
			m.items[category] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func (m *Memory) GetConfig(ctx context.Context) (domain.BudgetConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config, nil
}

func (m *Memory) SetConfig(ctx context.Context, patch domain.ConfigPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := patch.Apply(m.config)
	if err := next.Validate(); err != nil {
		return err
	}
	m.config = next
	return nil
}

// MemoryRegistry hands out one memory store per user, created on first use
type MemoryRegistry struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Memory
	seed   func() Seed
}

// NewMemoryRegistry creates a registry seeding new stores with seed()
func NewMemoryRegistry(seed func() Seed) *MemoryRegistry {
	if seed == nil {
		seed = func() Seed { return Seed{Config: domain.DefaultBudgetConfig()} }
	}
	return &MemoryRegistry{stores: make(map[uuid.UUID]*Memory), seed: seed}
}

// For returns the store of a user
func (r *MemoryRegistry) For(userID uuid.UUID) *Memory {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[userID]
	if !ok {
		s = NewMemory(r.seed())
		r.stores[userID] = s
	}
	return s
}

// Reset drops the store of a user so the next call starts from the seed again
func (r *MemoryRegistry) Reset(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, userID)
}
