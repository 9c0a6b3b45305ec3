package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestMemory_AddItemUsesDefaultTax(t *testing.T) {
	ctx := context.Background()
	s := store.NewEmptyMemory()

	item, err := s.AddItem(ctx, domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Equal(t, "1", item.ID)
	assert.Equal(t, float64(domain.DefaultTaxPercent), item.TaxPercent)
	assert.Zero(t, item.UnitPrice)
	assert.Zero(t, item.Quantity)
	assert.Empty(t, item.Item)

	second, err := s.AddItem(ctx, domain.CategoryMachines)
	require.NoError(t, err)
	assert.Equal(t, "2", second.ID)
}

func TestMemory_AddItemAfterTaxChange(t *testing.T) {
	ctx := context.Background()
	s := store.NewEmptyMemory()

	require.NoError(t, s.SetConfig(ctx, domain.ConfigPatch{DefaultTaxPercent: floatPtr(18)}))
	item, err := s.AddItem(ctx, domain.CategoryProduction)
	require.NoError(t, err)
	assert.Equal(t, 18.0, item.TaxPercent)
}

func TestMemory_UpdateItemCoercesValues(t *testing.T) {
	ctx := context.Background()
	s := store.NewEmptyMemory()
	item, err := s.AddItem(ctx, domain.CategoryMaterials)
	require.NoError(t, err)

	require.NoError(t, s.UpdateItem(ctx, domain.CategoryMaterials, item.ID, domain.FieldUnitPrice, "85.5"))
	require.NoError(t, s.UpdateItem(ctx, domain.CategoryMaterials, item.ID, domain.FieldQuantity, 2.5))
	require.NoError(t, s.UpdateItem(ctx, domain.CategoryMaterials, item.ID, domain.FieldFreight, "abc"))
	require.NoError(t, s.UpdateItem(ctx, domain.CategoryMaterials, item.ID, domain.FieldSupplier, "Tecidos Brasil"))

	items, err := s.ListItems(ctx, domain.CategoryMaterials)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 85.5, items[0].UnitPrice)
	assert.Equal(t, 2.5, items[0].Quantity)
	assert.Zero(t, items[0].Freight)
	assert.Equal(t, "Tecidos Brasil", items[0].Supplier)
}

func TestMemory_Errors(t *testing.T) {
	ctx := context.Background()
	s := store.NewEmptyMemory()
	item, err := s.AddItem(ctx, domain.CategoryMaterials)
	require.NoError(t, err)

	err = s.UpdateItem(ctx, domain.CategoryMaterials, "999", domain.FieldItem, "x")
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	err = s.UpdateItem(ctx, domain.CategoryMaterials, item.ID, domain.ItemField("color"), "x")
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	err = s.RemoveItem(ctx, domain.CategoryMachines, item.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	_, err = s.AddItem(ctx, domain.Category("fabric"))
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	_, err = s.ListItems(ctx, domain.Category("fabric"))
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestMemory_RemoveItemKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewEmptyMemory()
	var ids []string
	for i := 0; i < 3; i++ {
		item, err := s.AddItem(ctx, domain.CategoryMaterials)
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	require.NoError(t, s.RemoveItem(ctx, domain.CategoryMaterials, ids[1]))

	items, err := s.ListItems(ctx, domain.CategoryMaterials)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[0], items[0].ID)
	assert.Equal(t, ids[2], items[1].ID)
}

func TestMemory_SetConfigRejectsZeroVolume(t *testing.T) {
	ctx := context.Background()
	s := store.NewEmptyMemory()

	err := s.SetConfig(ctx, domain.ConfigPatch{MonthlyVolume: floatPtr(0), OperationalCost: floatPtr(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidVolume)

	cfg, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBudgetConfig(), cfg)
}

func TestMemory_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(store.SampleSeed())

	items, err := s.ListItems(ctx, domain.CategoryMaterials)
	require.NoError(t, err)
	items[0].UnitPrice = 1

	again, err := s.ListItems(ctx, domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Equal(t, 85.0, again[0].UnitPrice)
}

func TestMemory_SampleSeed(t *testing.T) {
	snap, err := store.Load(context.Background(), store.NewMemory(store.SampleSeed()))
	require.NoError(t, err)

	assert.Len(t, snap.Materials, 7)
	assert.Len(t, snap.Machines, 4)
	assert.Len(t, snap.Production, 3)
	assert.Equal(t, "1", snap.Materials[0].ID)
	assert.Equal(t, "8", snap.Machines[0].ID)
	assert.Equal(t, "12", snap.Production[0].ID)
	assert.Equal(t, domain.DefaultBudgetConfig(), snap.Config)
}

func TestMemory_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := store.NewEmptyMemory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddItem(ctx, domain.CategoryMaterials)
		}()
	}
	wg.Wait()

	items, err := s.ListItems(ctx, domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Len(t, items, 20)

	seen := map[string]bool{}
	for _, item := range items {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	registry := store.NewMemoryRegistry(store.SampleSeed)
	alice, bob := uuid.New(), uuid.New()

	a := registry.For(alice)
	assert.Same(t, a, registry.For(alice))
	assert.NotSame(t, a, registry.For(bob))

	_, err := a.AddItem(ctx, domain.CategoryMaterials)
	require.NoError(t, err)
	items, _ := registry.For(alice).ListItems(ctx, domain.CategoryMaterials)
	assert.Len(t, items, 8)
	items, _ = registry.For(bob).ListItems(ctx, domain.CategoryMaterials)
	assert.Len(t, items, 7)

	registry.Reset(alice)
	items, _ = registry.For(alice).ListItems(ctx, domain.CategoryMaterials)
	assert.Len(t, items, 7)
}
