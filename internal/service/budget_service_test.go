package service_test

import (
	"context"
	"testing"

	"github.com/odo-atelier/budget-api/internal/budget"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryWorkspace(seed store.Seed) *store.Workspace {
	return &store.Workspace{Name: "Ateliê", Store: store.NewMemory(seed)}
}

func TestBudgetService_AddAndUpdateItem(t *testing.T) {
	ctx := context.Background()
	svc := service.NewBudgetService(zap.NewNop())
	ws := memoryWorkspace(store.Seed{Config: domain.DefaultBudgetConfig()})

	added, err := svc.AddItem(ctx, ws, domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBudgetConfig().DefaultTaxPercent, added.TaxPercent)
	assert.Zero(t, added.FinalCost)

	_, err = svc.UpdateItem(ctx, ws, domain.CategoryMaterials, added.ID, &domain.UpdateItemRequest{Field: domain.FieldUnitPrice, Value: "10"})
	require.NoError(t, err)
	updated, err := svc.UpdateItem(ctx, ws, domain.CategoryMaterials, added.ID, &domain.UpdateItemRequest{Field: domain.FieldQuantity, Value: 5.0})
	require.NoError(t, err)

	assert.Equal(t, 10.0, updated.UnitPrice)
	assert.Equal(t, 5.0, updated.Quantity)
	assert.InDelta(t, 50.0, updated.Subtotal, 1e-9)
	assert.InDelta(t, 50.0+50.0*updated.TaxPercent/100, updated.FinalCost, 1e-9)
}

func TestBudgetService_UpdateItemErrors(t *testing.T) {
	ctx := context.Background()
	svc := service.NewBudgetService(zap.NewNop())
	ws := memoryWorkspace(store.Seed{Config: domain.DefaultBudgetConfig()})

	_, err := svc.UpdateItem(ctx, ws, domain.CategoryMaterials, "1", &domain.UpdateItemRequest{Field: "color", Value: "azul"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = svc.UpdateItem(ctx, ws, domain.CategoryMaterials, "999", &domain.UpdateItemRequest{Field: domain.FieldItem, Value: "x"})
	assert.ErrorIs(t, err, service.ErrItemNotFound)

	err = svc.RemoveItem(ctx, ws, domain.CategoryMachines, "999")
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestBudgetService_SummaryOfSample(t *testing.T) {
	ctx := context.Background()
	svc := service.NewBudgetService(zap.NewNop())
	ws := memoryWorkspace(store.SampleSeed())

	summary, err := svc.Summary(ctx, ws)
	require.NoError(t, err)

	assert.Len(t, summary.Prices, len(budget.Markups))
	assert.Greater(t, summary.Totals.Materials, 0.0)
	assert.Greater(t, summary.Totals.Machines, 0.0)
	assert.Greater(t, summary.Totals.Production, 0.0)
	assert.InDelta(t, summary.TotalCostPerUnit*2, summary.Price(budget.TierWholesale).Price, 1e-9)
	assert.InDelta(t, summary.TotalCostPerUnit*4, summary.Price(budget.TierIdealRetail).Price, 1e-9)
}

func TestBudgetService_UpdateConfig(t *testing.T) {
	ctx := context.Background()
	svc := service.NewBudgetService(zap.NewNop())
	ws := memoryWorkspace(store.Seed{Config: domain.DefaultBudgetConfig()})

	volume := 250.0
	cfg, err := svc.UpdateConfig(ctx, ws, domain.ConfigPatch{MonthlyVolume: &volume})
	require.NoError(t, err)
	assert.Equal(t, 250.0, cfg.MonthlyVolume)
	assert.Equal(t, domain.DefaultBudgetConfig().OperationalCost, cfg.OperationalCost)

	zero := 0.0
	_, err = svc.UpdateConfig(ctx, ws, domain.ConfigPatch{MonthlyVolume: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidVolume)

	cfg, err = svc.GetConfig(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, 250.0, cfg.MonthlyVolume)
}

func TestBudgetService_SummaryRejectsZeroVolume(t *testing.T) {
	ctx := context.Background()
	svc := service.NewBudgetService(zap.NewNop())
	cfg := domain.DefaultBudgetConfig()
	cfg.MonthlyVolume = 0
	ws := memoryWorkspace(store.Seed{Config: cfg})

	_, err := svc.Summary(ctx, ws)
	assert.ErrorIs(t, err, domain.ErrInvalidVolume)
}

func TestBudgetService_Suppliers(t *testing.T) {
	ctx := context.Background()
	svc := service.NewBudgetService(zap.NewNop())
	ws := memoryWorkspace(store.Seed{
		Config: domain.DefaultBudgetConfig(),
		Materials: []domain.LineItem{
			{Item: "Linho", Supplier: "Tecidos Brasil", UnitPrice: 10, Quantity: 1},
			{Item: "Botão", Supplier: "  ", UnitPrice: 1, Quantity: 1},
			{Item: "Viscose", Supplier: "Armarinho", UnitPrice: 5, Quantity: 1},
		},
	})

	view, err := svc.Suppliers(ctx, ws)
	require.NoError(t, err)
	require.Len(t, view.Groups, 3)
	assert.Equal(t, "Armarinho", view.Groups[0].Supplier)
	assert.Equal(t, "Tecidos Brasil", view.Groups[1].Supplier)
	assert.Equal(t, budget.NoSupplier, view.Groups[2].Supplier)
	assert.InDelta(t, 16.0, view.GrandTotal, 1e-9)
}
