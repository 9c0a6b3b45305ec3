package service_test

import (
	"testing"

	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/store"
	"github.com/odo-atelier/budget-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWorkspaceService_ScratchIsPerUser(t *testing.T) {
	svc := service.NewWorkspaceService(store.NewMemoryRegistry(store.SampleSeed), "Orçamento Odò", zap.NewNop())
	alice, _ := testutil.UserContext(t)
	bob, _ := testutil.UserContext(t)

	ws, err := svc.Scratch(alice)
	require.NoError(t, err)
	assert.Nil(t, ws.ID)
	assert.Equal(t, "Orçamento Odò", ws.Name)

	_, err = ws.Store.AddItem(alice, domain.CategoryMaterials)
	require.NoError(t, err)

	again, err := svc.Scratch(alice)
	require.NoError(t, err)
	items, err := again.Store.ListItems(alice, domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Len(t, items, len(store.SampleSeed().Materials)+1)

	other, err := svc.Scratch(bob)
	require.NoError(t, err)
	items, err = other.Store.ListItems(bob, domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Len(t, items, len(store.SampleSeed().Materials))
}

func TestWorkspaceService_Reset(t *testing.T) {
	svc := service.NewWorkspaceService(store.NewMemoryRegistry(store.SampleSeed), "Orçamento Odò", zap.NewNop())
	ctx, _ := testutil.UserContext(t)

	ws, err := svc.Scratch(ctx)
	require.NoError(t, err)
	require.NoError(t, ws.Store.RemoveItem(ctx, domain.CategoryMachines, "8"))

	ws, err = svc.Reset(ctx)
	require.NoError(t, err)
	machines, err := ws.Store.ListItems(ctx, domain.CategoryMachines)
	require.NoError(t, err)
	assert.Len(t, machines, len(store.SampleSeed().Machines))
}
