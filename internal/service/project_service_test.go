package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_ListCreatesFirstProject(t *testing.T) {
	s := setupServices(t)
	ctx, _ := testutil.UserContext(t)

	projects, err := s.projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, domain.DefaultProjectName, projects[0].Name)
	assert.Equal(t, domain.DefaultBudgetConfig(), projects[0].Config)

	// Listing again does not create another one
	projects, err = s.projects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestProjectService_RequiresUser(t *testing.T) {
	s := setupServices(t)

	_, err := s.projects.List(context.Background())
	assert.ErrorIs(t, err, service.ErrUserContextRequired)
}

func TestProjectService_CreateBecomesCurrent(t *testing.T) {
	s := setupServices(t)
	ctx, _ := testutil.UserContext(t)

	first, err := s.projects.Current(ctx)
	require.NoError(t, err)

	created, err := s.projects.Create(ctx, &domain.CreateProjectRequest{Name: "Coleção Inverno", Description: "Linha de lã"})
	require.NoError(t, err)
	assert.Equal(t, "Linha de lã", created.Description)

	current, err := s.projects.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, current.ID)
	assert.NotEqual(t, first.ID, current.ID)
	assert.Contains(t, s.notices.messages(), "Projeto criado com sucesso")
}

func TestProjectService_SelectMovesProjectFirst(t *testing.T) {
	s := setupServices(t)
	ctx, _ := testutil.UserContext(t)

	first, err := s.projects.Create(ctx, &domain.CreateProjectRequest{Name: "Primeiro"})
	require.NoError(t, err)
	_, err = s.projects.Create(ctx, &domain.CreateProjectRequest{Name: "Segundo"})
	require.NoError(t, err)

	_, err = s.projects.Select(ctx, first.ID)
	require.NoError(t, err)

	projects, err := s.projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, first.ID, projects[0].ID)
}

func TestProjectService_Update(t *testing.T) {
	s := setupServices(t)
	ctx, _ := testutil.UserContext(t)

	current, err := s.projects.Current(ctx)
	require.NoError(t, err)

	updated, err := s.projects.Update(ctx, current.ID, &domain.UpdateProjectRequest{Name: "Verão 2026", Description: "Linho"})
	require.NoError(t, err)
	assert.Equal(t, "Verão 2026", updated.Name)
	assert.Equal(t, "Linho", updated.Description)

	_, err = s.projects.Update(ctx, uuid.New(), &domain.UpdateProjectRequest{Name: "x"})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestProjectService_DeleteOnlyProjectCreatesReplacement(t *testing.T) {
	s := setupServices(t)
	ctx, _ := testutil.UserContext(t)

	only, err := s.projects.Current(ctx)
	require.NoError(t, err)

	result, err := s.projects.Delete(ctx, only.ID)
	require.NoError(t, err)
	assert.Equal(t, only.ID, result.DeletedID)
	assert.Equal(t, domain.ReplacementProjectName, result.Current.Name)
	assert.NotEqual(t, only.ID, result.Current.ID)

	projects, err := s.projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, result.Current.ID, projects[0].ID)
	assert.Contains(t, s.notices.messages(), "Projeto excluído")
}

func TestProjectService_DeleteCurrentFallsBackToRemaining(t *testing.T) {
	s := setupServices(t)
	ctx, _ := testutil.UserContext(t)

	older, err := s.projects.Create(ctx, &domain.CreateProjectRequest{Name: "Antigo"})
	require.NoError(t, err)
	newer, err := s.projects.Create(ctx, &domain.CreateProjectRequest{Name: "Novo"})
	require.NoError(t, err)

	result, err := s.projects.Delete(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, result.Current.ID)
}

func TestProjectService_DeleteRemovesItems(t *testing.T) {
	s := setupServices(t)
	ctx, user := testutil.UserContext(t)

	project := testutil.CreateTestProject(t, s.db, user.UserID, "Com itens")
	testutil.CreateTestItem(t, s.db, domain.CategoryMaterials, project.ID, domain.LineItem{Item: "Viscose"})
	testutil.CreateTestItem(t, s.db, domain.CategoryProduction, project.ID, domain.LineItem{Item: "Acabamento"})

	_, err := s.projects.Delete(ctx, project.ID)
	require.NoError(t, err)

	for _, category := range domain.Categories {
		var count int64
		require.NoError(t, s.db.Table(category.Table()).Where("project_id = ?", project.ID).Count(&count).Error)
		assert.Zero(t, count, category)
	}
}

func TestProjectService_DatabaseFailuresNotifyUser(t *testing.T) {
	s := setupServices(t)
	ctx, user := testutil.UserContext(t)
	project := testutil.CreateTestProject(t, s.db, user.UserID, "Existente")
	require.NoError(t, s.db.Migrator().DropTable(&domain.Project{}))

	_, err := s.projects.Create(ctx, &domain.CreateProjectRequest{Name: "Nova coleção"})
	require.Error(t, err)

	_, err = s.projects.Delete(ctx, project.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrProjectNotFound)

	_, err = s.projects.List(ctx)
	require.Error(t, err)

	assert.Equal(t, []string{
		"Erro ao criar projeto",
		"Erro ao excluir projeto",
		"Erro ao carregar projetos",
	}, s.notices.messages())
	for _, notice := range s.notices.notices {
		assert.Equal(t, domain.NotificationError, notice.Variant)
	}
}

func TestProjectService_OtherUsersProjectsAreHidden(t *testing.T) {
	s := setupServices(t)
	aliceCtx, _ := testutil.UserContext(t)
	bobCtx, _ := testutil.UserContext(t)

	alices, err := s.projects.Current(aliceCtx)
	require.NoError(t, err)

	_, err = s.projects.Get(bobCtx, alices.ID)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	_, err = s.projects.Delete(bobCtx, alices.ID)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	_, err = s.projects.Workspace(bobCtx, alices.ID)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	_, err = s.projects.Select(bobCtx, alices.ID)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestProjectService_Workspace(t *testing.T) {
	s := setupServices(t)
	ctx, user := testutil.UserContext(t)

	project := testutil.CreateTestProject(t, s.db, user.UserID, "Ateliê")
	testutil.CreateTestItem(t, s.db, domain.CategoryMachines, project.ID, domain.LineItem{Item: "Overlock 3 fios", UnitPrice: 3200, Quantity: 1})

	ws, err := s.projects.Workspace(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ateliê", ws.Name)
	require.NotNil(t, ws.ID)
	assert.Equal(t, project.ID, *ws.ID)

	machines, err := ws.Store.ListItems(ctx, domain.CategoryMachines)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	assert.Equal(t, 3200.0, machines[0].UnitPrice)
}
