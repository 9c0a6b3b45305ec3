package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/http/handler"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/storage"
	"github.com/odo-atelier/budget-api/internal/store"
	"github.com/odo-atelier/budget-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testAPI struct {
	db     *gorm.DB
	router chi.Router
}

// setupTestAPI wires every handler the way the router does, minus authentication
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	notificationService := service.NewNotificationService(repository.NewNotificationRepository(db), logger)
	projectRepo := repository.NewProjectRepository(db)
	backend := store.NewRemoteBackend(repository.NewItemRepository(db), projectRepo, notificationService, logger)
	projectService := service.NewProjectService(projectRepo, backend, notificationService, logger)
	workspaceService := service.NewWorkspaceService(store.NewMemoryRegistry(store.SampleSeed), "Orçamento Odò", logger)
	budgetService := service.NewBudgetService(logger)

	fileStorage, err := storage.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)
	exportService := service.NewExportService(projectService, repository.NewExportFileRepository(db), fileStorage, logger)
	authService := service.NewAuthService(repository.NewUserRepository(db), repository.NewRevokedTokenRepository(db), logger)

	projectHandler := handler.NewProjectHandler(projectService, logger)
	projectBudget := handler.NewBudgetHandler(budgetService, exportService, handler.ProjectWorkspace(projectService), logger)
	scratchBudget := handler.NewBudgetHandler(budgetService, exportService, handler.ScratchWorkspace(workspaceService), logger)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, budgetService, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	r := chi.NewRouter()
	r.Get("/auth/me", authHandler.Me)
	r.Post("/auth/sign-out", authHandler.SignOut)
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", projectHandler.List)
		r.Post("/", projectHandler.Create)
		r.Get("/current", projectHandler.Current)
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", projectHandler.GetByID)
			r.Put("/", projectHandler.Update)
			r.Delete("/", projectHandler.Delete)
			r.Post("/select", projectHandler.Select)
			r.Get("/exports", exportHandler.List)
			r.Post("/exports", exportHandler.Create)
			r.Get("/exports/{exportID}/download", exportHandler.Download)
			projectBudget.Routes(r)
		})
	})
	r.Route("/workspace", func(r chi.Router) {
		r.Post("/reset", workspaceHandler.Reset)
		scratchBudget.Routes(r)
	})
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", notificationHandler.List)
		r.Get("/count", notificationHandler.UnreadCount)
		r.Put("/read-all", notificationHandler.MarkAllRead)
		r.Put("/{id}/read", notificationHandler.MarkRead)
	})

	return &testAPI{db: db, router: r}
}

func (a *testAPI) do(t *testing.T, ctx context.Context, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), target), rr.Body.String())
}

func anonymous() context.Context {
	return context.Background()
}

func withUser(user *auth.UserContext) context.Context {
	return auth.WithUserContext(context.Background(), user)
}
