package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/config"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/http/handler"
	"github.com/odo-atelier/budget-api/internal/http/middleware"
	"github.com/odo-atelier/budget-api/internal/http/router"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/storage"
	"github.com/odo-atelier/budget-api/internal/store"
	"github.com/odo-atelier/budget-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testSecret = "router-test-signing-secret"
	testAPIKey = "router-test-api-key"
)

func setupRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	cfg := &config.Config{
		App:       config.AppConfig{Name: "Odo Budget API", Environment: "development"},
		Auth:      config.AuthConfig{JWTSecret: testSecret, Audience: "authenticated"},
		ApiKey:    config.ApiKeyConfig{Value: testAPIKey},
		Server:    config.ServerConfig{EnableSwagger: true},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	notificationService := service.NewNotificationService(repository.NewNotificationRepository(db), log)
	projectRepo := repository.NewProjectRepository(db)
	backend := store.NewRemoteBackend(repository.NewItemRepository(db), projectRepo, notificationService, log)
	projectService := service.NewProjectService(projectRepo, backend, notificationService, log)
	budgetService := service.NewBudgetService(log)
	workspaceService := service.NewWorkspaceService(store.NewMemoryRegistry(store.SampleSeed), "Orçamento Odò", log)
	fileStorage, err := storage.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)
	exportService := service.NewExportService(projectService, repository.NewExportFileRepository(db), fileStorage, log)
	authService := service.NewAuthService(repository.NewUserRepository(db), repository.NewRevokedTokenRepository(db), log)

	rt := router.NewRouter(cfg, log, db,
		auth.NewMiddleware(cfg, authService, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		router.Handlers{
			Auth:          handler.NewAuthHandler(authService, log),
			Project:       handler.NewProjectHandler(projectService, log),
			ProjectBudget: handler.NewBudgetHandler(budgetService, exportService, handler.ProjectWorkspace(projectService), log),
			ScratchBudget: handler.NewBudgetHandler(budgetService, exportService, handler.ScratchWorkspace(workspaceService), log),
			Workspace:     handler.NewWorkspaceHandler(workspaceService, budgetService, log),
			Export:        handler.NewExportHandler(exportService, log),
			Notification:  handler.NewNotificationHandler(notificationService, log),
		},
	)
	return rt.Setup(), db
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "bia@odo.test",
		"aud":   "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"full_name": "Bia Lima",
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func request(h http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := setupRouter(t)

	rr := request(h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = request(h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var ready map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ready))
	assert.Equal(t, "healthy", ready["status"])

	rr = request(h, http.MethodGet, "/health/db", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupRouter(t)

	request(h, http.MethodGet, "/health", nil)
	rr := request(h, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestSwaggerDoc(t *testing.T) {
	h, _ := setupRouter(t)

	rr := request(h, http.MethodGet, "/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Odo Budget API")
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	h, _ := setupRouter(t)

	rr := request(h, http.MethodGet, "/api/v1/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = request(h, http.MethodGet, "/api/v1/workspace/summary", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPI_UserRoutes(t *testing.T) {
	h, _ := setupRouter(t)
	headers := map[string]string{"Authorization": bearer(t, uuid.New())}

	rr := request(h, http.MethodGet, "/api/v1/projects", headers)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var projects []domain.ProjectDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, domain.DefaultProjectName, projects[0].Name)

	rr = request(h, http.MethodGet, "/api/v1/projects/"+projects[0].ID.String()+"/summary", headers)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = request(h, http.MethodGet, "/api/v1/workspace/items/materials", headers)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = request(h, http.MethodGet, "/api/v1/auth/me", headers)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"initials":"BL"`)
}

func TestAPI_APIKeyReachesProjectRoutesOnly(t *testing.T) {
	h, db := setupRouter(t)
	project := testutil.CreateTestProject(t, db, uuid.New(), "Coleção Inverno")
	headers := map[string]string{"x-api-key": testAPIKey}

	rr := request(h, http.MethodGet, "/api/v1/projects/"+project.ID.String()+"/export.csv", headers)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv"))

	rr = request(h, http.MethodDelete, "/api/v1/projects/"+project.ID.String(), headers)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = request(h, http.MethodGet, "/api/v1/projects", headers)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
