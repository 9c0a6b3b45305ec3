package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/storage"
	"github.com/odo-atelier/budget-api/internal/store"
	"github.com/odo-atelier/budget-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type noticeRecorder struct {
	mu      sync.Mutex
	notices []store.Notice
}

func (r *noticeRecorder) Notify(ctx context.Context, notice store.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

func (r *noticeRecorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Message
	}
	return out
}

type services struct {
	db            *gorm.DB
	notices       *noticeRecorder
	projects      *service.ProjectService
	budgets       *service.BudgetService
	exports       *service.ExportService
	notifications *service.NotificationService
	auth          *service.AuthService
	storage       storage.Storage
}

func setupServices(t *testing.T) services {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	notices := &noticeRecorder{}

	projectRepo := repository.NewProjectRepository(db)
	backend := store.NewRemoteBackend(repository.NewItemRepository(db), projectRepo, notices, logger)
	projects := service.NewProjectService(projectRepo, backend, notices, logger)

	fileStorage, err := storage.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)

	return services{
		db:            db,
		notices:       notices,
		projects:      projects,
		budgets:       service.NewBudgetService(logger),
		exports:       service.NewExportService(projects, repository.NewExportFileRepository(db), fileStorage, logger),
		notifications: service.NewNotificationService(repository.NewNotificationRepository(db), logger),
		auth:          service.NewAuthService(repository.NewUserRepository(db), repository.NewRevokedTokenRepository(db), logger),
		storage:       fileStorage,
	}
}
