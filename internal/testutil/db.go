package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/database"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with every table migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	// Every connection to ":memory:" is a new database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// UserContext returns a context authenticated as a new random user
func UserContext(t *testing.T) (context.Context, *auth.UserContext) {
	t.Helper()
	user := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Ana Souza",
		Email:       "ana@odo.test",
	}
	return auth.WithUserContext(context.Background(), user), user
}

// CreateTestProject inserts a project with the default configuration for userID
func CreateTestProject(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *domain.Project {
	t.Helper()
	project := &domain.Project{
		UserID: userID,
		Name:   name,
		Config: domain.DefaultBudgetConfig(),
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestItem inserts an item into a category of a project
func CreateTestItem(t *testing.T, db *gorm.DB, category domain.Category, projectID uuid.UUID, item domain.LineItem) *domain.LineItem {
	t.Helper()
	item.ProjectID = projectID
	require.NoError(t, db.Table(category.Table()).Create(&item).Error)
	return &item
}
