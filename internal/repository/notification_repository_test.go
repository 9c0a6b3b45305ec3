package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createNotification(t *testing.T, repo *repository.NotificationRepository, userID uuid.UUID, variant domain.NotificationVariant, title string) *domain.Notification {
	t.Helper()
	n := &domain.Notification{
		UserID:  userID,
		Variant: string(variant),
		Title:   title,
		Message: title,
	}
	require.NoError(t, repo.Create(t.Context(), n))
	return n
}

func TestNotificationRepository_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNotificationRepository(db)
	userID := uuid.New()

	createNotification(t, repo, userID, domain.NotificationSuccess, "Projeto criado")
	createNotification(t, repo, userID, domain.NotificationError, "Falha ao salvar")
	createNotification(t, repo, userID, domain.NotificationSuccess, "Item adicionado")
	createNotification(t, repo, uuid.New(), domain.NotificationSuccess, "De outra pessoa")

	all, total, err := repo.ListByUser(t.Context(), userID, repository.NotificationFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 2)

	errorsOnly, total, err := repo.ListByUser(t.Context(), userID, repository.NotificationFilter{Variant: string(domain.NotificationError)}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Falha ao salvar", errorsOnly[0].Title)
}

func TestNotificationRepository_ReadLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNotificationRepository(db)
	userID := uuid.New()

	first := createNotification(t, repo, userID, domain.NotificationSuccess, "A")
	createNotification(t, repo, userID, domain.NotificationSuccess, "B")

	assert.ErrorIs(t, repo.MarkAsRead(t.Context(), uuid.New(), first.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.MarkAsRead(t.Context(), userID, first.ID))

	count, err := repo.CountUnread(t.Context(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	unread, _, err := repo.ListByUser(t.Context(), userID, repository.NotificationFilter{UnreadOnly: true}, 1, 20)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "B", unread[0].Title)

	require.NoError(t, repo.MarkAllAsRead(t.Context(), userID))
	count, err = repo.CountUnread(t.Context(), userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	got, err := repo.GetByID(t.Context(), first.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)
	assert.NotNil(t, got.ReadAt)
}

func TestNotificationRepository_DeleteReadKeepsUnread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNotificationRepository(db)
	userID := uuid.New()

	read := createNotification(t, repo, userID, domain.NotificationSuccess, "lida")
	createNotification(t, repo, userID, domain.NotificationSuccess, "nova")
	require.NoError(t, repo.MarkAsRead(t.Context(), userID, read.ID))

	deleted, err := repo.DeleteRead(t.Context(), time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = repo.DeleteRead(t.Context(), time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := repo.CountUnread(t.Context(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
