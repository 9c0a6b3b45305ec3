package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/store"
	"github.com/odo-atelier/budget-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_NotifyPersistsForUser(t *testing.T) {
	s := setupServices(t)
	ctx, _ := testutil.UserContext(t)

	s.notifications.Notify(ctx, store.Notice{Variant: domain.NotificationSuccess, Title: "Sucesso", Message: "Projeto criado com sucesso"})
	s.notifications.Notify(ctx, store.Notice{Variant: domain.NotificationError, Title: "Erro", Message: "Erro ao adicionar item"})

	page, err := s.notifications.List(ctx, repository.NotificationFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	errorsOnly, err := s.notifications.List(ctx, repository.NotificationFilter{Variant: string(domain.NotificationError)}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), errorsOnly.Total)
	dtos := errorsOnly.Data.([]domain.NotificationDTO)
	assert.Equal(t, "Erro ao adicionar item", dtos[0].Message)

	count, err := s.notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count.Count)
}

func TestNotificationService_NotifySkipsSystemCallers(t *testing.T) {
	s := setupServices(t)
	ctx := auth.WithUserContext(context.Background(), auth.NewSystemContext())

	s.notifications.Notify(ctx, store.Notice{Variant: domain.NotificationError, Title: "Erro", Message: "Erro ao remover item"})
	s.notifications.Notify(context.Background(), store.Notice{Variant: domain.NotificationError, Title: "Erro", Message: "Erro ao remover item"})

	var count int64
	require.NoError(t, s.db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNotificationService_MarkRead(t *testing.T) {
	s := setupServices(t)
	ctx, user := testutil.UserContext(t)
	otherCtx, _ := testutil.UserContext(t)

	created, err := s.notifications.CreateForUser(ctx, user.UserID, store.Notice{Variant: domain.NotificationSuccess, Title: "Sucesso", Message: "Projeto excluído"})
	require.NoError(t, err)

	err = s.notifications.MarkRead(otherCtx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotificationNotFound)

	require.NoError(t, s.notifications.MarkRead(ctx, created.ID))

	unread, err := s.notifications.List(ctx, repository.NotificationFilter{UnreadOnly: true}, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, unread.Total)

	err = s.notifications.MarkRead(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotificationNotFound)
}

func TestNotificationService_MarkAllAndPurge(t *testing.T) {
	s := setupServices(t)
	ctx, user := testutil.UserContext(t)

	for i := 0; i < 3; i++ {
		_, err := s.notifications.CreateForUser(ctx, user.UserID, store.Notice{Variant: domain.NotificationSuccess, Title: "Sucesso", Message: "ok"})
		require.NoError(t, err)
	}
	require.NoError(t, s.notifications.MarkAllRead(ctx))

	count, err := s.notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count.Count)

	// Not old enough yet
	deleted, err := s.notifications.PurgeRead(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = s.notifications.PurgeRead(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

func TestNotificationService_RequiresUser(t *testing.T) {
	s := setupServices(t)

	_, err := s.notifications.List(context.Background(), repository.NotificationFilter{}, 1, 20)
	assert.ErrorIs(t, err, service.ErrUserContextRequired)
}
