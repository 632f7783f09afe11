package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackw9829/academic-tracker/internal/models"
)

func TestNotificationService_EmitAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.notifications.Emit(ctx, "student-1", models.NotificationGradePosted, "graded", "s1"))
	require.NoError(t, env.notifications.Emit(ctx, "student-2", models.NotificationGradePosted, "graded", "s2"))
	require.NoError(t, env.notifications.Emit(ctx, "", models.NotificationNewAssessment, "new hw", "a1"))

	// Свои + глобальные, чужих не видно
	notifications, err := env.notifications.ListForUser(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	types := make(map[string]bool)
	for _, n := range notifications {
		types[n.Type] = true
	}
	assert.True(t, types[models.NotificationGradePosted])
	assert.True(t, types[models.NotificationNewAssessment])
}

func TestNotificationService_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.notifications.Emit(ctx, "student-1", models.NotificationGradePosted, "graded", "s1"))

	notifications, err := env.notifications.ListForUser(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.False(t, notifications[0].Read)

	require.NoError(t, env.notifications.MarkRead(ctx, "student-1", notifications[0].ID))

	notifications, err = env.notifications.ListForUser(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].Read)
}

func TestNotificationService_MarkReadGlobalIsShared(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.notifications.Emit(ctx, "", models.NotificationNewAssessment, "new hw", "a1"))

	list, err := env.notifications.ListForUser(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, env.notifications.MarkRead(ctx, "student-1", list[0].ID))

	// Broadcast-запись одна на всех: read виден и другим пользователям
	other, err := env.notifications.ListForUser(ctx, "student-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.True(t, other[0].Read)
}

func TestNotificationService_MarkReadMissing(t *testing.T) {
	env := newTestEnv(t)

	err := env.notifications.MarkRead(context.Background(), "student-1", "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}
