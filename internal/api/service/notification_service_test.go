package service

import (
	"context"
	"fmt"
	"testing"

	"jobboard/internal/api/models"
	"jobboard/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationService(t *testing.T) (NotificationService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewNotificationService(repository.NewNotificationRepository(env.db), nil, testLogger())
	return svc, env
}

func TestNotifyAndList(t *testing.T) {
	svc, env := newNotificationService(t)
	ctx := context.Background()
	session := sessionFor(env.seeker)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, env.seeker.ID, models.NotificationTypeMessage, fmt.Sprintf("Note %d", i), "hello", nil))
	}
	require.NoError(t, svc.Notify(ctx, env.recruiter.ID, models.NotificationTypeMessage, "Other", "hello", nil))

	// newest first, recipient-scoped
	notes, err := svc.List(ctx, session, 10)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "Note 2", notes[0].Title)

	// out-of-range limits fall back to the default page size
	notes, err = svc.List(ctx, session, -5)
	require.NoError(t, err)
	assert.Len(t, notes, 3)

	notes, err = svc.List(ctx, session, 2)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestUnreadCountAndMarkAsRead(t *testing.T) {
	svc, env := newNotificationService(t)
	ctx := context.Background()
	session := sessionFor(env.seeker)

	require.NoError(t, svc.Notify(ctx, env.seeker.ID, models.NotificationTypeMessage, "One", "m", nil))
	require.NoError(t, svc.Notify(ctx, env.seeker.ID, models.NotificationTypeMessage, "Two", "m", nil))

	count, err := svc.UnreadCount(ctx, session)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	notes, err := svc.List(ctx, session, 10)
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead(ctx, session, notes[0].ID))
	count, err = svc.UnreadCount(ctx, session)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// marking again changes nothing
	require.NoError(t, svc.MarkAsRead(ctx, session, notes[0].ID))
	count, err = svc.UnreadCount(ctx, session)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

// Marking someone else's notification is a silent no-op; their unread count
// does not move.
func TestMarkAsReadScopedToRecipient(t *testing.T) {
	svc, env := newNotificationService(t)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, env.recruiter.ID, models.NotificationTypeMessage, "Private", "m", nil))
	notes, err := svc.List(ctx, sessionFor(env.recruiter), 10)
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead(ctx, sessionFor(env.seeker), notes[0].ID))

	count, err := svc.UnreadCount(ctx, sessionFor(env.recruiter))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMarkAllAsRead(t *testing.T) {
	svc, env := newNotificationService(t)
	ctx := context.Background()
	session := sessionFor(env.seeker)

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.Notify(ctx, env.seeker.ID, models.NotificationTypeMessage, "n", "m", nil))
	}
	require.NoError(t, svc.Notify(ctx, env.recruiter.ID, models.NotificationTypeMessage, "n", "m", nil))

	require.NoError(t, svc.MarkAllAsRead(ctx, session))

	count, err := svc.UnreadCount(ctx, session)
	require.NoError(t, err)
	assert.Zero(t, count)

	// only the caller's notifications were touched
	count, err = svc.UnreadCount(ctx, sessionFor(env.recruiter))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
