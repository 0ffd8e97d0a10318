package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reporthub/reporthub-backend-go/internal/domain/notification"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/mocks"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/sse"
)

func newService() (notification.Service, *mocks.MockUserRepository, *mocks.MockNotificationRepository, *sse.Hub) {
	users := mocks.NewMockUserRepository()
	repo := mocks.NewMockNotificationRepository(users.ListIDs)
	hub := sse.NewHub()
	return NewNotificationService(repo, users, hub), users, repo, hub
}

func TestSendToUser(t *testing.T) {
	svc, users, repo, hub := newService()
	alice := users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})

	ch, cancel := hub.Subscribe(alice.ID)
	defer cancel()

	err := svc.Send(context.Background(), alice.ID, "System maintenance at noon")
	require.NoError(t, err)

	require.Len(t, repo.Mailboxes[alice.ID], 1)
	entry := repo.Mailboxes[alice.ID][0]
	assert.Equal(t, "System maintenance at noon", entry.Message)
	assert.False(t, entry.Read)

	select {
	case ev := <-ch:
		assert.Equal(t, sse.EventNotification, ev.Name)
		assert.Equal(t, "System maintenance at noon", ev.Message)
	default:
		t.Fatal("expected a pushed event")
	}
}

func TestSendToUnknownUser(t *testing.T) {
	svc, _, repo, _ := newService()

	err := svc.Send(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Empty(t, repo.Mailboxes)
}

func TestSendBroadcast(t *testing.T) {
	svc, users, repo, hub := newService()
	alice := users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	bob := users.Add(user.User{Name: "Bob", Email: "bob@example.com", Role: user.RoleAdmin})

	ch, cancel := hub.Subscribe(bob.ID)
	defer cancel()

	err := svc.Send(context.Background(), user.BroadcastTargetAll, "All hands at 3pm")
	require.NoError(t, err)

	// Every user's mailbox gets its own entry.
	assert.Len(t, repo.Mailboxes[alice.ID], 1)
	assert.Len(t, repo.Mailboxes[bob.ID], 1)

	select {
	case ev := <-ch:
		assert.Equal(t, sse.EventNotification, ev.Name)
		assert.Equal(t, "All hands at 3pm", ev.Message)
	default:
		t.Fatal("expected a broadcast event")
	}
}

func TestNotifySwallowsAppendFailure(t *testing.T) {
	svc, users, repo, _ := newService()
	alice := users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})
	repo.AppendError = assert.AnError

	// Must not panic or surface the error.
	svc.Notify(context.Background(), alice.ID, "dropped")
	assert.Empty(t, repo.Mailboxes[alice.ID])
}

func TestNotifyDepartmentAdmins(t *testing.T) {
	svc, users, repo, _ := newService()
	fin := users.Add(user.User{Name: "Fiona", Email: "fiona@example.com", Role: user.RoleAdmin, Department: "Finance Report"})
	sales := users.Add(user.User{Name: "Sam", Email: "sam@example.com", Role: user.RoleAdmin, Department: "Sales Report"})
	super := users.Add(user.User{Name: "Root", Email: "root@example.com", Role: user.RoleSuperadmin})

	svc.NotifyDepartmentAdmins(context.Background(), "Finance Report", "New Finance Report submitted by Alice")

	assert.Len(t, repo.Mailboxes[fin.ID], 1)
	assert.Empty(t, repo.Mailboxes[sales.ID])
	assert.Empty(t, repo.Mailboxes[super.ID])
}

func TestMailboxReadLifecycle(t *testing.T) {
	svc, users, _, _ := newService()
	alice := users.Add(user.User{Name: "Alice", Email: "alice@example.com", Role: user.RoleUser})

	ctx := context.Background()
	require.NoError(t, svc.Send(ctx, alice.ID, "first"))
	require.NoError(t, svc.Send(ctx, alice.ID, "second"))

	list, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, "second", list[0].Message)

	count, err := svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.MarkRead(ctx, alice.ID, list[0].ID))
	// Marking again is a no-op success.
	require.NoError(t, svc.MarkRead(ctx, alice.ID, list[0].ID))

	count, err = svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Owner-scoped: another user cannot mark it.
	err = svc.MarkRead(ctx, "someone-else", list[1].ID)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)

	require.NoError(t, svc.ClearAll(ctx, alice.ID))
	list, err = svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
