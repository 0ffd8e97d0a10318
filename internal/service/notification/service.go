package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reporthub/reporthub-backend-go/internal/domain/notification"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/sse"
)

type service struct {
	repo  notification.Repository
	users user.UserRepository
	hub   *sse.Hub
}

// NewNotificationService creates the mailbox service. The hub receives a
// per-user push for every appended entry.
func NewNotificationService(repo notification.Repository, users user.UserRepository, hub *sse.Hub) notification.Service {
	return &service{
		repo:  repo,
		users: users,
		hub:   hub,
	}
}

// Notify implements notification.Service. Append failures are logged and
// swallowed: a missing notification must never fail the mutation that
// triggered it.
func (s *service) Notify(ctx context.Context, userID, message string) {
	if err := s.append(ctx, userID, message); err != nil {
		slog.Error("failed to notify user", "user_id", userID, "error", err)
	}
}

// NotifyDepartmentAdmins implements notification.Service.
func (s *service) NotifyDepartmentAdmins(ctx context.Context, department, message string) {
	admins, err := s.users.ListAdminsForDepartment(ctx, department)
	if err != nil {
		slog.Error("failed to list department admins", "department", department, "error", err)
		return
	}
	for _, admin := range admins {
		s.Notify(ctx, admin.ID, message)
	}
}

// Send implements notification.Service.
func (s *service) Send(ctx context.Context, userID, message string) error {
	if userID == user.BroadcastTargetAll {
		count, err := s.repo.AppendToAll(ctx, message)
		if err != nil {
			return fmt.Errorf("failed to broadcast notification: %w", err)
		}
		slog.Info("broadcast notification delivered", "mailboxes", count)
		s.hub.Broadcast(sse.Event{Name: sse.EventNotification, Message: message})
		return nil
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.append(ctx, userID, message)
}

func (s *service) append(ctx context.Context, userID, message string) error {
	n := &notification.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Append(ctx, n); err != nil {
		return err
	}
	s.hub.Publish(userID, sse.Event{
		Name:    sse.EventNotification,
		Message: message,
		Data:    notification.ToResponse(*n),
	})
	return nil
}

// ListForUser implements notification.Service.
func (s *service) ListForUser(ctx context.Context, userID string) ([]notification.NotificationResponse, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]notification.NotificationResponse, len(entries))
	for i, n := range entries {
		responses[i] = notification.ToResponse(n)
	}
	return responses, nil
}

// UnreadCount implements notification.Service.
func (s *service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead implements notification.Service. Marking an already-read entry is
// a no-op success.
func (s *service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

// ClearAll implements notification.Service.
func (s *service) ClearAll(ctx context.Context, userID string) error {
	return s.repo.ClearAll(ctx, userID)
}
