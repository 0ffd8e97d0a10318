package notification

import "context"

// Service is the mailbox surface plus the best-effort notifier used by the
// report and role managers.
type Service interface {
	// Notify appends a mailbox entry and pushes it to the user's live
	// sessions. Failures are logged and swallowed so the triggering mutation
	// is never blocked.
	Notify(ctx context.Context, userID, message string)

	// NotifyDepartmentAdmins notifies every admin scoped to the department,
	// best-effort like Notify.
	NotifyDepartmentAdmins(ctx context.Context, department, message string)

	// Send delivers a notification as a primary operation: to one user, or to
	// every mailbox when userID is "all". Errors propagate.
	Send(ctx context.Context, userID, message string) error

	ListForUser(ctx context.Context, userID string) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	ClearAll(ctx context.Context, userID string) error
}
