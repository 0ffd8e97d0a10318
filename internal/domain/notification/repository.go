package notification

import "context"

type Repository interface {
	// Append adds an entry to one user's mailbox, assigning an ID when unset.
	Append(ctx context.Context, n *Notification) error

	// AppendToAll adds one entry per existing user and returns how many
	// mailboxes were written.
	AppendToAll(ctx context.Context, message string) (int, error)

	// ListByUser returns the user's mailbox, newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)

	UnreadCount(ctx context.Context, userID string) (int, error)

	// MarkRead flips the read flag on an entry in the given user's mailbox.
	// Lookup is owner-scoped: an ID belonging to another mailbox is NotFound.
	MarkRead(ctx context.Context, userID, notificationID string) error

	// ClearAll empties the user's mailbox.
	ClearAll(ctx context.Context, userID string) error
}
