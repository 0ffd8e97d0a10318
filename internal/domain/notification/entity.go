package notification

import "time"

// Notification is one mailbox entry. Entries are owned by exactly one user,
// append-only except for the read flag, and removed only by an explicit
// clear-all.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
