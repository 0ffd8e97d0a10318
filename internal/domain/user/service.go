package user

import "context"

// AdminService is the role administration surface: promotions, demotions,
// admin-request workflow, and superadmin broadcasts.
type AdminService interface {
	ListUsers(ctx context.Context, actorID string) ([]UserResponse, error)
	Overview(ctx context.Context, actorID string) (OverviewResponse, error)
	UpdateRole(ctx context.Context, actorID, targetID string, req UpdateUserRoleRequest) (UserResponse, error)

	RequestAdminAccess(ctx context.Context, actorID string) error
	ListPendingAdminRequests(ctx context.Context, actorID string) ([]UserResponse, error)
	DecideAdminRequest(ctx context.Context, actorID string, req AdminRequestDecisionRequest) error

	SendNotification(ctx context.Context, actorID string, req SendNotificationRequest) error

	// EnsureInitialSuperadmin seeds the first superadmin at boot when none exists.
	EnsureInitialSuperadmin(ctx context.Context, name, email, password string) error
}
