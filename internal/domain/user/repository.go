package user

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Listings
	List(ctx context.Context) ([]User, error)
	ListAdminsForDepartment(ctx context.Context, department string) ([]User, error)
	ListByAdminRequest(ctx context.Context, state AdminRequestState) ([]User, error)
	ListIDs(ctx context.Context) ([]string, error)

	// Role administration
	CountByRole(ctx context.Context, role Role) (int, error)
	UpdateRole(ctx context.Context, id string, role Role, department *string) error
	UpdateAdminRequest(ctx context.Context, id string, state AdminRequestState, role *Role) error

	// Credential recovery
	SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, tokenHash string) (User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
