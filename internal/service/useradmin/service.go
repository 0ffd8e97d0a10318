package useradmin

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/reporthub/reporthub-backend-go/internal/domain/notification"
	"github.com/reporthub/reporthub-backend-go/internal/domain/report"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
)

type service struct {
	users    user.UserRepository
	reports  report.ReportRepository
	notifier notification.Service
}

// NewAdminService creates the role administration service.
func NewAdminService(users user.UserRepository, reports report.ReportRepository, notifier notification.Service) user.AdminService {
	return &service{
		users:    users,
		reports:  reports,
		notifier: notifier,
	}
}

// requireSuperadmin loads the actor fresh and rejects anyone below superadmin.
// A role revoked mid-session takes effect on the next call.
func (s *service) requireSuperadmin(ctx context.Context, actorID string) (user.User, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return user.User{}, err
	}
	if !user.CanManageUsers(actor.Actor()) {
		return user.User{}, user.ErrSuperadminRequired
	}
	return actor, nil
}

// ListUsers implements user.AdminService.
func (s *service) ListUsers(ctx context.Context, actorID string) ([]user.UserResponse, error) {
	if _, err := s.requireSuperadmin(ctx, actorID); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, len(users))
	for i, u := range users {
		responses[i] = user.ToResponse(u)
	}
	return responses, nil
}

// Overview implements user.AdminService.
func (s *service) Overview(ctx context.Context, actorID string) (user.OverviewResponse, error) {
	if _, err := s.requireSuperadmin(ctx, actorID); err != nil {
		return user.OverviewResponse{}, err
	}

	userCount, err := s.users.CountByRole(ctx, user.RoleUser)
	if err != nil {
		return user.OverviewResponse{}, fmt.Errorf("failed to count users: %w", err)
	}
	adminCount, err := s.users.CountByRole(ctx, user.RoleAdmin)
	if err != nil {
		return user.OverviewResponse{}, fmt.Errorf("failed to count admins: %w", err)
	}
	superCount, err := s.users.CountByRole(ctx, user.RoleSuperadmin)
	if err != nil {
		return user.OverviewResponse{}, fmt.Errorf("failed to count superadmins: %w", err)
	}
	reportCount, err := s.reports.Count(ctx)
	if err != nil {
		return user.OverviewResponse{}, fmt.Errorf("failed to count reports: %w", err)
	}
	stats, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return user.OverviewResponse{}, fmt.Errorf("failed to count reports by status: %w", err)
	}

	return user.OverviewResponse{
		Users:       userCount,
		Admins:      adminCount + superCount,
		Reports:     reportCount,
		ReportStats: stats,
	}, nil
}

// UpdateRole implements user.AdminService. Demoting the last superadmin is
// refused so the system always keeps at least one.
func (s *service) UpdateRole(ctx context.Context, actorID, targetID string, req user.UpdateUserRoleRequest) (user.UserResponse, error) {
	if _, err := s.requireSuperadmin(ctx, actorID); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return user.UserResponse{}, err
	}

	newRole := user.Role(req.Role)
	if target.Role == user.RoleSuperadmin && newRole != user.RoleSuperadmin {
		count, err := s.users.CountByRole(ctx, user.RoleSuperadmin)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to count superadmins: %w", err)
		}
		if count <= 1 {
			return user.UserResponse{}, user.ErrLastSuperadmin
		}
	}

	if err := s.users.UpdateRole(ctx, targetID, newRole, req.Department); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update role: %w", err)
	}

	updated, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return user.UserResponse{}, err
	}

	s.notifier.Notify(ctx, targetID,
		fmt.Sprintf("Your role has been updated to %s by a superadmin.", req.Role))

	return user.ToResponse(updated), nil
}

// RequestAdminAccess implements user.AdminService.
func (s *service) RequestAdminAccess(ctx context.Context, actorID string) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !user.CanRequestAdminAccess(actor.Actor()) {
		return user.ErrAlreadyAdmin
	}
	if actor.AdminRequest == user.AdminRequestPending {
		return user.ErrAdminRequestPending
	}
	return s.users.UpdateAdminRequest(ctx, actorID, user.AdminRequestPending, nil)
}

// ListPendingAdminRequests implements user.AdminService.
func (s *service) ListPendingAdminRequests(ctx context.Context, actorID string) ([]user.UserResponse, error) {
	if _, err := s.requireSuperadmin(ctx, actorID); err != nil {
		return nil, err
	}

	pending, err := s.users.ListByAdminRequest(ctx, user.AdminRequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin requests: %w", err)
	}

	responses := make([]user.UserResponse, len(pending))
	for i, u := range pending {
		responses[i] = user.ToResponse(u)
	}
	return responses, nil
}

// DecideAdminRequest implements user.AdminService. Approval promotes the
// requester immediately; either way the requester is told the outcome.
func (s *service) DecideAdminRequest(ctx context.Context, actorID string, req user.AdminRequestDecisionRequest) error {
	if _, err := s.requireSuperadmin(ctx, actorID); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return err
	}

	if req.Action == user.AdminRequestActionApprove {
		role := user.RoleAdmin
		if err := s.users.UpdateAdminRequest(ctx, req.UserID, user.AdminRequestApproved, &role); err != nil {
			return fmt.Errorf("failed to approve admin request: %w", err)
		}
		s.notifier.Notify(ctx, req.UserID, "✅ Your request to become an admin has been approved.")
		return nil
	}

	if err := s.users.UpdateAdminRequest(ctx, req.UserID, user.AdminRequestRejected, nil); err != nil {
		return fmt.Errorf("failed to reject admin request: %w", err)
	}
	s.notifier.Notify(ctx, req.UserID, "❌ Your request to become an admin has been rejected.")
	return nil
}

// SendNotification implements user.AdminService.
func (s *service) SendNotification(ctx context.Context, actorID string, req user.SendNotificationRequest) error {
	if _, err := s.requireSuperadmin(ctx, actorID); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return s.notifier.Send(ctx, req.UserID, req.Message)
}

// EnsureInitialSuperadmin implements user.AdminService. Safe to call on every
// boot: it only acts when no superadmin exists and the seed email is free.
func (s *service) EnsureInitialSuperadmin(ctx context.Context, name, email, password string) error {
	count, err := s.users.CountByRole(ctx, user.RoleSuperadmin)
	if err != nil {
		return fmt.Errorf("failed to count superadmins: %w", err)
	}
	if count > 0 {
		return nil
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check seed email: %w", err)
	}
	if exists {
		return fmt.Errorf("seed email %s already registered with a lower role", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	hashStr := string(hash)

	created, err := s.users.Create(ctx, user.User{
		Name:         name,
		Email:        email,
		PasswordHash: &hashStr,
		Role:         user.RoleSuperadmin,
		AdminRequest: user.AdminRequestNone,
	})
	if err != nil {
		return fmt.Errorf("failed to create initial superadmin: %w", err)
	}

	slog.Info("seeded initial superadmin", "email", created.Email)
	return nil
}
