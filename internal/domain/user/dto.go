package user

import (
	"time"

	"github.com/reporthub/reporthub-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses. Credential and
// reset-token fields are never serialized.
type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	AdminRequest string    `json:"admin_request"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse strips a User down to its API shape.
func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		Department:   u.DepartmentOrDefault(),
		AdminRequest: string(u.AdminRequest),
		CreatedAt:    u.CreatedAt,
	}
}

// UpdateUserRoleRequest represents a superadmin promoting or demoting a user.
// Department is optional; when set it re-scopes the target at the same time.
type UpdateUserRoleRequest struct {
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
}

func (r *UpdateUserRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !validator.IsInSlice(r.Role, ValidRoles()) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Decisions on a pending admin request.
const (
	AdminRequestActionApprove = "approve"
	AdminRequestActionReject  = "reject"
)

// AdminRequestDecisionRequest represents a superadmin deciding a pending
// promotion request.
type AdminRequestDecisionRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
}

func (r *AdminRequestDecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if !validator.IsInSlice(r.Action, []string{AdminRequestActionApprove, AdminRequestActionReject}) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "invalid action",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BroadcastTargetAll addresses a notification to every user's mailbox.
const BroadcastTargetAll = "all"

// SendNotificationRequest represents a superadmin sending a notification to
// one user or to everyone.
type SendNotificationRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func (r *SendNotificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.Message) {
		errs = append(errs, validator.ValidationError{
			Field:   "message",
			Message: "message is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OverviewResponse is the superadmin dashboard summary.
type OverviewResponse struct {
	Users       int            `json:"users"`
	Admins      int            `json:"admins"`
	Reports     int            `json:"reports"`
	ReportStats map[string]int `json:"report_stats"`
}
