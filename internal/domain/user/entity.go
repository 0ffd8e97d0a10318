package user

import "time"

type Role string

const (
	RoleUser       Role = "user"       // Regular submitter
	RoleAdmin      Role = "admin"      // Reviews reports in own department
	RoleSuperadmin Role = "superadmin" // Full access, manages roles and broadcasts
)

// ValidRoles returns all assignable roles.
func ValidRoles() []string {
	return []string{string(RoleUser), string(RoleAdmin), string(RoleSuperadmin)}
}

// AdminRequestState tracks the promotion-request workflow for a user.
type AdminRequestState string

const (
	AdminRequestNone     AdminRequestState = "none"
	AdminRequestPending  AdminRequestState = "pending"
	AdminRequestApproved AdminRequestState = "approved"
	AdminRequestRejected AdminRequestState = "rejected"
)

// DefaultDepartment is assumed when a user has no department set.
const DefaultDepartment = "General"

type User struct {
	ID                  string
	Email               string
	Name                string
	PasswordHash        *string
	Role                Role
	Department          string
	AdminRequest        AdminRequestState
	OAuthProvider       *string
	OAuthProviderID     *string
	ResetPasswordToken  *string
	ResetPasswordExpire *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsAdmin checks if user is admin or superadmin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}

// IsSuperadmin checks if user is superadmin
func (u *User) IsSuperadmin() bool {
	return u.Role == RoleSuperadmin
}

// DepartmentOrDefault returns the user's department, falling back to General.
func (u *User) DepartmentOrDefault() string {
	if u.Department == "" {
		return DefaultDepartment
	}
	return u.Department
}

// Actor derives the authorization view of this user.
func (u *User) Actor() Actor {
	return Actor{
		ID:         u.ID,
		Name:       u.Name,
		Role:       u.Role,
		Department: u.DepartmentOrDefault(),
	}
}
