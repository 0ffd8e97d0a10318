package user

// Actor is the authenticated identity performing an operation, reduced to the
// fields authorization decisions depend on. Department carries the General
// fallback already applied.
type Actor struct {
	ID         string
	Name       string
	Role       Role
	Department string
}

// ReportScope describes which reports an actor may see. Zero value means all.
type ReportScope struct {
	OwnerID  string // non-empty: only reports submitted by this user
	Category string // non-empty: only reports in this category
}

// ScopeReports returns the visibility scope for report listings: users see
// their own submissions, admins see their department's category, superadmins
// see everything.
func ScopeReports(a Actor) ReportScope {
	switch a.Role {
	case RoleSuperadmin:
		return ReportScope{}
	case RoleAdmin:
		return ReportScope{Category: a.Department}
	default:
		return ReportScope{OwnerID: a.ID}
	}
}

// CanDecideReport reports whether the actor may change the status of, or
// annotate, a report in the given category. Superadmins are unconditional;
// admins are restricted to their own department.
func CanDecideReport(a Actor, category string) bool {
	switch a.Role {
	case RoleSuperadmin:
		return true
	case RoleAdmin:
		return category == a.Department
	default:
		return false
	}
}

// CanManageUsers gates the superadmin-only operations: viewing all users,
// changing roles, deciding admin requests, and broadcasting notifications.
func CanManageUsers(a Actor) bool {
	return a.Role == RoleSuperadmin
}

// CanRequestAdminAccess reports whether the actor may submit a promotion
// request. Admins and superadmins have nothing to request.
func CanRequestAdminAccess(a Actor) bool {
	return a.Role == RoleUser
}
