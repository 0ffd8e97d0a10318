package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrSuperadminRequired      = errors.New("superadmin access required")
	ErrAdminRequired           = errors.New("admin access required")
	ErrReportAccessForbidden   = errors.New("you cannot modify this report")
	ErrLastSuperadmin          = errors.New("cannot remove the last superadmin")
	ErrAlreadyAdmin            = errors.New("you are already an admin")
	ErrAdminRequestPending     = errors.New("request already pending")
	ErrElevatedSelfRegister    = errors.New("you cannot register directly as admin or superadmin")
	ErrInvalidResetToken       = errors.New("invalid or expired token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
