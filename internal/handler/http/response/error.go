package response

import (
	"errors"
	"net/http"

	"github.com/reporthub/reporthub-backend-go/internal/domain/auth"
	"github.com/reporthub/reporthub-backend-go/internal/domain/notification"
	"github.com/reporthub/reporthub-backend-go/internal/domain/report"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrOAuthStateMismatch):
		Unauthorized(w, "OAuth state mismatch")
	case errors.Is(err, auth.ErrOAuthNotConfigured):
		NotFound(w, "Google login is not configured")

	// Authorization errors
	case errors.Is(err, user.ErrSuperadminRequired),
		errors.Is(err, user.ErrAdminRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrReportAccessForbidden):
		Forbidden(w, "You cannot modify this report")
	case errors.Is(err, user.ErrElevatedSelfRegister):
		Forbidden(w, "Elevated roles cannot be self-assigned")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrLastSuperadmin):
		Conflict(w, "Cannot remove the last superadmin")
	case errors.Is(err, user.ErrAlreadyAdmin):
		Conflict(w, "You are already an admin")
	case errors.Is(err, user.ErrAdminRequestPending):
		Conflict(w, "Request already pending")
	case errors.Is(err, user.ErrInvalidResetToken):
		BadRequest(w, "Invalid or expired reset token", nil)

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Report not found")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
