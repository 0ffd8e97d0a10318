package http

import (
	"net/http"

	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/handler/http/middleware"
	"github.com/reporthub/reporthub-backend-go/internal/handler/http/response"
)

// UserHandler covers the self-service user surface
type UserHandler interface {
	RequestAdminAccess(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	adminService user.AdminService
}

func NewUserHandler(adminService user.AdminService) UserHandler {
	return &userHandlerImpl{adminService: adminService}
}

// RequestAdminAccess implements UserHandler.
func (h *userHandlerImpl) RequestAdminAccess(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.RequestAdminAccess(r.Context(), middleware.UserID(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Admin access request submitted", nil)
}
