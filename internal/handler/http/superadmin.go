package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/handler/http/middleware"
	"github.com/reporthub/reporthub-backend-go/internal/handler/http/response"
)

// SuperadminHandler defines the role administration handler interface
type SuperadminHandler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
	Overview(w http.ResponseWriter, r *http.Request)
	UpdateRole(w http.ResponseWriter, r *http.Request)
	ListAdminRequests(w http.ResponseWriter, r *http.Request)
	DecideAdminRequest(w http.ResponseWriter, r *http.Request)
	SendNotification(w http.ResponseWriter, r *http.Request)
}

type superadminHandlerImpl struct {
	adminService user.AdminService
}

func NewSuperadminHandler(adminService user.AdminService) SuperadminHandler {
	return &superadminHandlerImpl{adminService: adminService}
}

// ListUsers implements SuperadminHandler.
func (h *superadminHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// Overview implements SuperadminHandler.
func (h *superadminHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.adminService.Overview(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, overview)
}

// UpdateRole implements SuperadminHandler.
func (h *superadminHandlerImpl) UpdateRole(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	var updateReq user.UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update role decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.adminService.UpdateRole(r.Context(), middleware.UserID(r), targetID, updateReq)
	if err != nil {
		slog.Error("Update role service error", "error", err, "target_id", targetID)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User role updated", updated)
}

// ListAdminRequests implements SuperadminHandler.
func (h *superadminHandlerImpl) ListAdminRequests(w http.ResponseWriter, r *http.Request) {
	pending, err := h.adminService.ListPendingAdminRequests(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, pending)
}

// DecideAdminRequest implements SuperadminHandler.
func (h *superadminHandlerImpl) DecideAdminRequest(w http.ResponseWriter, r *http.Request) {
	var decisionReq user.AdminRequestDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&decisionReq); err != nil {
		slog.Error("Decide admin request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.adminService.DecideAdminRequest(r.Context(), middleware.UserID(r), decisionReq); err != nil {
		slog.Error("Decide admin request service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Admin request decided", nil)
}

// SendNotification implements SuperadminHandler.
func (h *superadminHandlerImpl) SendNotification(w http.ResponseWriter, r *http.Request) {
	var sendReq user.SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&sendReq); err != nil {
		slog.Error("Send notification decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.adminService.SendNotification(r.Context(), middleware.UserID(r), sendReq); err != nil {
		slog.Error("Send notification service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification sent", nil)
}
