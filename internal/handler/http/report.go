package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reporthub/reporthub-backend-go/internal/domain/report"
	"github.com/reporthub/reporthub-backend-go/internal/handler/http/middleware"
	"github.com/reporthub/reporthub-backend-go/internal/handler/http/response"
)

// ReportHandler defines the report lifecycle handler interface
type ReportHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	DecideStatus(w http.ResponseWriter, r *http.Request)
	AnnotateSummary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// Create implements ReportHandler.
func (h *reportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq report.CreateReportRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.reportService.Create(r.Context(), middleware.UserID(r), createReq)
	if err != nil {
		slog.Error("Create report service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Report submitted successfully", created)
}

// List implements ReportHandler. Results come back scoped to the caller's
// role; category and status narrow within that scope.
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := report.ListFilter{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}

	reports, err := h.reportService.List(r.Context(), middleware.UserID(r), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reports)
}

// DecideStatus implements ReportHandler.
func (h *reportHandlerImpl) DecideStatus(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")

	var decideReq report.DecideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&decideReq); err != nil {
		slog.Error("Decide status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.reportService.DecideStatus(r.Context(), middleware.UserID(r), reportID, decideReq)
	if err != nil {
		slog.Error("Decide status service error", "error", err, "report_id", reportID)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report status updated", updated)
}

// AnnotateSummary implements ReportHandler.
func (h *reportHandlerImpl) AnnotateSummary(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")

	var summaryReq report.AnnotateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&summaryReq); err != nil {
		slog.Error("Annotate summary decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.reportService.AnnotateSummary(r.Context(), middleware.UserID(r), reportID, summaryReq)
	if err != nil {
		slog.Error("Annotate summary service error", "error", err, "report_id", reportID)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report summary updated", updated)
}
