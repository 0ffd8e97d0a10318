package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reporthub/reporthub-backend-go/internal/domain/notification"
	"github.com/reporthub/reporthub-backend-go/internal/domain/report"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/sse"
)

type service struct {
	repo     report.ReportRepository
	users    user.UserRepository
	notifier notification.Service
	hub      *sse.Hub
}

// NewReportService creates the report lifecycle service. Every successful
// mutation broadcasts a live-update event to all connected sessions.
func NewReportService(repo report.ReportRepository, users user.UserRepository, notifier notification.Service, hub *sse.Hub) report.Service {
	return &service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		hub:      hub,
	}
}

// Create implements report.Service.
func (s *service) Create(ctx context.Context, actorID string, req report.CreateReportRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return report.ReportResponse{}, err
	}

	created, err := s.repo.Create(ctx, report.Report{
		Title:       req.Title,
		Description: req.Description,
		Category:    report.Category(req.Category),
		UserID:      actor.ID,
		Status:      report.StatusPending,
	})
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to create report: %w", err)
	}
	created.OwnerName = actor.Name
	created.OwnerEmail = actor.Email

	// Best-effort: a failed admin notification never fails the create.
	s.notifier.NotifyDepartmentAdmins(ctx, req.Category,
		fmt.Sprintf("New %s submitted by %s", req.Category, actor.Name))

	s.hub.Broadcast(sse.Event{Name: sse.EventReportCreated, Message: "New report submitted"})

	return report.ToResponse(created), nil
}

// List implements report.Service. The actor's authorization scope is applied
// first; the caller-supplied filter only narrows within it.
func (s *service) List(ctx context.Context, actorID string, filter report.ListFilter) ([]report.ReportResponse, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	scope := user.ScopeReports(actor.Actor())
	filter.OwnerID = scope.OwnerID
	if scope.Category != "" {
		if filter.Category != "" && filter.Category != scope.Category {
			// Requested category is outside the actor's department.
			return []report.ReportResponse{}, nil
		}
		filter.Category = scope.Category
	}

	reports, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	responses := make([]report.ReportResponse, len(reports))
	for i, rep := range reports {
		responses[i] = report.ToResponse(rep)
	}
	return responses, nil
}

// DecideStatus implements report.Service. Re-deciding an already-reviewed
// report is allowed; the latest decision wins.
func (s *service) DecideStatus(ctx context.Context, actorID, reportID string, req report.DecideStatusRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return report.ReportResponse{}, err
	}

	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return report.ReportResponse{}, err
	}

	if !user.CanDecideReport(actor.Actor(), string(rep.Category)) {
		return report.ReportResponse{}, user.ErrReportAccessForbidden
	}

	updated, err := s.repo.UpdateStatus(ctx, reportID, report.Status(req.Status), actor.ID, time.Now())
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to update report status: %w", err)
	}

	s.notifier.Notify(ctx, rep.UserID,
		fmt.Sprintf("Your report %q has been %s.", rep.Title, strings.ToLower(req.Status)))

	s.hub.Broadcast(sse.Event{Name: sse.EventReportUpdated, Message: "Report status updated"})

	return report.ToResponse(updated), nil
}

// AnnotateSummary implements report.Service. Annotating approves the report
// as a side effect, whatever its previous status.
func (s *service) AnnotateSummary(ctx context.Context, actorID, reportID string, req report.AnnotateSummaryRequest) (report.ReportResponse, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return report.ReportResponse{}, err
	}

	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return report.ReportResponse{}, err
	}

	if !user.CanDecideReport(actor.Actor(), string(rep.Category)) {
		return report.ReportResponse{}, user.ErrReportAccessForbidden
	}

	now := time.Now()
	updated, err := s.repo.UpdateSummary(ctx, reportID, req.ToSummary(now), actor.ID, now)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to update report summary: %w", err)
	}

	s.notifier.Notify(ctx, rep.UserID,
		fmt.Sprintf("Your report %q was approved and summarized by admin.", rep.Title))

	s.hub.Broadcast(sse.Event{Name: sse.EventReportUpdated, Message: "Report summary updated"})

	return report.ToResponse(updated), nil
}
