package report

import "context"

// Service is the report lifecycle surface: submission, scoped listing, status
// decisions, and reviewer summary annotation.
type Service interface {
	Create(ctx context.Context, actorID string, req CreateReportRequest) (ReportResponse, error)
	List(ctx context.Context, actorID string, filter ListFilter) ([]ReportResponse, error)
	DecideStatus(ctx context.Context, actorID, reportID string, req DecideStatusRequest) (ReportResponse, error)
	AnnotateSummary(ctx context.Context, actorID, reportID string, req AnnotateSummaryRequest) (ReportResponse, error)
}
