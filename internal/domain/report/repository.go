package report

import (
	"context"
	"time"
)

type ReportRepository interface {
	Create(ctx context.Context, newReport Report) (Report, error)
	GetByID(ctx context.Context, id string) (Report, error)

	// List returns reports matching the filter, most-recently-created first.
	List(ctx context.Context, filter ListFilter) ([]Report, error)

	UpdateStatus(ctx context.Context, id string, status Status, reviewedBy string, reviewedAt time.Time) (Report, error)
	UpdateSummary(ctx context.Context, id string, summary AdminSummary, reviewedBy string, reviewedAt time.Time) (Report, error)

	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}
