package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/reporthub/reporthub-backend-go/internal/domain/report"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/database"
)

const reportColumns = `r.id, r.title, r.description, r.category, r.user_id, r.status,
	   r.reviewed_by, r.reviewed_at,
	   r.summary_revenue, r.summary_profit, r.summary_inventory_value,
	   r.summary_notes, r.summary_last_updated,
	   r.created_at, r.updated_at, u.name, u.email`

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// Summary columns are nullable as a group: they are all set together when a
// reviewer annotates, so summary_last_updated decides presence.
func scanReport(row pgx.Row) (report.Report, error) {
	var rep report.Report
	var revenue, profit, inventoryValue *float64
	var notes *string
	var lastUpdated *time.Time

	err := row.Scan(
		&rep.ID,
		&rep.Title,
		&rep.Description,
		&rep.Category,
		&rep.UserID,
		&rep.Status,
		&rep.ReviewedBy,
		&rep.ReviewedAt,
		&revenue,
		&profit,
		&inventoryValue,
		&notes,
		&lastUpdated,
		&rep.CreatedAt,
		&rep.UpdatedAt,
		&rep.OwnerName,
		&rep.OwnerEmail,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return report.Report{}, report.ErrReportNotFound
	}
	if err != nil {
		return report.Report{}, err
	}

	if lastUpdated != nil {
		summary := report.AdminSummary{LastUpdated: *lastUpdated}
		if revenue != nil {
			summary.Revenue = *revenue
		}
		if profit != nil {
			summary.Profit = *profit
		}
		if inventoryValue != nil {
			summary.InventoryValue = *inventoryValue
		}
		if notes != nil {
			summary.Notes = *notes
		}
		rep.Summary = &summary
	}
	return rep, nil
}

// Create implements report.ReportRepository.
func (r *reportRepositoryImpl) Create(ctx context.Context, newReport report.Report) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	if newReport.ID == "" {
		newReport.ID = uuid.New().String()
	}

	query := `
		INSERT INTO reports (id, title, description, category, user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, description, category, user_id, status,
				  reviewed_by, reviewed_at, created_at, updated_at
	`

	var created report.Report
	err := q.QueryRow(ctx, query,
		newReport.ID,
		newReport.Title,
		newReport.Description,
		newReport.Category,
		newReport.UserID,
		newReport.Status,
	).Scan(
		&created.ID,
		&created.Title,
		&created.Description,
		&created.Category,
		&created.UserID,
		&created.Status,
		&created.ReviewedBy,
		&created.ReviewedAt,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return report.Report{}, err
	}
	return created, nil
}

// GetByID implements report.ReportRepository.
func (r *reportRepositoryImpl) GetByID(ctx context.Context, id string) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`
	return scanReport(q.QueryRow(ctx, query, id))
}

// List implements report.ReportRepository.
func (r *reportRepositoryImpl) List(ctx context.Context, filter report.ListFilter) ([]report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		JOIN users u ON u.id = r.user_id
		WHERE 1=1
	`
	var args []interface{}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(" AND r.user_id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND r.category = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// UpdateStatus implements report.ReportRepository. The update and the
// follow-up read run in one transaction so the returned report reflects
// exactly this decision.
func (r *reportRepositoryImpl) UpdateStatus(ctx context.Context, id string, status report.Status, reviewedBy string, reviewedAt time.Time) (report.Report, error) {
	var updated report.Report
	err := InTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			UPDATE reports
			SET status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = NOW()
			WHERE id = $4
		`
		tag, err := q.Exec(ctx, query, status, reviewedBy, reviewedAt, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return report.ErrReportNotFound
		}
		updated, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return report.Report{}, err
	}
	return updated, nil
}

// UpdateSummary implements report.ReportRepository. Annotating approves the
// report in the same statement.
func (r *reportRepositoryImpl) UpdateSummary(ctx context.Context, id string, summary report.AdminSummary, reviewedBy string, reviewedAt time.Time) (report.Report, error) {
	var updated report.Report
	err := InTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			UPDATE reports
			SET status = $1,
				summary_revenue = $2, summary_profit = $3, summary_inventory_value = $4,
				summary_notes = $5, summary_last_updated = $6,
				reviewed_by = $7, reviewed_at = $8, updated_at = NOW()
			WHERE id = $9
		`
		tag, err := q.Exec(ctx, query,
			report.StatusApproved,
			summary.Revenue,
			summary.Profit,
			summary.InventoryValue,
			summary.Notes,
			summary.LastUpdated,
			reviewedBy,
			reviewedAt,
			id,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return report.ErrReportNotFound
		}
		updated, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return report.Report{}, err
	}
	return updated, nil
}

// Count implements report.ReportRepository.
func (r *reportRepositoryImpl) Count(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus implements report.ReportRepository.
func (r *reportRepositoryImpl) CountByStatus(ctx context.Context) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM reports GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}
