package report

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/reporthub/reporthub-backend-go/internal/pkg/validator"
)

// CreateReportRequest represents a user submitting a new report.
type CreateReportRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (r *CreateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	}

	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	} else if !validator.IsInSlice(r.Category, ValidCategories()) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "invalid category",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DecideStatusRequest represents a reviewer's status decision.
type DecideStatusRequest struct {
	Status string `json:"status"`
}

func (r *DecideStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Status, ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "invalid status",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AnnotateSummaryRequest carries reviewer-entered summary figures. The numeric
// fields accept whatever the client sends; non-numeric input coerces to 0
// rather than failing validation.
type AnnotateSummaryRequest struct {
	Revenue        interface{} `json:"revenue"`
	Profit         interface{} `json:"profit"`
	InventoryValue interface{} `json:"inventory_value"`
	Notes          string      `json:"notes"`
}

// ToSummary coerces the request into an AdminSummary stamped at now.
func (r *AnnotateSummaryRequest) ToSummary(now time.Time) AdminSummary {
	return AdminSummary{
		Revenue:        coerceNumber(r.Revenue),
		Profit:         coerceNumber(r.Profit),
		InventoryValue: coerceNumber(r.InventoryValue),
		Notes:          r.Notes,
		LastUpdated:    now,
	}
}

func coerceNumber(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}

// ListFilter narrows a report listing. Zero values disable the corresponding
// condition. OwnerID is set from the authorization scope, never by callers.
type ListFilter struct {
	OwnerID  string
	Category string
	Status   string
}

// ReportResponse represents a report in API responses.
type ReportResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Status      string        `json:"status"`
	Owner       OwnerRef      `json:"user"`
	ReviewedBy  *string       `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
	Summary     *AdminSummary `json:"admin_summary,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// OwnerRef is the submitter back-reference embedded in responses.
type OwnerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ToResponse converts a Report entity to its API shape.
func ToResponse(rep Report) ReportResponse {
	return ReportResponse{
		ID:          rep.ID,
		Title:       rep.Title,
		Description: rep.Description,
		Category:    string(rep.Category),
		Status:      string(rep.Status),
		Owner: OwnerRef{
			ID:    rep.UserID,
			Name:  rep.OwnerName,
			Email: rep.OwnerEmail,
		},
		ReviewedBy: rep.ReviewedBy,
		ReviewedAt: rep.ReviewedAt,
		Summary:    rep.Summary,
		CreatedAt:  rep.CreatedAt,
	}
}
