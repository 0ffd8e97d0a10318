package report

import "time"

// Category is the department a report belongs to. An admin's department string
// is matched against it to scope visibility and review authority.
type Category string

const (
	CategoryFinance   Category = "Finance Report"
	CategorySales     Category = "Sales Report"
	CategoryInventory Category = "Inventory Report"
	CategoryResources Category = "Resources Report"
)

// ValidCategories returns the fixed category set.
func ValidCategories() []string {
	return []string{
		string(CategoryFinance),
		string(CategorySales),
		string(CategoryInventory),
		string(CategoryResources),
	}
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ValidStatuses returns the report status set.
func ValidStatuses() []string {
	return []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
}

// AdminSummary is the reviewer-authored annotation, meaningful once a report
// is approved. Numeric fields are coerced on input and default to 0.
type AdminSummary struct {
	Revenue        float64   `json:"revenue"`
	Profit         float64   `json:"profit"`
	InventoryValue float64   `json:"inventory_value"`
	Notes          string    `json:"notes"`
	LastUpdated    time.Time `json:"last_updated"`
}

type Report struct {
	ID          string
	Title       string
	Description string
	Category    Category
	UserID      string
	Status      Status
	ReviewedBy  *string
	ReviewedAt  *time.Time
	Summary     *AdminSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join fields populated on reads
	OwnerName  string
	OwnerEmail string
}
