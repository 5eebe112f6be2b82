package statuses

import "time"

// Seeded names the assignment workflow moves assets between.
const (
	InStock  = "In Stock"
	InUse    = "In Use"
	InRepair = "In Repair"
	Retired  = "Retired"
)

const DefaultColor = "#6B7280"

type Status struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description *string   `json:"description"`
	AssetCount  int64     `json:"asset_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type StatusList struct {
	Items []Status `json:"items"`
	Total int64    `json:"total"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
}

// workflowStatus reports whether assignments or the dashboard look this
// status up by name.
func workflowStatus(name string) bool {
	return name == InStock || name == InUse || name == InRepair
}
