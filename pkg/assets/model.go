package assets

import (
	"time"

	"github.com/shopspring/decimal"

	"itams/pkg/depreciation"
)

type Asset struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	AssetTag       string           `json:"asset_tag"`
	SerialNumber   *string          `json:"serial_number"`
	Model          *string          `json:"model"`
	Specifications *string          `json:"specifications"`
	CategoryID     *int64           `json:"category_id"`
	CategoryName   *string          `json:"category_name"`
	StatusID       *int64           `json:"status_id"`
	StatusName     *string          `json:"status_name"`
	LocationID     *int64           `json:"location_id"`
	LocationName   *string          `json:"location_name"`
	BrandID        *int64           `json:"brand_id"`
	BrandName      *string          `json:"brand_name"`
	SupplierID     *int64           `json:"supplier_id"`
	SupplierName   *string          `json:"supplier_name"`
	AssignedTo     *int64           `json:"assigned_to"`
	AssignedToName *string          `json:"assigned_to_name"`
	PurchaseDate   *time.Time       `json:"purchase_date"`
	DeployedAt     *time.Time       `json:"deployed_at"`
	PurchaseCost   *decimal.Decimal `json:"purchase_cost" swaggertype:"string"`
	WarrantyExpiry *time.Time       `json:"warranty_expiry"`
	Notes          *string          `json:"notes"`
	CreatedBy      *int64           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Loaded from the category; drives Depreciation.
	UsefulLifeMonths *int               `json:"-"`
	Depreciation     *depreciation.View `json:"depreciation"`
	Age              string             `json:"age,omitempty"`
}

type AssetList struct {
	Items []Asset `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

type AssetFilters struct {
	Search     *string
	StatusID   *int64
	CategoryID *int64
	LocationID *int64
	BrandID    *int64
	SupplierID *int64
	AssignedTo *int64
	Unassigned bool
}

type SortOrder struct {
	Column string
	Desc   bool
}

var sortableColumns = map[string]string{
	"name":       "a.name",
	"created_at": "a.created_at",
}

// NewSortOrder falls back to newest first for unknown columns or directions.
func NewSortOrder(column, direction string) SortOrder {
	if _, ok := sortableColumns[column]; !ok {
		column = "created_at"
	}
	return SortOrder{Column: column, Desc: direction != "asc"}
}

func (o SortOrder) sql() string {
	col, ok := sortableColumns[o.Column]
	if !ok {
		col = sortableColumns["created_at"]
	}
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return col + " " + dir + ", a.id " + dir
}
