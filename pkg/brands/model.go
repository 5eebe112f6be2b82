package brands

import "time"

type Brand struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Website     *string   `json:"website"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	AssetCount  int64     `json:"asset_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BrandList struct {
	Items []Brand `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
