package categories

import "time"

type Category struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	UsefulLifeMonths *int      `json:"useful_life_months"`
	AssetCount       int64     `json:"asset_count"`
	CreatedAt        time.Time `json:"created_at"`
}
