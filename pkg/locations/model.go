package locations

import "time"

type Location struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	AssetCount int64     `json:"asset_count"`
	CreatedAt  time.Time `json:"created_at"`
}
