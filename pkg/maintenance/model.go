package maintenance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Log struct {
	ID              int64            `json:"id"`
	AssetID         int64            `json:"asset_id"`
	MaintenanceType string           `json:"maintenance_type"`
	Description     string           `json:"description"`
	Cost            *decimal.Decimal `json:"cost" swaggertype:"string"`
	PerformedBy     *int64           `json:"performed_by"`
	PerformedByName *string          `json:"performed_by_name"`
	PerformedAt     time.Time        `json:"performed_at"`
	CreatedAt       time.Time        `json:"created_at"`
}
