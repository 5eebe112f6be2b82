package assignments

import "time"

type Assignment struct {
	ID             int64      `json:"id"`
	AssetID        int64      `json:"asset_id"`
	UserID         int64      `json:"user_id"`
	UserName       *string    `json:"user_name"`
	AssignedBy     int64      `json:"assigned_by"`
	AssignedByName *string    `json:"assigned_by_name"`
	AssignedAt     time.Time  `json:"assigned_at"`
	ReturnedAt     *time.Time `json:"returned_at"`
	ReturnedBy     *int64     `json:"returned_by"`
	Notes          *string    `json:"notes"`
}

// Check-in/out actions written to checkin_checkout_logs.
const (
	ActionCheckout = "checkout"
	ActionCheckin  = "checkin"
)
