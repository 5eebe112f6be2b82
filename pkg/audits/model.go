package audits

import "time"

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

type Session struct {
	ID            int64      `json:"id"`
	LocationID    *int64     `json:"location_id"`
	LocationName  *string    `json:"location_name"`
	Status        string     `json:"status"`
	StartedBy     int64      `json:"started_by"`
	StartedByName *string    `json:"started_by_name"`
	ClosedBy      *int64     `json:"closed_by"`
	ClosedByName  *string    `json:"closed_by_name"`
	ClosedAt      *time.Time `json:"closed_at"`
	Notes         *string    `json:"notes"`
	EntryCount    int64      `json:"entry_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (s Session) IsOpen() bool {
	return s.Status == StatusOpen
}

type SessionList struct {
	Items []Session `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// SessionDetail is a session together with every entry scanned in it.
type SessionDetail struct {
	Session
	Entries []Entry `json:"entries"`
}

// AssetRef is the slice of an asset the reconciliation needs, with the
// on-record location resolved.
type AssetRef struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	AssetTag     string  `json:"asset_tag"`
	SerialNumber *string `json:"serial_number"`
	CategoryName *string `json:"category_name"`
	LocationID   *int64  `json:"location_id"`
	LocationName *string `json:"location_name"`
}

type Entry struct {
	ID                int64     `json:"id"`
	SessionID         int64     `json:"audit_session_id"`
	Asset             AssetRef  `json:"asset"`
	ScannedBy         int64     `json:"scanned_by"`
	ScannedByName     *string   `json:"scanned_by_name"`
	ScannedAt         time.Time `json:"scanned_at"`
	FoundLocationID   *int64    `json:"found_location_id"`
	FoundLocationName *string   `json:"found_location_name"`
	Notes             *string   `json:"notes"`
}

// Variance is the discrepancy between what a session expected to find and
// what was scanned.
type Variance struct {
	Missing  []AssetRef `json:"missing"`
	Extra    []AssetRef `json:"extra"`
	Moved    []Entry    `json:"moved"`
	Expected int        `json:"expected_count"`
	Scanned  int        `json:"scanned_count"`
}

type StartInput struct {
	LocationID *int64
	ActorID    int64
	Notes      *string
}

type ScanInput struct {
	SessionID       int64
	Code            string
	FoundLocationID *int64
	ActorID         int64
	Notes           *string
}
