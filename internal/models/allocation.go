package models

import "github.com/mmynk/assettrack/internal/date"

// Allocation is one custody period of an asset by a user.
// An allocation with a nil ReturnDate is open; an asset has at most one open allocation.
// Closed allocations are kept as the audit trail.
type Allocation struct {
	ID           string     `json:"id"`
	Asset        Ref        `json:"asset"`
	User         Ref        `json:"user"`
	AssignedDate date.Date  `json:"assigned_date"`
	ReturnDate   *date.Date `json:"return_date"`
	CreatedAt    int64      `json:"created_at"`
}

// Open reports whether the allocation has not been returned.
func (a *Allocation) Open() bool { return a.ReturnDate == nil }

// AllocationFilter narrows ListAllocations. Zero fields do not filter.
type AllocationFilter struct {
	OpenOnly bool   `json:"open_only,omitempty"`
	AssetID  string `json:"asset_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	// Limit caps the result, newest assigned first. Zero means no limit.
	Limit int `json:"limit,omitempty"`
}
