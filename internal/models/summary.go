package models

import "github.com/shopspring/decimal"

// TypeCount is the allocated/unallocated split of one asset type.
type TypeCount struct {
	AssetType   string `json:"asset_type"`
	Allocated   int    `json:"allocated"`
	Unallocated int    `json:"unallocated"`
}

// Summary is the registry overview shown on the dashboard.
type Summary struct {
	Assets          int             `json:"assets"`
	AllocatedAssets int             `json:"allocated_assets"`
	Users           int             `json:"users"`
	Allocations     int             `json:"allocations"`
	ByType          []TypeCount     `json:"by_type"`
	Recent          []*Allocation   `json:"recent"`
	PurchaseTotal   decimal.Decimal `json:"purchase_total"`
	CurrentTotal    decimal.Decimal `json:"current_total"`

	// Formatted totals in the configured currency, e.g. "£1,234.50".
	PurchaseTotalText string `json:"purchase_total_text"`
	CurrentTotalText  string `json:"current_total_text"`
}
