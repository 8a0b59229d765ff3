package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/date"
)

// Asset is a tracked piece of equipment.
type Asset struct {
	// ID is the unique identifier for the asset (UUID format).
	ID string `json:"id"`

	// AssetNumber is the organisation's tag number, globally unique.
	// It is the natural key for import and export.
	AssetNumber string `json:"asset_number"`

	// Catalog references; nil when unset or when the entry was deleted.
	AssetType  *Ref `json:"asset_type"`
	Location   *Ref `json:"location"`
	Room       *Ref `json:"room"`
	Department *Ref `json:"department"`

	PurchaseDate  *date.Date          `json:"purchase_date"`
	PurchaseValue decimal.NullDecimal `json:"purchase_value"`

	// DepreciationDate and CurrentValue are derived by the valuation engine.
	DepreciationDate *date.Date          `json:"depreciation_date"`
	CurrentValue     decimal.NullDecimal `json:"current_value"`

	// IsAllocated and AssignedTo mirror the asset's open allocation.
	// Only the allocation ledger writes them.
	IsAllocated bool `json:"is_allocated"`
	AssignedTo  *Ref `json:"assigned_to"`

	StickerDeployed bool `json:"sticker_deployed"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Reference returns the catalog reference slot for kind.
func (a *Asset) Reference(kind Kind) **Ref {
	switch kind {
	case KindAssetType:
		return &a.AssetType
	case KindLocation:
		return &a.Location
	case KindRoom:
		return &a.Room
	default:
		return &a.Department
	}
}

// AssetFilter narrows ListAssets. Zero fields do not filter.
type AssetFilter struct {
	// NumberPrefix matches the start of the asset number, case-insensitively.
	NumberPrefix string `json:"number_prefix,omitempty"`

	// Exact catalog names; resolved through the unique name index.
	AssetType  string `json:"asset_type,omitempty"`
	Location   string `json:"location,omitempty"`
	Room       string `json:"room,omitempty"`
	Department string `json:"department,omitempty"`

	Allocated  *bool  `json:"allocated,omitempty"`
	AssignedTo string `json:"assigned_to,omitempty"` // user ID
}
