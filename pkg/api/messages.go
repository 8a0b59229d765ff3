package api

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/models"
)

// AssetFields are the editable fields of an asset. Catalog references are IDs.
type AssetFields struct {
	AssetNumber     string              `json:"asset_number"`
	AssetTypeID     string              `json:"asset_type_id,omitempty"`
	LocationID      string              `json:"location_id,omitempty"`
	RoomID          string              `json:"room_id,omitempty"`
	DepartmentID    string              `json:"department_id,omitempty"`
	PurchaseDate    *date.Date          `json:"purchase_date,omitempty"`
	PurchaseValue   decimal.NullDecimal `json:"purchase_value"`
	StickerDeployed bool                `json:"sticker_deployed"`
	// AssignedTo is a user ID; only honoured on create.
	AssignedTo string `json:"assigned_to,omitempty"`
}

type CreateAssetRequest struct {
	Asset AssetFields `json:"asset"`
}

type UpdateAssetRequest struct {
	ID    string      `json:"id"`
	Asset AssetFields `json:"asset"`
}

type GetAssetRequest struct {
	ID string `json:"id"`
}

// AssetResponse carries a single asset.
type AssetResponse struct {
	Asset *models.Asset `json:"asset"`
}

type ListAssetsRequest struct {
	Filter models.AssetFilter `json:"filter"`
}

type ListAssetsResponse struct {
	Assets []*models.Asset `json:"assets"`
}

type DeleteAssetRequest struct {
	ID string `json:"id"`
}

type DeleteAssetResponse struct{}

// RevalueAssetsRequest recomputes valuations as of AsOf, or today when unset.
type RevalueAssetsRequest struct {
	AsOf *date.Date `json:"as_of,omitempty"`
}

type RevalueAssetsResponse struct {
	AsOf    date.Date `json:"as_of"`
	Changed int       `json:"changed"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Summary *models.Summary `json:"summary"`
}

type GetOrCreateEntryRequest struct {
	Kind models.Kind `json:"kind"`
	Name string      `json:"name"`
}

// EntryResponse carries a single catalog entry.
type EntryResponse struct {
	Entry *models.CatalogEntry `json:"entry"`
}

type ListEntriesRequest struct {
	Kind models.Kind `json:"kind"`
}

type ListEntriesResponse struct {
	Entries []*models.CatalogEntry `json:"entries"`
}

type RenameEntryRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}

type DeleteEntryResponse struct{}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// UserResponse carries a single user.
type UserResponse struct {
	User *models.User `json:"user"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

// GetUserResponse is a user with their allocation history, newest first.
type GetUserResponse struct {
	User        *models.User         `json:"user"`
	Allocations []*models.Allocation `json:"allocations"`
}

type UpdateUserRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*models.User `json:"users"`
}

type DeleteUserRequest struct {
	ID string `json:"id"`
}

type DeleteUserResponse struct{}

// AllocateRequest opens an allocation. AssignedDate defaults to today.
type AllocateRequest struct {
	AssetID      string     `json:"asset_id"`
	UserID       string     `json:"user_id"`
	AssignedDate *date.Date `json:"assigned_date,omitempty"`
}

// DeallocateRequest closes an allocation named either by its own ID or by
// the asset holding it. ReturnDate defaults to today.
type DeallocateRequest struct {
	AllocationID string     `json:"allocation_id,omitempty"`
	AssetID      string     `json:"asset_id,omitempty"`
	ReturnDate   *date.Date `json:"return_date,omitempty"`
}

// AllocationResponse is the allocation after a transition together with the
// asset's resulting custody state.
type AllocationResponse struct {
	Allocation *models.Allocation `json:"allocation"`
	Asset      *models.Asset      `json:"asset"`
}

type ListAllocationsRequest struct {
	Filter models.AllocationFilter `json:"filter"`
}

type ListAllocationsResponse struct {
	Allocations []*models.Allocation `json:"allocations"`
}

// ImportAssetsRequest carries a CSV document. ImportDate defaults to today.
type ImportAssetsRequest struct {
	CSV        string     `json:"csv"`
	ImportDate *date.Date `json:"import_date,omitempty"`
}

// RowIssue is a failed or warned import row.
type RowIssue struct {
	Line        int    `json:"line"`
	AssetNumber string `json:"asset_number,omitempty"`
	Message     string `json:"message"`
}

type ImportAssetsResponse struct {
	Created  int        `json:"created"`
	Updated  int        `json:"updated"`
	Errors   int        `json:"errors"`
	Failed   []RowIssue `json:"failed,omitempty"`
	Warnings []RowIssue `json:"warnings,omitempty"`
}

type ExportAssetsRequest struct {
	Filter models.AssetFilter `json:"filter"`
}

type ExportAssetsResponse struct {
	CSV   string `json:"csv"`
	Count int    `json:"count"`
}
