// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/models"
)

// Queries is the set of primitive reads and writes on the asset registry.
// It is implemented both by the store itself (each call auto-commits) and by
// the handle passed to Store.InTx (all calls share one transaction).
//
// Lookups of a single missing entity return an error wrapping models.ErrNotFound.
type Queries interface {
	// CreateCatalogEntry inserts a new entry. The entry.ID field will be populated.
	// Returns models.ErrDuplicate if the name is taken within the kind.
	CreateCatalogEntry(ctx context.Context, entry *models.CatalogEntry) error

	// GetCatalogEntry retrieves an entry by ID.
	GetCatalogEntry(ctx context.Context, id string) (*models.CatalogEntry, error)

	// FindCatalogEntry retrieves an entry by kind and case-insensitive name.
	FindCatalogEntry(ctx context.Context, kind models.Kind, name string) (*models.CatalogEntry, error)

	// ListCatalogEntries returns all entries of a kind ordered by name.
	ListCatalogEntries(ctx context.Context, kind models.Kind) ([]*models.CatalogEntry, error)

	// RenameCatalogEntry changes an entry's name.
	RenameCatalogEntry(ctx context.Context, id, name string) error

	// DeleteCatalogEntry removes an entry; referencing assets have the reference nulled.
	DeleteCatalogEntry(ctx context.Context, id string) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]*models.User, error)

	// DeleteUser removes a user and their allocation history.
	DeleteUser(ctx context.Context, id string) error

	// CreateAsset inserts a new asset. Returns models.ErrDuplicate on asset number clash.
	CreateAsset(ctx context.Context, asset *models.Asset) error

	// UpdateAsset writes every editable and derived field except custody.
	UpdateAsset(ctx context.Context, asset *models.Asset) error

	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	GetAssetByNumber(ctx context.Context, assetNumber string) (*models.Asset, error)

	// LockAsset reads an asset for modification within a transaction.
	LockAsset(ctx context.Context, id string) (*models.Asset, error)

	ListAssets(ctx context.Context, filter models.AssetFilter) ([]*models.Asset, error)

	// DeleteAsset removes an asset and its allocation history.
	DeleteAsset(ctx context.Context, id string) error

	// SetCustody sets is_allocated and assigned_to together. An empty userID clears custody.
	SetCustody(ctx context.Context, assetID, userID string) error

	// CreateAllocation inserts an allocation. The allocation.ID field will be populated.
	// Returns models.ErrAlreadyAllocated if the asset already has an open allocation.
	CreateAllocation(ctx context.Context, alloc *models.Allocation) error

	GetAllocation(ctx context.Context, id string) (*models.Allocation, error)

	// OpenAllocation returns the asset's open allocation, or nil if there is none.
	OpenAllocation(ctx context.Context, assetID string) (*models.Allocation, error)

	SetAssignedDate(ctx context.Context, allocationID string, assigned date.Date) error

	// CloseAllocation sets the return date of an open allocation.
	CloseAllocation(ctx context.Context, allocationID string, returned date.Date) error

	ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]*models.Allocation, error)

	// Summary computes registry counts and value totals.
	Summary(ctx context.Context) (*models.Summary, error)
}

// Store defines the interface for asset registry storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the domain packages.
type Store interface {
	Queries

	// InTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise. Concurrent writers are serialized.
	InTx(ctx context.Context, fn func(q Queries) error) error

	// Close releases any resources held by the store.
	Close() error
}
