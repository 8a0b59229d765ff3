// Package ledger is the allocation state machine.
//
// An asset is either Unallocated or Allocated(user). Allocate opens a custody
// period and Deallocate closes it; closed periods are kept as history. The
// asset's is_allocated/assigned_to fields and the allocation row always change
// in the same transaction.
//
// The *Tx functions run against a caller-supplied storage.Queries so that other
// packages (the importer, the registry) can compose them into their own
// transactions. The Ledger methods wrap each one in a transaction of its own.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/storage"
)

// Ledger serves interactive allocate/deallocate requests.
type Ledger struct {
	store storage.Store
}

// New creates a Ledger over the given store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// Allocate puts an asset in a user's custody from the assigned date.
func (l *Ledger) Allocate(ctx context.Context, assetID, userID string, assigned date.Date) (*models.Allocation, error) {
	var alloc *models.Allocation
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		alloc, err = AllocateTx(ctx, q, assetID, userID, assigned)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Asset allocated",
		"allocation_id", alloc.ID,
		"asset", alloc.Asset.Name,
		"user", alloc.User.Name,
		"assigned_date", alloc.AssignedDate,
	)
	return alloc, nil
}

// Deallocate closes an open allocation on the return date.
func (l *Ledger) Deallocate(ctx context.Context, allocationID string, returned date.Date) (*models.Allocation, error) {
	var alloc *models.Allocation
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		alloc, err = DeallocateTx(ctx, q, allocationID, returned)
		return err
	})
	if err != nil {
		return nil, err
	}
	logReturned(alloc)
	return alloc, nil
}

// Return closes whatever allocation an asset currently has.
func (l *Ledger) Return(ctx context.Context, assetID string, returned date.Date) (*models.Allocation, error) {
	var alloc *models.Allocation
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		alloc, err = ReturnTx(ctx, q, assetID, returned)
		return err
	})
	if err != nil {
		return nil, err
	}
	logReturned(alloc)
	return alloc, nil
}

// List returns allocations matching the filter, newest first.
func (l *Ledger) List(ctx context.Context, filter models.AllocationFilter) ([]*models.Allocation, error) {
	return l.store.ListAllocations(ctx, filter)
}

// AllocatedAssets returns the assets currently in someone's custody.
func (l *Ledger) AllocatedAssets(ctx context.Context) ([]*models.Asset, error) {
	allocated := true
	return l.store.ListAssets(ctx, models.AssetFilter{Allocated: &allocated})
}

// AllocateTx is the Allocate transition inside an existing transaction.
//
// Allocating to the current custodian again only moves the assigned date;
// allocating to anyone else while the asset is held fails with
// models.ErrAlreadyAllocated.
func AllocateTx(ctx context.Context, q storage.Queries, assetID, userID string, assigned date.Date) (*models.Allocation, error) {
	if assetID == "" || userID == "" {
		return nil, models.Invalid("asset and user are required")
	}
	if assigned.IsZero() {
		return nil, models.Invalid("assigned date is required")
	}

	asset, err := q.LockAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	user, err := q.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	open, err := q.OpenAllocation(ctx, assetID)
	if err != nil {
		return nil, err
	}

	switch {
	case open != nil && open.User.ID != userID:
		return nil, fmt.Errorf("asset %s is held by %s: %w", asset.AssetNumber, open.User.Name, models.ErrAlreadyAllocated)
	case open != nil:
		if open.AssignedDate != assigned {
			if err := q.SetAssignedDate(ctx, open.ID, assigned); err != nil {
				return nil, err
			}
			open.AssignedDate = assigned
		}
	default:
		open = &models.Allocation{
			Asset:        models.Ref{ID: asset.ID, Name: asset.AssetNumber},
			User:         models.Ref{ID: user.ID, Name: user.Name},
			AssignedDate: assigned,
		}
		if err := q.CreateAllocation(ctx, open); err != nil {
			return nil, err
		}
	}

	if err := q.SetCustody(ctx, asset.ID, user.ID); err != nil {
		return nil, err
	}
	return open, nil
}

// DeallocateTx is the Deallocate transition inside an existing transaction.
// The return date may not precede the assigned date.
func DeallocateTx(ctx context.Context, q storage.Queries, allocationID string, returned date.Date) (*models.Allocation, error) {
	if returned.IsZero() {
		return nil, models.Invalid("return date is required")
	}
	alloc, err := q.GetAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if !alloc.Open() {
		return nil, fmt.Errorf("allocation %s was returned on %s: %w", alloc.ID, alloc.ReturnDate, models.ErrNotAllocated)
	}
	if _, err := q.LockAsset(ctx, alloc.Asset.ID); err != nil {
		return nil, err
	}
	if returned.Before(alloc.AssignedDate) {
		return nil, models.Invalid("return date %s is before assigned date %s", returned, alloc.AssignedDate)
	}

	if err := q.CloseAllocation(ctx, alloc.ID, returned); err != nil {
		return nil, err
	}
	if err := q.SetCustody(ctx, alloc.Asset.ID, ""); err != nil {
		return nil, err
	}
	alloc.ReturnDate = returned.Ptr()
	return alloc, nil
}

// ReturnTx closes the open allocation of an asset inside an existing transaction.
func ReturnTx(ctx context.Context, q storage.Queries, assetID string, returned date.Date) (*models.Allocation, error) {
	asset, err := q.LockAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	open, err := q.OpenAllocation(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, fmt.Errorf("asset %s: %w", asset.AssetNumber, models.ErrNotAllocated)
	}
	return DeallocateTx(ctx, q, open.ID, returned)
}

func logReturned(alloc *models.Allocation) {
	slog.Info("Asset returned",
		"allocation_id", alloc.ID,
		"asset", alloc.Asset.Name,
		"user", alloc.User.Name,
		"return_date", alloc.ReturnDate,
	)
}
