// Package registry owns asset, catalog and user records.
//
// Every asset write goes through Apply, which recomputes the derived valuation
// fields as of the registry clock. Custody is never written here; creating an
// asset with an initial custodian delegates to the ledger in the same transaction.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/ledger"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/storage"
	"github.com/mmynk/assettrack/internal/valuation"
)

// DefaultCurrency is used to format value totals when none is configured.
const DefaultCurrency = "GBP"

// Registry manages the asset registry and its reference data.
type Registry struct {
	store    storage.Store
	now      func() time.Time
	currency string
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the wall clock used as the valuation reference date.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithCurrency sets the ISO 4217 code used for formatted totals.
func WithCurrency(code string) Option {
	return func(r *Registry) { r.currency = code }
}

// New creates a Registry over the given store.
func New(store storage.Store, opts ...Option) *Registry {
	r := &Registry{store: store, now: time.Now, currency: DefaultCurrency}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today is the registry clock's current date.
func (r *Registry) Today() date.Date { return date.Of(r.now()) }

// AssetInput holds the editable fields of an asset.
type AssetInput struct {
	AssetNumber  string
	AssetTypeID  string
	LocationID   string
	RoomID       string
	DepartmentID string

	PurchaseDate    *date.Date
	PurchaseValue   decimal.NullDecimal
	StickerDeployed bool

	// AssignedTo optionally allocates a new asset to a user from today.
	// Updates reject it: custody changes go through the ledger.
	AssignedTo string
}

func (in *AssetInput) validate() error {
	in.AssetNumber = strings.TrimSpace(in.AssetNumber)
	if in.AssetNumber == "" {
		return models.Invalid("asset number is required")
	}
	return ValidatePurchaseValue(in.PurchaseValue)
}

// ValidatePurchaseValue rejects negative purchase values.
func ValidatePurchaseValue(v decimal.NullDecimal) error {
	if v.Valid && v.Decimal.IsNegative() {
		return models.Invalid("purchase value %s is negative", v.Decimal)
	}
	return nil
}

// Apply recomputes an asset's derived valuation fields as of asOf.
// It reports whether anything changed.
func Apply(asset *models.Asset, asOf date.Date) bool {
	res := valuation.Revalue(asset.PurchaseDate, asset.PurchaseValue, asOf)
	changed := !sameDate(asset.DepreciationDate, res.DepreciationDate) || !sameValue(asset.CurrentValue, res.CurrentValue)
	asset.DepreciationDate = res.DepreciationDate
	asset.CurrentValue = res.CurrentValue
	return changed
}

func sameDate(a, b *date.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameValue(a, b decimal.NullDecimal) bool {
	if !a.Valid || !b.Valid {
		return a.Valid == b.Valid
	}
	return a.Decimal.Equal(b.Decimal)
}

// CreateAsset validates, values and stores a new asset.
func (r *Registry) CreateAsset(ctx context.Context, in AssetInput) (*models.Asset, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	today := r.Today()

	var created *models.Asset
	err := r.store.InTx(ctx, func(q storage.Queries) error {
		asset := &models.Asset{AssetNumber: in.AssetNumber}
		if err := r.fill(ctx, q, asset, in); err != nil {
			return err
		}
		Apply(asset, today)
		if err := q.CreateAsset(ctx, asset); err != nil {
			return err
		}
		if in.AssignedTo != "" {
			if _, err := ledger.AllocateTx(ctx, q, asset.ID, in.AssignedTo, today); err != nil {
				return err
			}
		}
		var err error
		created, err = q.GetAsset(ctx, asset.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Asset created", "asset_id", created.ID, "asset_number", created.AssetNumber)
	return created, nil
}

// UpdateAsset replaces the editable fields of an asset and revalues it.
func (r *Registry) UpdateAsset(ctx context.Context, id string, in AssetInput) (*models.Asset, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	today := r.Today()

	var updated *models.Asset
	err := r.store.InTx(ctx, func(q storage.Queries) error {
		asset, err := q.LockAsset(ctx, id)
		if err != nil {
			return err
		}
		if in.AssignedTo != "" && in.AssignedTo != models.RefID(asset.AssignedTo) {
			return models.Invalid("custodian changes go through allocate and deallocate")
		}
		asset.AssetNumber = in.AssetNumber
		if err := r.fill(ctx, q, asset, in); err != nil {
			return err
		}
		Apply(asset, today)
		if err := q.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		updated, err = q.GetAsset(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Asset updated", "asset_id", updated.ID, "asset_number", updated.AssetNumber)
	return updated, nil
}

// fill copies input fields onto asset, checking catalog references.
func (r *Registry) fill(ctx context.Context, q storage.Queries, asset *models.Asset, in AssetInput) error {
	refs := []struct {
		kind models.Kind
		id   string
	}{
		{models.KindAssetType, in.AssetTypeID},
		{models.KindLocation, in.LocationID},
		{models.KindRoom, in.RoomID},
		{models.KindDepartment, in.DepartmentID},
	}
	for _, ref := range refs {
		slot := asset.Reference(ref.kind)
		if ref.id == "" {
			*slot = nil
			continue
		}
		entry, err := q.GetCatalogEntry(ctx, ref.id)
		if err != nil {
			return err
		}
		if entry.Kind != ref.kind {
			return models.Invalid("catalog entry %s is a %s, not a %s", entry.ID, entry.Kind, ref.kind)
		}
		*slot = &models.Ref{ID: entry.ID, Name: entry.Name}
	}
	asset.PurchaseDate = in.PurchaseDate
	asset.PurchaseValue = in.PurchaseValue
	asset.StickerDeployed = in.StickerDeployed
	return nil
}

// GetAsset retrieves an asset by ID.
func (r *Registry) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	return r.store.GetAsset(ctx, id)
}

// ListAssets returns the assets matching filter.
func (r *Registry) ListAssets(ctx context.Context, filter models.AssetFilter) ([]*models.Asset, error) {
	return r.store.ListAssets(ctx, filter)
}

// DeleteAsset removes an asset together with its allocation history.
func (r *Registry) DeleteAsset(ctx context.Context, id string) error {
	if err := r.store.DeleteAsset(ctx, id); err != nil {
		return err
	}
	slog.Info("Asset deleted", "asset_id", id)
	return nil
}

// RevalueAll recomputes every asset's derived fields as of asOf and returns
// how many changed. Each asset is locked and written in its own transaction.
func (r *Registry) RevalueAll(ctx context.Context, asOf date.Date) (int, error) {
	assets, err := r.store.ListAssets(ctx, models.AssetFilter{})
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, listed := range assets {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		err := r.store.InTx(ctx, func(q storage.Queries) error {
			asset, err := q.LockAsset(ctx, listed.ID)
			if err != nil {
				return err
			}
			if !Apply(asset, asOf) {
				return nil
			}
			changed++
			return q.UpdateAsset(ctx, asset)
		})
		if err != nil {
			return changed, fmt.Errorf("failed to revalue asset %s: %w", listed.AssetNumber, err)
		}
	}
	slog.Info("Assets revalued", "as_of", asOf, "assets", len(assets), "changed", changed)
	return changed, nil
}
