package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/models"
)

const assetSelect = `
SELECT a.id, a.asset_number,
       a.asset_type_id, t.name, a.location_id, l.name, a.room_id, r.name, a.department_id, d.name,
       a.purchase_date, a.purchase_value, a.depreciation_date, a.current_value,
       a.is_allocated, a.assigned_to, u.name, a.sticker_deployed, a.created_at, a.updated_at
FROM assets a
LEFT JOIN catalog_entries t ON t.id = a.asset_type_id
LEFT JOIN catalog_entries l ON l.id = a.location_id
LEFT JOIN catalog_entries r ON r.id = a.room_id
LEFT JOIN catalog_entries d ON d.id = a.department_id
LEFT JOIN users u ON u.id = a.assigned_to`

// CreateAsset persists a new asset, custody included.
func (q *queries) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if asset.CreatedAt == 0 {
		asset.CreatedAt = now
	}
	asset.UpdatedAt = now

	_, err := q.conn.ExecContext(ctx, `
		INSERT INTO assets (id, asset_number, asset_type_id, location_id, room_id, department_id,
			purchase_date, purchase_value, depreciation_date, current_value,
			is_allocated, assigned_to, sticker_deployed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.AssetNumber,
		nullable(models.RefID(asset.AssetType)), nullable(models.RefID(asset.Location)),
		nullable(models.RefID(asset.Room)), nullable(models.RefID(asset.Department)),
		dateArg(asset.PurchaseDate), decimalArg(asset.PurchaseValue),
		dateArg(asset.DepreciationDate), decimalArg(asset.CurrentValue),
		asset.IsAllocated, nullable(models.RefID(asset.AssignedTo)), asset.StickerDeployed,
		asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset %q: %w", asset.AssetNumber, translate(err))
	}
	return nil
}

// UpdateAsset writes descriptive and derived fields. Custody is left to SetCustody.
func (q *queries) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	asset.UpdatedAt = time.Now().Unix()

	res, err := q.conn.ExecContext(ctx, `
		UPDATE assets SET asset_number = ?, asset_type_id = ?, location_id = ?, room_id = ?, department_id = ?,
			purchase_date = ?, purchase_value = ?, depreciation_date = ?, current_value = ?,
			sticker_deployed = ?, updated_at = ?
		WHERE id = ?`,
		asset.AssetNumber,
		nullable(models.RefID(asset.AssetType)), nullable(models.RefID(asset.Location)),
		nullable(models.RefID(asset.Room)), nullable(models.RefID(asset.Department)),
		dateArg(asset.PurchaseDate), decimalArg(asset.PurchaseValue),
		dateArg(asset.DepreciationDate), decimalArg(asset.CurrentValue),
		asset.StickerDeployed, asset.UpdatedAt, asset.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset %q: %w", asset.AssetNumber, translate(err))
	}
	return mustAffect(res, "asset", asset.ID)
}

// GetAsset retrieves an asset by ID with reference names resolved.
func (q *queries) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	asset, err := scanAsset(q.conn.QueryRowContext(ctx, assetSelect+" WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

// GetAssetByNumber retrieves an asset by its natural key.
func (q *queries) GetAssetByNumber(ctx context.Context, assetNumber string) (*models.Asset, error) {
	asset, err := scanAsset(q.conn.QueryRowContext(ctx, assetSelect+" WHERE a.asset_number = ?", assetNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %q: %w", assetNumber, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset by number: %w", err)
	}
	return asset, nil
}

// LockAsset reads an asset for modification. Transactions are opened
// IMMEDIATE, so the caller already holds the write lock when this runs.
func (q *queries) LockAsset(ctx context.Context, id string) (*models.Asset, error) {
	return q.GetAsset(ctx, id)
}

// ListAssets returns the assets matching filter ordered by asset number.
// Catalog name filters go through the (kind, name) unique index and then the
// indexed foreign key columns.
func (q *queries) ListAssets(ctx context.Context, filter models.AssetFilter) ([]*models.Asset, error) {
	var (
		where []string
		args  []any
	)
	if filter.NumberPrefix != "" {
		where = append(where, `a.asset_number LIKE ? ESCAPE '\'`)
		args = append(args, likePrefix(filter.NumberPrefix))
	}
	for _, f := range []struct {
		column string
		kind   models.Kind
		name   string
	}{
		{"a.asset_type_id", models.KindAssetType, filter.AssetType},
		{"a.location_id", models.KindLocation, filter.Location},
		{"a.room_id", models.KindRoom, filter.Room},
		{"a.department_id", models.KindDepartment, filter.Department},
	} {
		if f.name == "" {
			continue
		}
		where = append(where, f.column+" = (SELECT id FROM catalog_entries WHERE kind = ? AND name = ?)")
		args = append(args, string(f.kind), f.name)
	}
	if filter.Allocated != nil {
		where = append(where, "a.is_allocated = ?")
		args = append(args, *filter.Allocated)
	}
	if filter.AssignedTo != "" {
		where = append(where, "a.assigned_to = ?")
		args = append(args, filter.AssignedTo)
	}

	query := assetSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.asset_number"

	rows, err := q.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}
	return assets, nil
}

// DeleteAsset removes an asset; its allocations cascade.
func (q *queries) DeleteAsset(ctx context.Context, id string) error {
	res, err := q.conn.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", translate(err))
	}
	return mustAffect(res, "asset", id)
}

// SetCustody updates the allocation flag and custodian in one statement.
func (q *queries) SetCustody(ctx context.Context, assetID, userID string) error {
	res, err := q.conn.ExecContext(ctx,
		"UPDATE assets SET is_allocated = ?, assigned_to = ?, updated_at = ? WHERE id = ?",
		userID != "", nullable(userID), time.Now().Unix(), assetID,
	)
	if err != nil {
		return fmt.Errorf("failed to set custody: %w", translate(err))
	}
	return mustAffect(res, "asset", assetID)
}

func scanAsset(row scanner) (*models.Asset, error) {
	asset := &models.Asset{}
	var (
		typeID, typeName, locID, locName   sql.NullString
		roomID, roomName, deptID, deptName sql.NullString
		userID, userName                   sql.NullString
		purchaseDate, depreciationDate     date.Null
		purchaseValue, currentValue        decimal.NullDecimal
	)
	err := row.Scan(&asset.ID, &asset.AssetNumber,
		&typeID, &typeName, &locID, &locName, &roomID, &roomName, &deptID, &deptName,
		&purchaseDate, &purchaseValue, &depreciationDate, &currentValue,
		&asset.IsAllocated, &userID, &userName, &asset.StickerDeployed,
		&asset.CreatedAt, &asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	asset.AssetType = ref(typeID, typeName)
	asset.Location = ref(locID, locName)
	asset.Room = ref(roomID, roomName)
	asset.Department = ref(deptID, deptName)
	asset.AssignedTo = ref(userID, userName)
	asset.PurchaseDate = purchaseDate.Ptr()
	asset.DepreciationDate = depreciationDate.Ptr()
	asset.PurchaseValue = purchaseValue
	asset.CurrentValue = currentValue
	return asset, nil
}
