package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/models"
)

// Summary computes dashboard counts. Value totals are summed in Go so that
// the TEXT-stored decimals never pass through floating point.
func (q *queries) Summary(ctx context.Context) (*models.Summary, error) {
	sum := &models.Summary{}

	err := q.conn.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(is_allocated), 0) FROM assets",
	).Scan(&sum.Assets, &sum.AllocatedAssets)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}
	if err := q.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&sum.Users); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := q.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM allocations").Scan(&sum.Allocations); err != nil {
		return nil, fmt.Errorf("failed to count allocations: %w", err)
	}

	rows, err := q.conn.QueryContext(ctx, `
		SELECT COALESCE(t.name, ?) AS type_name, SUM(a.is_allocated), SUM(1 - a.is_allocated)
		FROM assets a
		LEFT JOIN catalog_entries t ON t.id = a.asset_type_id
		GROUP BY type_name
		ORDER BY type_name`, models.UnknownName)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc models.TypeCount
		if err := rows.Scan(&tc.AssetType, &tc.Allocated, &tc.Unallocated); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		sum.ByType = append(sum.ByType, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate type counts: %w", err)
	}

	valueRows, err := q.conn.QueryContext(ctx, "SELECT purchase_value, current_value FROM assets")
	if err != nil {
		return nil, fmt.Errorf("failed to read asset values: %w", err)
	}
	defer valueRows.Close()
	sum.PurchaseTotal, sum.CurrentTotal = decimal.Zero, decimal.Zero
	for valueRows.Next() {
		var pv, cv decimal.NullDecimal
		if err := valueRows.Scan(&pv, &cv); err != nil {
			return nil, fmt.Errorf("failed to scan asset values: %w", err)
		}
		if pv.Valid {
			sum.PurchaseTotal = sum.PurchaseTotal.Add(pv.Decimal)
		}
		if cv.Valid {
			sum.CurrentTotal = sum.CurrentTotal.Add(cv.Decimal)
		}
	}
	if err := valueRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate asset values: %w", err)
	}

	sum.Recent, err = q.ListAllocations(ctx, models.AllocationFilter{Limit: 5})
	if err != nil {
		return nil, err
	}
	return sum, nil
}
