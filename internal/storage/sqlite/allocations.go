package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/models"
)

const allocationSelect = `
SELECT al.id, al.asset_id, a.asset_number, al.user_id, u.name, al.assigned_date, al.return_date, al.created_at
FROM allocations al
JOIN assets a ON a.id = al.asset_id
JOIN users u ON u.id = al.user_id`

// CreateAllocation persists a new allocation. The partial unique index on
// open allocations turns a second open row for the same asset into
// models.ErrAlreadyAllocated.
func (q *queries) CreateAllocation(ctx context.Context, alloc *models.Allocation) error {
	if alloc.ID == "" {
		alloc.ID = uuid.New().String()
	}
	if alloc.CreatedAt == 0 {
		alloc.CreatedAt = time.Now().Unix()
	}

	_, err := q.conn.ExecContext(ctx,
		`INSERT INTO allocations (id, asset_id, user_id, assigned_date, return_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		alloc.ID, alloc.Asset.ID, alloc.User.ID, alloc.AssignedDate.String(), dateArg(alloc.ReturnDate), alloc.CreatedAt,
	)
	if err != nil {
		err = translate(err)
		if errors.Is(err, models.ErrDuplicate) {
			return fmt.Errorf("asset %s: %w", alloc.Asset.ID, models.ErrAlreadyAllocated)
		}
		return fmt.Errorf("failed to insert allocation: %w", err)
	}
	return nil
}

// GetAllocation retrieves an allocation by ID.
func (q *queries) GetAllocation(ctx context.Context, id string) (*models.Allocation, error) {
	alloc, err := scanAllocation(q.conn.QueryRowContext(ctx, allocationSelect+" WHERE al.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("allocation %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}
	return alloc, nil
}

// OpenAllocation returns the open allocation of an asset, or nil.
func (q *queries) OpenAllocation(ctx context.Context, assetID string) (*models.Allocation, error) {
	alloc, err := scanAllocation(q.conn.QueryRowContext(ctx,
		allocationSelect+" WHERE al.asset_id = ? AND al.return_date IS NULL", assetID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open allocation: %w", err)
	}
	return alloc, nil
}

// SetAssignedDate moves the start of an open allocation.
func (q *queries) SetAssignedDate(ctx context.Context, allocationID string, assigned date.Date) error {
	res, err := q.conn.ExecContext(ctx,
		"UPDATE allocations SET assigned_date = ? WHERE id = ? AND return_date IS NULL",
		assigned.String(), allocationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update allocation: %w", err)
	}
	return mustAffect(res, "open allocation", allocationID)
}

// CloseAllocation records the return date of an open allocation.
func (q *queries) CloseAllocation(ctx context.Context, allocationID string, returned date.Date) error {
	res, err := q.conn.ExecContext(ctx,
		"UPDATE allocations SET return_date = ? WHERE id = ? AND return_date IS NULL",
		returned.String(), allocationID,
	)
	if err != nil {
		return fmt.Errorf("failed to close allocation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("allocation %s: %w", allocationID, models.ErrNotAllocated)
	}
	return nil
}

// ListAllocations returns allocations newest first.
func (q *queries) ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]*models.Allocation, error) {
	var (
		where []string
		args  []any
	)
	if filter.OpenOnly {
		where = append(where, "al.return_date IS NULL")
	}
	if filter.AssetID != "" {
		where = append(where, "al.asset_id = ?")
		args = append(args, filter.AssetID)
	}
	if filter.UserID != "" {
		where = append(where, "al.user_id = ?")
		args = append(args, filter.UserID)
	}

	query := allocationSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY al.assigned_date DESC, al.created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocs []*models.Allocation
	for rows.Next() {
		alloc, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocs = append(allocs, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return allocs, nil
}

func scanAllocation(row scanner) (*models.Allocation, error) {
	alloc := &models.Allocation{}
	var returned date.Null
	err := row.Scan(&alloc.ID, &alloc.Asset.ID, &alloc.Asset.Name, &alloc.User.ID, &alloc.User.Name,
		&alloc.AssignedDate, &returned, &alloc.CreatedAt)
	if err != nil {
		return nil, err
	}
	alloc.ReturnDate = returned.Ptr()
	return alloc, nil
}
