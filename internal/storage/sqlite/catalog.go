package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/assettrack/internal/models"
)

const catalogColumns = "id, kind, name, created_at"

// CreateCatalogEntry inserts a new catalog entry.
func (q *queries) CreateCatalogEntry(ctx context.Context, entry *models.CatalogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}

	_, err := q.conn.ExecContext(ctx,
		"INSERT INTO catalog_entries (id, kind, name, created_at) VALUES (?, ?, ?, ?)",
		entry.ID, string(entry.Kind), entry.Name, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s %q: %w", entry.Kind, entry.Name, translate(err))
	}
	return nil
}

// GetCatalogEntry retrieves a catalog entry by ID.
func (q *queries) GetCatalogEntry(ctx context.Context, id string) (*models.CatalogEntry, error) {
	entry, err := scanCatalogEntry(q.conn.QueryRowContext(ctx,
		"SELECT "+catalogColumns+" FROM catalog_entries WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog entry %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}
	return entry, nil
}

// FindCatalogEntry looks an entry up by its name within kind. The comparison
// uses the column's NOCASE collation and the (kind, name) unique index.
func (q *queries) FindCatalogEntry(ctx context.Context, kind models.Kind, name string) (*models.CatalogEntry, error) {
	entry, err := scanCatalogEntry(q.conn.QueryRowContext(ctx,
		"SELECT "+catalogColumns+" FROM catalog_entries WHERE kind = ? AND name = ?", string(kind), name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %q: %w", kind, name, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog entry: %w", err)
	}
	return entry, nil
}

// ListCatalogEntries returns all entries of one kind.
func (q *queries) ListCatalogEntries(ctx context.Context, kind models.Kind) ([]*models.CatalogEntry, error) {
	rows, err := q.conn.QueryContext(ctx,
		"SELECT "+catalogColumns+" FROM catalog_entries WHERE kind = ? ORDER BY name", string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.CatalogEntry
	for rows.Next() {
		entry, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog entries: %w", err)
	}
	return entries, nil
}

// RenameCatalogEntry renames an entry. Assets hold the ID, so they see the new name.
func (q *queries) RenameCatalogEntry(ctx context.Context, id, name string) error {
	res, err := q.conn.ExecContext(ctx, "UPDATE catalog_entries SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("failed to rename catalog entry: %w", translate(err))
	}
	return mustAffect(res, "catalog entry", id)
}

// DeleteCatalogEntry removes an entry. The schema's ON DELETE SET NULL clears
// the matching reference on every asset.
func (q *queries) DeleteCatalogEntry(ctx context.Context, id string) error {
	res, err := q.conn.ExecContext(ctx, "DELETE FROM catalog_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog entry: %w", translate(err))
	}
	return mustAffect(res, "catalog entry", id)
}

func scanCatalogEntry(row scanner) (*models.CatalogEntry, error) {
	entry := &models.CatalogEntry{}
	if err := row.Scan(&entry.ID, &entry.Kind, &entry.Name, &entry.CreatedAt); err != nil {
		return nil, err
	}
	return entry, nil
}
