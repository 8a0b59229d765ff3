package sqlite

import (
	"context"
	"database/sql"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: catalog_entries and users must be created BEFORE assets due to foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS catalog_entries (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    name TEXT NOT NULL COLLATE NOCASE,
    created_at INTEGER NOT NULL,
    UNIQUE (kind, name)
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    email TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assets (
    id TEXT PRIMARY KEY,
    asset_number TEXT NOT NULL UNIQUE,
    asset_type_id TEXT REFERENCES catalog_entries(id) ON DELETE SET NULL,
    location_id TEXT REFERENCES catalog_entries(id) ON DELETE SET NULL,
    room_id TEXT REFERENCES catalog_entries(id) ON DELETE SET NULL,
    department_id TEXT REFERENCES catalog_entries(id) ON DELETE SET NULL,
    purchase_date TEXT,
    purchase_value TEXT,
    depreciation_date TEXT,
    current_value TEXT,
    is_allocated INTEGER NOT NULL DEFAULT 0,
    assigned_to TEXT REFERENCES users(id) ON DELETE SET NULL,
    sticker_deployed INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS allocations (
    id TEXT PRIMARY KEY,
    asset_id TEXT NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    assigned_date TEXT NOT NULL,
    return_date TEXT,
    created_at INTEGER NOT NULL
);

-- At most one open allocation per asset.
CREATE UNIQUE INDEX IF NOT EXISTS idx_allocations_open_asset ON allocations(asset_id) WHERE return_date IS NULL;

CREATE INDEX IF NOT EXISTS idx_allocations_asset_id ON allocations(asset_id);
CREATE INDEX IF NOT EXISTS idx_allocations_user_id ON allocations(user_id);
CREATE INDEX IF NOT EXISTS idx_assets_asset_type_id ON assets(asset_type_id);
CREATE INDEX IF NOT EXISTS idx_assets_location_id ON assets(location_id);
CREATE INDEX IF NOT EXISTS idx_assets_room_id ON assets(room_id);
CREATE INDEX IF NOT EXISTS idx_assets_department_id ON assets(department_id);
CREATE INDEX IF NOT EXISTS idx_assets_assigned_to ON assets(assigned_to);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
