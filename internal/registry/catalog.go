package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/storage"
)

// GetOrCreateEntry returns the entry of kind named name, creating it if absent.
func (r *Registry) GetOrCreateEntry(ctx context.Context, kind models.Kind, name string) (*models.CatalogEntry, error) {
	var entry *models.CatalogEntry
	err := r.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		entry, err = ResolveEntry(ctx, q, kind, name)
		return err
	})
	return entry, err
}

// ResolveEntry finds or creates a catalog entry inside an existing transaction.
// Names are trimmed and matched without regard to case.
func ResolveEntry(ctx context.Context, q storage.Queries, kind models.Kind, name string) (*models.CatalogEntry, error) {
	if _, err := models.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Invalid("%s name is required", kind)
	}

	entry, err := q.FindCatalogEntry(ctx, kind, name)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	entry = &models.CatalogEntry{Kind: kind, Name: name}
	if err := q.CreateCatalogEntry(ctx, entry); err != nil {
		return nil, err
	}
	slog.Debug("Catalog entry created", "kind", kind, "name", name, "id", entry.ID)
	return entry, nil
}

// ResolveEntryOrUnknown resolves name, substituting the shared "Unknown"
// entry when it is blank.
func ResolveEntryOrUnknown(ctx context.Context, q storage.Queries, kind models.Kind, name string) (*models.CatalogEntry, error) {
	if strings.TrimSpace(name) == "" {
		name = models.UnknownName
	}
	return ResolveEntry(ctx, q, kind, name)
}

// ListEntries returns every entry of a kind ordered by name.
func (r *Registry) ListEntries(ctx context.Context, kind models.Kind) ([]*models.CatalogEntry, error) {
	if _, err := models.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	return r.store.ListCatalogEntries(ctx, kind)
}

// RenameEntry changes an entry's name. Assets see the new name immediately.
func (r *Registry) RenameEntry(ctx context.Context, id, name string) (*models.CatalogEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Invalid("name is required")
	}
	var entry *models.CatalogEntry
	err := r.store.InTx(ctx, func(q storage.Queries) error {
		if err := q.RenameCatalogEntry(ctx, id, name); err != nil {
			return err
		}
		var err error
		entry, err = q.GetCatalogEntry(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Catalog entry renamed", "kind", entry.Kind, "id", id, "name", name)
	return entry, nil
}

// DeleteEntry removes an entry. Assets that referenced it keep existing with
// the reference cleared.
func (r *Registry) DeleteEntry(ctx context.Context, id string) error {
	if err := r.store.DeleteCatalogEntry(ctx, id); err != nil {
		return err
	}
	slog.Info("Catalog entry deleted", "id", id)
	return nil
}
