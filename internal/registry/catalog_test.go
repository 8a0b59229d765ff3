package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/storage"
)

func TestGetOrCreateEntry(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	first, err := reg.GetOrCreateEntry(ctx, models.KindLocation, "  London ")
	require.NoError(t, err)
	assert.Equal(t, "London", first.Name)

	again, err := reg.GetOrCreateEntry(ctx, models.KindLocation, "london")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := reg.GetOrCreateEntry(ctx, models.KindDepartment, "London")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	_, err = reg.GetOrCreateEntry(ctx, models.KindLocation, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = reg.GetOrCreateEntry(ctx, models.Kind("colour"), "Red")
	assert.ErrorIs(t, err, models.ErrValidation)

	entries, err := reg.ListEntries(ctx, models.KindLocation)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolveEntryOrUnknown(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	var ids []string
	for range 2 {
		err := store.InTx(ctx, func(q storage.Queries) error {
			entry, err := ResolveEntryOrUnknown(ctx, q, models.KindRoom, " ")
			if err == nil {
				ids = append(ids, entry.ID)
			}
			return err
		})
		require.NoError(t, err)
	}
	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1])

	entries, err := reg.ListEntries(ctx, models.KindRoom)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.UnknownName, entries[0].Name)
}

func TestRenameAndDeleteEntry(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	dept, err := reg.GetOrCreateEntry(ctx, models.KindDepartment, "Finanse")
	require.NoError(t, err)
	asset, err := reg.CreateAsset(ctx, AssetInput{AssetNumber: "A-1", DepartmentID: dept.ID})
	require.NoError(t, err)

	renamed, err := reg.RenameEntry(ctx, dept.ID, "Finance")
	require.NoError(t, err)
	assert.Equal(t, "Finance", renamed.Name)

	got, err := reg.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", models.RefName(got.Department))

	_, err = reg.RenameEntry(ctx, dept.ID, " ")
	assert.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, reg.DeleteEntry(ctx, dept.ID))
	got, err = reg.GetAsset(ctx, asset.ID)
	require.NoError(t, err, "asset survives its department")
	assert.Nil(t, got.Department)

	assert.ErrorIs(t, reg.DeleteEntry(ctx, dept.ID), models.ErrNotFound)
}
