package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/ledger"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/storage"
)

func TestCreateUser(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	user, err := reg.CreateUser(ctx, " Carol ", "Carol <carol@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "Carol", user.Name)
	assert.Equal(t, "carol@example.com", user.Email)

	_, err = reg.CreateUser(ctx, "Carol", "")
	assert.ErrorIs(t, err, models.ErrDuplicate)
	_, err = reg.CreateUser(ctx, "", "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = reg.CreateUser(ctx, "Dan", "not an email")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResolveUserFillsMissingEmail(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	resolve := func(name, email string) *models.User {
		var user *models.User
		require.NoError(t, store.InTx(ctx, func(q storage.Queries) error {
			var err error
			user, err = ResolveUser(ctx, q, name, email)
			return err
		}))
		return user
	}

	created := resolve("Erin", "")
	assert.Empty(t, created.Email)

	filled := resolve("Erin", "erin@example.com")
	assert.Equal(t, created.ID, filled.ID)
	assert.Equal(t, "erin@example.com", filled.Email)

	kept := resolve("Erin", "other@example.com")
	assert.Equal(t, "erin@example.com", kept.Email)

	users, err := reg.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUpdateUser(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	user, err := reg.CreateUser(ctx, "Frank", "")
	require.NoError(t, err)

	updated, err := reg.UpdateUser(ctx, user.ID, "Francis", "francis@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Francis", updated.Name)

	got, err := reg.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "francis@example.com", got.Email)

	_, err = reg.UpdateUser(ctx, "missing", "X", "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteUserWithOpenAllocation(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	user, err := reg.CreateUser(ctx, "Grace", "")
	require.NoError(t, err)
	asset, err := reg.CreateAsset(ctx, AssetInput{AssetNumber: "A-1", AssignedTo: user.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, reg.DeleteUser(ctx, user.ID), models.ErrReferentialConflict)

	_, err = ledger.New(store).Return(ctx, asset.ID, date.Of(fixedNow))
	require.NoError(t, err)
	require.NoError(t, reg.DeleteUser(ctx, user.ID))

	history, err := store.ListAllocations(ctx, models.AllocationFilter{AssetID: asset.ID})
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.ErrorIs(t, reg.DeleteUser(ctx, user.ID), models.ErrNotFound)
}
