package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/storage"
)

// NormalizeEmail trims an optional email address and checks its syntax.
// An empty address is valid.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", models.Invalid("invalid email %q", email)
	}
	return addr.Address, nil
}

func normalizeUser(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", models.Invalid("user name is required")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return "", "", err
	}
	return name, email, nil
}

// CreateUser adds a user. Names must be unique.
func (r *Registry) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	name, email, err := normalizeUser(name, email)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email}
	if err := r.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("User created", "user_id", user.ID, "name", user.Name)
	return user, nil
}

// ResolveUser finds a user by exact name inside an existing transaction,
// creating one if absent. A known email is never overwritten; a missing one
// is filled in.
func ResolveUser(ctx context.Context, q storage.Queries, name, email string) (*models.User, error) {
	name, email, err := normalizeUser(name, email)
	if err != nil {
		return nil, err
	}

	user, err := q.GetUserByName(ctx, name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		user = &models.User{Name: name, Email: email}
		if err := q.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		slog.Debug("User created", "user_id", user.ID, "name", name)
		return user, nil
	case err != nil:
		return nil, err
	}

	if user.Email == "" && email != "" {
		user.Email = email
		if err := q.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (r *Registry) GetUser(ctx context.Context, id string) (*models.User, error) {
	return r.store.GetUser(ctx, id)
}

// UpdateUser changes a user's name and email.
func (r *Registry) UpdateUser(ctx context.Context, id, name, email string) (*models.User, error) {
	name, email, err := normalizeUser(name, email)
	if err != nil {
		return nil, err
	}
	var user *models.User
	err = r.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		user, err = q.GetUser(ctx, id)
		if err != nil {
			return err
		}
		user.Name, user.Email = name, email
		return q.UpdateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("User updated", "user_id", id, "name", name)
	return user, nil
}

// ListUsers returns all users ordered by name.
func (r *Registry) ListUsers(ctx context.Context) ([]*models.User, error) {
	return r.store.ListUsers(ctx)
}

// DeleteUser removes a user and their closed allocation history. A user who
// still holds an asset cannot be deleted.
func (r *Registry) DeleteUser(ctx context.Context, id string) error {
	err := r.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetUser(ctx, id); err != nil {
			return err
		}
		open, err := q.ListAllocations(ctx, models.AllocationFilter{UserID: id, OpenOnly: true, Limit: 1})
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return fmt.Errorf("user still holds asset %s: %w", open[0].Asset.Name, models.ErrReferentialConflict)
		}
		return q.DeleteUser(ctx, id)
	})
	if err != nil {
		return err
	}
	slog.Info("User deleted", "user_id", id)
	return nil
}
