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

const userColumns = "id, name, email, created_at"

// CreateUser inserts a new user into the database.
func (q *queries) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := q.conn.ExecContext(ctx,
		"INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Name, nullable(user.Email), user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.Name, translate(err))
	}
	return nil
}

// GetUser retrieves a user by their ID.
func (q *queries) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(q.conn.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUserByName retrieves a user by their exact name.
func (q *queries) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	user, err := scanUser(q.conn.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}
	return user, nil
}

// UpdateUser writes the user's name and email.
func (q *queries) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := q.conn.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ? WHERE id = ?",
		user.Name, nullable(user.Email), user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", translate(err))
	}
	return mustAffect(res, "user", user.ID)
}

// ListUsers returns every user ordered by name.
func (q *queries) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := q.conn.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user; their allocations cascade.
func (q *queries) DeleteUser(ctx context.Context, id string) error {
	res, err := q.conn.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", translate(err))
	}
	return mustAffect(res, "user", id)
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString
	if err := row.Scan(&user.ID, &user.Name, &email, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Email = email.String
	return user, nil
}
