package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

// UserExists reports whether a user row exists.
func (t *sqliteTx) UserExists(ctx context.Context, address string) (bool, error) {
	var exists int
	err := t.tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE address = ?", address).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return true, nil
}

// GetUser retrieves a user and the ids of the groups it belongs to.
func (t *sqliteTx) GetUser(ctx context.Context, address string) (*models.User, error) {
	user := &models.User{}
	err := t.tx.QueryRowContext(ctx,
		"SELECT address, total_balance, savings_count, created_at FROM users WHERE address = ?",
		address,
	).Scan(&user.Address, &user.TotalBalance, &user.SavingsCount, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", address, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	rows, err := t.tx.QueryContext(ctx,
		"SELECT plan_id FROM group_members WHERE address = ? ORDER BY plan_id",
		address,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group memberships: %w", err)
	}
	defer rows.Close()

	user.GroupMemberships = []uint64{}
	for rows.Next() {
		var planID int64
		if err := rows.Scan(&planID); err != nil {
			return nil, fmt.Errorf("failed to scan group membership: %w", err)
		}
		user.GroupMemberships = append(user.GroupMemberships, uint64(planID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group memberships: %w", err)
	}

	return user, nil
}

// CreateUser inserts a new user row.
func (t *sqliteTx) CreateUser(ctx context.Context, user *models.User) error {
	exists, err := t.UserExists(ctx, user.Address)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("user %s: %w", user.Address, storage.ErrAlreadyExists)
	}

	_, err = t.tx.ExecContext(ctx,
		"INSERT INTO users (address, total_balance, savings_count, created_at) VALUES (?, ?, ?, ?)",
		user.Address, user.TotalBalance, user.SavingsCount, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser writes the user's balance and plan count.
func (t *sqliteTx) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE users SET total_balance = ?, savings_count = ? WHERE address = ?",
		user.TotalBalance, user.SavingsCount, user.Address,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(res, "user "+user.Address)
}

// requireRow turns a zero-row UPDATE/DELETE into storage.ErrNotFound.
func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
