package savings

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

// InitializeUser creates the ledger record for address with zero balances.
// Returns ErrDuplicateUser if the address is already initialized.
func (l *Ledger) InitializeUser(ctx context.Context, address string) error {
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		user := models.NewUser(address)
		user.CreatedAt = l.now().Unix()
		err := tx.CreateUser(ctx, user)
		if errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("%w: %s", ErrDuplicateUser, address)
		}
		return err
	})
	if err != nil {
		return err
	}

	l.logger.Info("User initialized", "address", address)
	return nil
}

// UserExists reports whether address has been initialized.
// Storage failures are logged and reported as false.
func (l *Ledger) UserExists(ctx context.Context, address string) bool {
	var exists bool
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		exists, err = tx.UserExists(ctx, address)
		return err
	})
	if err != nil {
		l.logger.Error("UserExists lookup failed", "address", address, "error", err)
		return false
	}
	return exists
}

// GetUser returns the ledger record for address.
func (l *Ledger) GetUser(ctx context.Context, address string) (*models.User, error) {
	var user *models.User
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		user, err = loadUser(ctx, tx, address)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
