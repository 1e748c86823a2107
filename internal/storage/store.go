// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/stash/internal/models"
)

var (
	// ErrNotFound indicates a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrConflict indicates a transaction lost an optimistic-concurrency race
	// more times than the backend is willing to retry.
	ErrConflict = errors.New("transaction conflict")
)

// Store defines the interface for ledger storage.
// This abstraction allows swapping storage backends (SQLite, Redis, etc.)
// without changing the ledger.
type Store interface {
	// WithTx runs fn inside one atomic transaction. If fn returns an error
	// nothing it wrote is persisted and the error is returned unchanged.
	// Backends may run fn more than once, so fn must not have side effects
	// outside the transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the set of record operations available inside a transaction.
//
// Callers must not depend on reading their own uncommitted writes:
// some backends buffer writes until commit.
type Tx interface {
	// UserExists reports whether a user record exists for address.
	UserExists(ctx context.Context, address string) (bool, error)

	// GetUser returns the user with GroupMemberships populated from the
	// membership records. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, address string) (*models.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists on duplicates.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateUser persists TotalBalance and SavingsCount.
	// GroupMemberships is ignored; it follows membership records.
	UpdateUser(ctx context.Context, user *models.User) error

	// NextPlanID allocates the next plan id. Ids start at 1.
	NextPlanID(ctx context.Context) (uint64, error)

	// CreatePlan inserts a new plan with the id already set.
	CreatePlan(ctx context.Context, plan *models.SavingsPlan) error

	// GetPlan returns a plan by id. Returns ErrNotFound if absent.
	GetPlan(ctx context.Context, planID uint64) (*models.SavingsPlan, error)

	// UpdatePlan persists the mutable fields of an existing plan.
	UpdatePlan(ctx context.Context, plan *models.SavingsPlan) error

	// ListPlansByOwner returns the plans owned by address ordered by id.
	ListPlansByOwner(ctx context.Context, address string) ([]*models.SavingsPlan, error)

	// GetMember returns a membership record. Returns ErrNotFound if absent.
	GetMember(ctx context.Context, planID uint64, address string) (*models.GroupMember, error)

	// PutMember inserts or replaces a membership record.
	PutMember(ctx context.Context, member *models.GroupMember) error

	// DeleteMember removes a membership record. Returns ErrNotFound if absent.
	DeleteMember(ctx context.Context, planID uint64, address string) error

	// ListMembers returns the plan's members ordered by join time, then address.
	ListMembers(ctx context.Context, planID uint64) ([]*models.GroupMember, error)
}
