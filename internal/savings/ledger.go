// Package savings implements the savings ledger: the user ledger, the plan
// registry and the group savings engine.
//
// Every exported operation runs as one storage transaction. All preconditions
// are checked before anything is written, and a failed operation leaves the
// store untouched. Failures are reported as *Error sentinels (see errors.go).
package savings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

// Ledger is the entry point for every ledger operation.
type Ledger struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithClock sets the clock used for deposit, withdraw and join timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) timestamp() uint64 {
	return uint64(l.now().Unix())
}

// loadUser fetches a user, mapping a missing record to ErrUserNotFound.
func loadUser(ctx context.Context, tx storage.Tx, address string) (*models.User, error) {
	user, err := tx.GetUser(ctx, address)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, address)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// loadPlan fetches a plan, mapping a missing record to ErrPlanNotFound.
func loadPlan(ctx context.Context, tx storage.Tx, planID uint64) (*models.SavingsPlan, error) {
	plan, err := tx.GetPlan(ctx, planID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrPlanNotFound, planID)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// loadGroup fetches a plan and requires it to be a group plan.
func loadGroup(ctx context.Context, tx storage.Tx, planID uint64) (*models.SavingsPlan, models.Group, error) {
	plan, err := loadPlan(ctx, tx, planID)
	if err != nil {
		return nil, models.Group{}, err
	}
	terms, ok := plan.GroupTerms()
	if !ok {
		return nil, models.Group{}, fmt.Errorf("%w: plan %d is a %s plan", ErrWrongPlanType, planID, plan.Type.Kind())
	}
	if plan.Group == nil {
		plan.Group = &models.GroupInfo{}
	}
	return plan, terms, nil
}

// loadMember fetches a membership record, mapping a missing one to ErrNotGroupMember.
func loadMember(ctx context.Context, tx storage.Tx, planID uint64, address string) (*models.GroupMember, error) {
	member, err := tx.GetMember(ctx, planID, address)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s in plan %d", ErrNotGroupMember, address, planID)
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

// checkAmount rejects amounts that cannot be represented in the ledger.
func checkAmount(field string, amount models.Amount) error {
	if err := models.ValidateAmount(amount); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidAmount, field, amount, err)
	}
	return nil
}
