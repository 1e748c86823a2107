package savings

import (
	"context"
	"fmt"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

// OpenPlan registers an individual (Flexi, Lock or Goal) plan for owner and
// returns its id. Group plans are created with CreateGroupSave instead.
func (l *Ledger) OpenPlan(ctx context.Context, owner string, planType models.PlanType, startTime uint64, interestRate uint32) (uint64, error) {
	switch pt := planType.(type) {
	case models.Flexi, models.Lock:
	case models.Goal:
		if err := checkAmount("target_amount", pt.TargetAmount); err != nil {
			return 0, err
		}
	case models.Group:
		return 0, fmt.Errorf("%w: group plans are created with CreateGroupSave", ErrWrongPlanType)
	default:
		return 0, fmt.Errorf("%w: unsupported plan type %T", ErrWrongPlanType, planType)
	}

	var planID uint64
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		user, err := loadUser(ctx, tx, owner)
		if err != nil {
			return err
		}

		id, err := tx.NextPlanID(ctx)
		if err != nil {
			return err
		}

		plan := &models.SavingsPlan{
			PlanID:       id,
			Owner:        owner,
			Type:         planType,
			Balance:      models.ZeroAmount(),
			StartTime:    startTime,
			InterestRate: interestRate,
		}
		if err := tx.CreatePlan(ctx, plan); err != nil {
			return err
		}

		user.SavingsCount++
		if err := tx.UpdateUser(ctx, user); err != nil {
			return err
		}

		planID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	l.logger.Info("Plan opened", "plan_id", planID, "owner", owner, "kind", planType.Kind())
	return planID, nil
}

// GetSavingsPlan returns the plan stored under (owner, planID).
// A plan owned by someone else is reported as ErrPlanNotFound.
func (l *Ledger) GetSavingsPlan(ctx context.Context, owner string, planID uint64) (*models.SavingsPlan, error) {
	var plan *models.SavingsPlan
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		p, err := loadPlan(ctx, tx, planID)
		if err != nil {
			return err
		}
		if p.Owner != owner {
			return fmt.Errorf("%w: %d for owner %s", ErrPlanNotFound, planID, owner)
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListSavingsPlans returns every plan owned by owner, ordered by id.
func (l *Ledger) ListSavingsPlans(ctx context.Context, owner string) ([]*models.SavingsPlan, error) {
	var plans []*models.SavingsPlan
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if _, err := loadUser(ctx, tx, owner); err != nil {
			return err
		}
		var err error
		plans, err = tx.ListPlansByOwner(ctx, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plans, nil
}
