package savings

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/stash/internal/calculator"
	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

// GroupSaveParams describes a new group plan.
type GroupSaveParams struct {
	Title       string
	Description string
	Category    string

	// TargetAmount is the pool balance at which the group completes.
	TargetAmount models.Amount

	// ContributionType and ContributionAmount describe the expected
	// contribution schedule. They are stored but not enforced.
	ContributionType   uint32
	ContributionAmount models.Amount

	IsPublic  bool
	StartTime uint64
	EndTime   uint64
}

// ContributionResult reports the state after a contribution.
type ContributionResult struct {
	PlanBalance        models.Amount
	MemberContribution models.Amount

	// Completed is true if this contribution brought the pool to its target.
	Completed bool
}

// GroupSummary is a group plan with its members and progress.
type GroupSummary struct {
	Plan     *models.SavingsPlan
	Members  []*models.GroupMember
	Progress calculator.Progress
}

// CreateGroupSave creates a group plan owned by creator and makes the creator
// its first member. Returns the new plan id.
func (l *Ledger) CreateGroupSave(ctx context.Context, creator string, params GroupSaveParams) (uint64, error) {
	if err := checkAmount("target_amount", params.TargetAmount); err != nil {
		return 0, err
	}
	if err := checkAmount("contribution_amount", params.ContributionAmount); err != nil {
		return 0, err
	}

	var planID uint64
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		user, err := loadUser(ctx, tx, creator)
		if err != nil {
			return err
		}

		id, err := tx.NextPlanID(ctx)
		if err != nil {
			return err
		}

		plan := &models.SavingsPlan{
			PlanID: id,
			Owner:  creator,
			Type: models.Group{
				TargetAmount:     params.TargetAmount,
				IsPublic:         params.IsPublic,
				ContributionType: params.ContributionType,
				EndTime:          params.EndTime,
			},
			Balance:   models.ZeroAmount(),
			StartTime: params.StartTime,
			Group: &models.GroupInfo{
				Title:              params.Title,
				Description:        params.Description,
				Category:           params.Category,
				ContributionAmount: params.ContributionAmount,
				MemberCount:        1,
			},
		}
		if err := tx.CreatePlan(ctx, plan); err != nil {
			return err
		}

		if err := tx.PutMember(ctx, &models.GroupMember{
			PlanID:      id,
			Address:     creator,
			Contributed: models.ZeroAmount(),
			JoinedAt:    l.timestamp(),
		}); err != nil {
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

	l.logger.Info("Group save created",
		"plan_id", planID,
		"creator", creator,
		"target_amount", params.TargetAmount.String(),
	)
	return planID, nil
}

// JoinGroupSave adds user to the group with a zero contribution.
// Joining a group the user already belongs to is a no-op.
func (l *Ledger) JoinGroupSave(ctx context.Context, user string, planID uint64) error {
	joined := false
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		joined = false

		if _, err := loadUser(ctx, tx, user); err != nil {
			return err
		}

		plan, _, err := loadGroup(ctx, tx, planID)
		if err != nil {
			return err
		}
		if plan.IsCompleted {
			return fmt.Errorf("%w: %d", ErrPlanCompleted, planID)
		}

		_, err = tx.GetMember(ctx, planID, user)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		if err := tx.PutMember(ctx, &models.GroupMember{
			PlanID:      planID,
			Address:     user,
			Contributed: models.ZeroAmount(),
			JoinedAt:    l.timestamp(),
		}); err != nil {
			return err
		}

		plan.Group.MemberCount++
		if err := tx.UpdatePlan(ctx, plan); err != nil {
			return err
		}

		joined = true
		return nil
	})
	if err != nil {
		return err
	}

	if joined {
		l.logger.Info("Member joined group", "plan_id", planID, "address", user)
	} else {
		l.logger.Debug("Join ignored, already a member", "plan_id", planID, "address", user)
	}
	return nil
}

// ContributeToGroupSave moves amount from user into the group pool.
// The group completes as soon as its balance reaches the target.
func (l *Ledger) ContributeToGroupSave(ctx context.Context, user string, planID uint64, amount models.Amount) (*ContributionResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: contribution must be positive, got %s", ErrInvalidAmount, amount)
	}
	if err := checkAmount("amount", amount); err != nil {
		return nil, err
	}

	var result *ContributionResult
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		account, err := loadUser(ctx, tx, user)
		if err != nil {
			return err
		}

		plan, terms, err := loadGroup(ctx, tx, planID)
		if err != nil {
			return err
		}
		if plan.IsCompleted {
			return fmt.Errorf("%w: %d", ErrPlanCompleted, planID)
		}

		member, err := loadMember(ctx, tx, planID, user)
		if err != nil {
			return err
		}

		member.Contributed = member.Contributed.Add(amount)
		plan.Balance = plan.Balance.Add(amount)
		account.TotalBalance = account.TotalBalance.Add(amount)
		if err := checkAmount("plan balance", plan.Balance); err != nil {
			return err
		}
		if err := checkAmount("user balance", account.TotalBalance); err != nil {
			return err
		}

		plan.LastDeposit = l.timestamp()
		completed := plan.Balance.GreaterThanOrEqual(terms.TargetAmount)
		if completed {
			plan.IsCompleted = true
		}

		if err := tx.PutMember(ctx, member); err != nil {
			return err
		}
		if err := tx.UpdatePlan(ctx, plan); err != nil {
			return err
		}
		if err := tx.UpdateUser(ctx, account); err != nil {
			return err
		}

		result = &ContributionResult{
			PlanBalance:        plan.Balance,
			MemberContribution: member.Contributed,
			Completed:          completed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Contribution recorded",
		"plan_id", planID,
		"address", user,
		"amount", amount.String(),
		"plan_balance", result.PlanBalance.String(),
	)
	if result.Completed {
		l.logger.Info("Group save completed", "plan_id", planID)
	}
	return result, nil
}

// BreakGroupSave removes user from an active group and refunds exactly what
// the user contributed. The plan itself stays open even with no members.
// Returns the refunded amount.
func (l *Ledger) BreakGroupSave(ctx context.Context, user string, planID uint64) (models.Amount, error) {
	var refund models.Amount
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		account, err := loadUser(ctx, tx, user)
		if err != nil {
			return err
		}

		plan, _, err := loadGroup(ctx, tx, planID)
		if err != nil {
			return err
		}
		if plan.IsCompleted {
			return fmt.Errorf("%w: %d", ErrPlanCompleted, planID)
		}

		member, err := loadMember(ctx, tx, planID, user)
		if err != nil {
			return err
		}

		refund = member.Contributed
		plan.Balance = plan.Balance.Sub(refund)
		account.TotalBalance = account.TotalBalance.Sub(refund)
		if plan.Balance.IsNegative() || account.TotalBalance.IsNegative() {
			l.logger.Error("Refund would break balance invariant",
				"plan_id", planID,
				"address", user,
				"refund", refund.String(),
				"plan_balance", plan.Balance.String(),
				"user_balance", account.TotalBalance.String(),
			)
			return fmt.Errorf("refund of %s to %s from plan %d would leave a negative balance", refund, user, planID)
		}

		if err := tx.DeleteMember(ctx, planID, user); err != nil {
			return err
		}

		if plan.Group.MemberCount > 0 {
			plan.Group.MemberCount--
		}
		plan.LastWithdraw = l.timestamp()
		if err := tx.UpdatePlan(ctx, plan); err != nil {
			return err
		}
		return tx.UpdateUser(ctx, account)
	})
	if err != nil {
		return models.ZeroAmount(), err
	}

	l.logger.Info("Member left group",
		"plan_id", planID,
		"address", user,
		"refund", refund.String(),
	)
	return refund, nil
}

// GetGroupSave returns a group plan, its members and its progress.
func (l *Ledger) GetGroupSave(ctx context.Context, planID uint64) (*GroupSummary, error) {
	var summary *GroupSummary
	err := l.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		plan, terms, err := loadGroup(ctx, tx, planID)
		if err != nil {
			return err
		}

		members, err := tx.ListMembers(ctx, planID)
		if err != nil {
			return err
		}

		contributions := make([]calculator.Contribution, len(members))
		for i, m := range members {
			contributions[i] = calculator.Contribution{Member: m.Address, Amount: m.Contributed}
		}
		progress, err := calculator.GroupProgress(terms.TargetAmount, contributions)
		if err != nil {
			return fmt.Errorf("failed to calculate progress of plan %d: %w", planID, err)
		}

		summary = &GroupSummary{Plan: plan, Members: members, Progress: progress}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
