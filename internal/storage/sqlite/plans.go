package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

const planColumns = `id, owner, kind, balance, start_time, last_deposit, last_withdraw,
	interest_rate, is_completed, unlock_time, goal_label, target_amount, target_time,
	is_public, contribution_type, end_time, title, description, category,
	contribution_amount, member_count`

// NextPlanID increments the plan counter and returns the new value.
func (t *sqliteTx) NextPlanID(ctx context.Context) (uint64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx,
		`INSERT INTO counters (name, value) VALUES ('plan_id', 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1
		 RETURNING value`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate plan id: %w", err)
	}
	return uint64(id), nil
}

// CreatePlan inserts a plan row, flattening its variant into columns.
func (t *sqliteTx) CreatePlan(ctx context.Context, plan *models.SavingsPlan) error {
	var unlockTime, targetTime, endTime, contributionType, memberCount any
	var goalLabel, targetAmount, title, description, category, contribAmt any
	var isPublic any

	switch pt := plan.Type.(type) {
	case models.Flexi:
	case models.Lock:
		unlockTime = int64(pt.UnlockTime)
	case models.Goal:
		goalLabel = pt.Label
		targetAmount = pt.TargetAmount
		targetTime = int64(pt.TargetTime)
	case models.Group:
		targetAmount = pt.TargetAmount
		isPublic = pt.IsPublic
		contributionType = int64(pt.ContributionType)
		endTime = int64(pt.EndTime)
		info := plan.Group
		if info == nil {
			info = &models.GroupInfo{}
		}
		title = info.Title
		description = info.Description
		category = info.Category
		contribAmt = info.ContributionAmount
		memberCount = int64(info.MemberCount)
	default:
		return fmt.Errorf("failed to create plan: unsupported plan type %T", plan.Type)
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO plans (`+planColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(plan.PlanID), plan.Owner, string(plan.Type.Kind()), plan.Balance,
		int64(plan.StartTime), int64(plan.LastDeposit), int64(plan.LastWithdraw),
		int64(plan.InterestRate), plan.IsCompleted,
		unlockTime, goalLabel, targetAmount, targetTime,
		isPublic, contributionType, endTime, title, description, category,
		contribAmt, memberCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by id.
func (t *sqliteTx) GetPlan(ctx context.Context, planID uint64) (*models.SavingsPlan, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+planColumns+" FROM plans WHERE id = ?", int64(planID))
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %d: %w", planID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

// UpdatePlan writes the mutable plan fields. The variant payload is immutable.
func (t *sqliteTx) UpdatePlan(ctx context.Context, plan *models.SavingsPlan) error {
	var memberCount any
	if plan.Group != nil {
		memberCount = int64(plan.Group.MemberCount)
	}

	res, err := t.tx.ExecContext(ctx,
		`UPDATE plans SET balance = ?, last_deposit = ?, last_withdraw = ?,
		 interest_rate = ?, is_completed = ?, member_count = ?
		 WHERE id = ?`,
		plan.Balance, int64(plan.LastDeposit), int64(plan.LastWithdraw),
		int64(plan.InterestRate), plan.IsCompleted, memberCount,
		int64(plan.PlanID),
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return requireRow(res, fmt.Sprintf("plan %d", plan.PlanID))
}

// ListPlansByOwner retrieves all plans created by address.
func (t *sqliteTx) ListPlansByOwner(ctx context.Context, address string) ([]*models.SavingsPlan, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT "+planColumns+" FROM plans WHERE owner = ? ORDER BY id",
		address,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.SavingsPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}
	return plans, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlan rebuilds a plan and its variant from a plans row.
func scanPlan(row rowScanner) (*models.SavingsPlan, error) {
	var (
		plan                                     models.SavingsPlan
		id, startTime, lastDeposit, lastWithdraw int64
		interestRate                             int64
		kind                                     string
		unlockTime, targetTime, endTime          sql.NullInt64
		contributionType, memberCount            sql.NullInt64
		goalLabel, title, description, category  sql.NullString
		isPublic                                 sql.NullBool
		targetAmount, contributionAmount         decimal.NullDecimal
	)

	err := row.Scan(
		&id, &plan.Owner, &kind, &plan.Balance, &startTime, &lastDeposit, &lastWithdraw,
		&interestRate, &plan.IsCompleted, &unlockTime, &goalLabel, &targetAmount, &targetTime,
		&isPublic, &contributionType, &endTime, &title, &description, &category,
		&contributionAmount, &memberCount,
	)
	if err != nil {
		return nil, err
	}

	plan.PlanID = uint64(id)
	plan.StartTime = uint64(startTime)
	plan.LastDeposit = uint64(lastDeposit)
	plan.LastWithdraw = uint64(lastWithdraw)
	plan.InterestRate = uint32(interestRate)

	planKind, err := models.ParsePlanKind(kind)
	if err != nil {
		return nil, err
	}

	switch planKind {
	case models.KindFlexi:
		plan.Type = models.Flexi{}
	case models.KindLock:
		plan.Type = models.Lock{UnlockTime: uint64(unlockTime.Int64)}
	case models.KindGoal:
		plan.Type = models.Goal{
			Label:        goalLabel.String,
			TargetAmount: targetAmount.Decimal,
			TargetTime:   uint64(targetTime.Int64),
		}
	case models.KindGroup:
		plan.Type = models.Group{
			TargetAmount:     targetAmount.Decimal,
			IsPublic:         isPublic.Bool,
			ContributionType: uint32(contributionType.Int64),
			EndTime:          uint64(endTime.Int64),
		}
		plan.Group = &models.GroupInfo{
			Title:              title.String,
			Description:        description.String,
			Category:           category.String,
			ContributionAmount: contributionAmount.Decimal,
			MemberCount:        uint32(memberCount.Int64),
		}
	}

	return &plan, nil
}
