package redis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/stash/internal/models"
)

// userRecord is the JSON value stored under a user key.
// Group memberships live in a separate set.
type userRecord struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
	SavingsCount uint32          `json:"savings_count"`
	CreatedAt    int64           `json:"created_at"`
}

// memberRecord is the JSON value stored per member in a plan's members hash.
type memberRecord struct {
	Contributed decimal.Decimal `json:"contributed"`
	JoinedAt    uint64          `json:"joined_at"`
}

// groupRecord holds the descriptive metadata of a group plan.
type groupRecord struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	ContributionAmount decimal.Decimal `json:"contribution_amount"`
	MemberCount        uint32          `json:"member_count"`
}

// planRecord is the JSON value stored under a plan key.
// The plan variant is flattened next to a kind discriminator.
type planRecord struct {
	ID           uint64          `json:"id"`
	Owner        string          `json:"owner"`
	Kind         string          `json:"kind"`
	Balance      decimal.Decimal `json:"balance"`
	StartTime    uint64          `json:"start_time"`
	LastDeposit  uint64          `json:"last_deposit"`
	LastWithdraw uint64          `json:"last_withdraw"`
	InterestRate uint32          `json:"interest_rate"`
	IsCompleted  bool            `json:"is_completed"`

	UnlockTime       uint64          `json:"unlock_time,omitempty"`
	GoalLabel        string          `json:"goal_label,omitempty"`
	TargetAmount     decimal.Decimal `json:"target_amount"`
	TargetTime       uint64          `json:"target_time,omitempty"`
	IsPublic         bool            `json:"is_public,omitempty"`
	ContributionType uint32          `json:"contribution_type,omitempty"`
	EndTime          uint64          `json:"end_time,omitempty"`

	Group *groupRecord `json:"group,omitempty"`
}

func toPlanRecord(plan *models.SavingsPlan) (*planRecord, error) {
	rec := &planRecord{
		ID:           plan.PlanID,
		Owner:        plan.Owner,
		Kind:         string(plan.Type.Kind()),
		Balance:      plan.Balance,
		StartTime:    plan.StartTime,
		LastDeposit:  plan.LastDeposit,
		LastWithdraw: plan.LastWithdraw,
		InterestRate: plan.InterestRate,
		IsCompleted:  plan.IsCompleted,
	}

	switch pt := plan.Type.(type) {
	case models.Flexi:
	case models.Lock:
		rec.UnlockTime = pt.UnlockTime
	case models.Goal:
		rec.GoalLabel = pt.Label
		rec.TargetAmount = pt.TargetAmount
		rec.TargetTime = pt.TargetTime
	case models.Group:
		rec.TargetAmount = pt.TargetAmount
		rec.IsPublic = pt.IsPublic
		rec.ContributionType = pt.ContributionType
		rec.EndTime = pt.EndTime
		rec.Group = &groupRecord{}
		if info := plan.Group; info != nil {
			rec.Group = &groupRecord{
				Title:              info.Title,
				Description:        info.Description,
				Category:           info.Category,
				ContributionAmount: info.ContributionAmount,
				MemberCount:        info.MemberCount,
			}
		}
	default:
		return nil, fmt.Errorf("unsupported plan type %T", plan.Type)
	}

	return rec, nil
}

func (r *planRecord) toModel() (*models.SavingsPlan, error) {
	kind, err := models.ParsePlanKind(r.Kind)
	if err != nil {
		return nil, err
	}

	plan := &models.SavingsPlan{
		PlanID:       r.ID,
		Owner:        r.Owner,
		Balance:      r.Balance,
		StartTime:    r.StartTime,
		LastDeposit:  r.LastDeposit,
		LastWithdraw: r.LastWithdraw,
		InterestRate: r.InterestRate,
		IsCompleted:  r.IsCompleted,
	}

	switch kind {
	case models.KindFlexi:
		plan.Type = models.Flexi{}
	case models.KindLock:
		plan.Type = models.Lock{UnlockTime: r.UnlockTime}
	case models.KindGoal:
		plan.Type = models.Goal{Label: r.GoalLabel, TargetAmount: r.TargetAmount, TargetTime: r.TargetTime}
	case models.KindGroup:
		plan.Type = models.Group{
			TargetAmount:     r.TargetAmount,
			IsPublic:         r.IsPublic,
			ContributionType: r.ContributionType,
			EndTime:          r.EndTime,
		}
		plan.Group = &models.GroupInfo{}
		if r.Group != nil {
			plan.Group = &models.GroupInfo{
				Title:              r.Group.Title,
				Description:        r.Group.Description,
				Category:           r.Group.Category,
				ContributionAmount: r.Group.ContributionAmount,
				MemberCount:        r.Group.MemberCount,
			}
		}
	}

	return plan, nil
}
