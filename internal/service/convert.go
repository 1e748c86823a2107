package service

import (
	"errors"

	"github.com/mmynk/stash/internal/calculator"
	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/pkg/api"
)

var errPlanTypeVariant = errors.New("plan type must set exactly one of flexi, lock, goal or group")

func toAPIUser(u *models.User) *api.User {
	memberships := u.GroupMemberships
	if memberships == nil {
		memberships = []uint64{}
	}
	return &api.User{
		Address:          u.Address,
		TotalBalance:     u.TotalBalance,
		SavingsCount:     u.SavingsCount,
		GroupMemberships: memberships,
		CreatedAt:        u.CreatedAt,
	}
}

func toAPIPlanType(t models.PlanType) api.PlanType {
	switch v := t.(type) {
	case models.Flexi:
		return api.PlanType{Flexi: &api.FlexiPlan{}}
	case models.Lock:
		return api.PlanType{Lock: &api.LockPlan{UnlockTime: v.UnlockTime}}
	case models.Goal:
		return api.PlanType{Goal: &api.GoalPlan{
			Label:        v.Label,
			TargetAmount: v.TargetAmount,
			TargetTime:   v.TargetTime,
		}}
	case models.Group:
		return api.PlanType{Group: &api.GroupPlan{
			TargetAmount:     v.TargetAmount,
			IsPublic:         v.IsPublic,
			ContributionType: v.ContributionType,
			EndTime:          v.EndTime,
		}}
	default:
		return api.PlanType{}
	}
}

// fromAPIPlanType converts the wire variant. Exactly one variant must be set.
func fromAPIPlanType(t api.PlanType) (models.PlanType, error) {
	var (
		out models.PlanType
		n   int
	)
	if t.Flexi != nil {
		out = models.Flexi{}
		n++
	}
	if t.Lock != nil {
		out = models.Lock{UnlockTime: t.Lock.UnlockTime}
		n++
	}
	if t.Goal != nil {
		out = models.Goal{
			Label:        t.Goal.Label,
			TargetAmount: t.Goal.TargetAmount,
			TargetTime:   t.Goal.TargetTime,
		}
		n++
	}
	if t.Group != nil {
		out = models.Group{
			TargetAmount:     t.Group.TargetAmount,
			IsPublic:         t.Group.IsPublic,
			ContributionType: t.Group.ContributionType,
			EndTime:          t.Group.EndTime,
		}
		n++
	}
	if n != 1 {
		return nil, errPlanTypeVariant
	}
	return out, nil
}

func toAPIPlan(p *models.SavingsPlan) *api.SavingsPlan {
	out := &api.SavingsPlan{
		PlanID:       p.PlanID,
		Owner:        p.Owner,
		Type:         toAPIPlanType(p.Type),
		Balance:      p.Balance,
		StartTime:    p.StartTime,
		LastDeposit:  p.LastDeposit,
		LastWithdraw: p.LastWithdraw,
		InterestRate: p.InterestRate,
		IsCompleted:  p.IsCompleted,
	}
	if p.Group != nil {
		out.Group = &api.GroupInfo{
			Title:              p.Group.Title,
			Description:        p.Group.Description,
			Category:           p.Group.Category,
			ContributionAmount: p.Group.ContributionAmount,
			MemberCount:        p.Group.MemberCount,
		}
	}
	return out
}

func toAPIMembers(members []*models.GroupMember) []*api.GroupMember {
	out := make([]*api.GroupMember, len(members))
	for i, m := range members {
		out[i] = &api.GroupMember{
			Address:     m.Address,
			Contributed: m.Contributed,
			JoinedAt:    m.JoinedAt,
		}
	}
	return out
}

func toAPIProgress(p calculator.Progress) *api.GroupProgress {
	shares := make([]api.MemberShare, len(p.Shares))
	for i, s := range p.Shares {
		shares[i] = api.MemberShare{
			Address:     s.Member,
			Contributed: s.Contributed,
			ShareBps:    s.ShareBps,
		}
	}
	return &api.GroupProgress{
		Target:     p.Target,
		Balance:    p.Balance,
		Remaining:  p.Remaining,
		PercentBps: p.PercentBps,
		Shares:     shares,
	}
}
