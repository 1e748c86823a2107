// Package api holds the request and response messages of the
// stash.v1.SavingsService RPC service.
//
// Messages are plain structs encoded as JSON. Amounts are decimal strings so
// that 128-bit values survive clients without 64-bit integer precision.
package api

import "github.com/shopspring/decimal"

// User is the ledger state of one address.
type User struct {
	Address          string          `json:"address"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	SavingsCount     uint32          `json:"savings_count"`
	GroupMemberships []uint64        `json:"group_memberships"`
	CreatedAt        int64           `json:"created_at"`
}

// PlanType holds exactly one plan variant.
type PlanType struct {
	Flexi *FlexiPlan `json:"flexi,omitempty"`
	Lock  *LockPlan  `json:"lock,omitempty"`
	Goal  *GoalPlan  `json:"goal,omitempty"`
	Group *GroupPlan `json:"group,omitempty"`
}

type FlexiPlan struct{}

type LockPlan struct {
	UnlockTime uint64 `json:"unlock_time"`
}

type GoalPlan struct {
	Label        string          `json:"label" validate:"max=64"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetTime   uint64          `json:"target_time"`
}

type GroupPlan struct {
	TargetAmount     decimal.Decimal `json:"target_amount"`
	IsPublic         bool            `json:"is_public"`
	ContributionType uint32          `json:"contribution_type"`
	EndTime          uint64          `json:"end_time"`
}

// GroupInfo is the descriptive part of a group plan.
type GroupInfo struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	ContributionAmount decimal.Decimal `json:"contribution_amount"`
	MemberCount        uint32          `json:"member_count"`
}

type SavingsPlan struct {
	PlanID       uint64          `json:"plan_id"`
	Owner        string          `json:"owner"`
	Type         PlanType        `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	StartTime    uint64          `json:"start_time"`
	LastDeposit  uint64          `json:"last_deposit"`
	LastWithdraw uint64          `json:"last_withdraw"`
	InterestRate uint32          `json:"interest_rate"`
	IsCompleted  bool            `json:"is_completed"`
	Group        *GroupInfo      `json:"group,omitempty"`
}

type GroupMember struct {
	Address     string          `json:"address"`
	Contributed decimal.Decimal `json:"contributed"`
	JoinedAt    uint64          `json:"joined_at"`
}

type MemberShare struct {
	Address     string          `json:"address"`
	Contributed decimal.Decimal `json:"contributed"`
	ShareBps    uint32          `json:"share_bps"`
}

// GroupProgress reports how far a group is from its target.
type GroupProgress struct {
	Target     decimal.Decimal `json:"target"`
	Balance    decimal.Decimal `json:"balance"`
	Remaining  decimal.Decimal `json:"remaining"`
	PercentBps uint32          `json:"percent_bps"`
	Shares     []MemberShare   `json:"shares"`
}

// User ledger

type InitializeUserRequest struct{}

type InitializeUserResponse struct {
	User *User `json:"user"`
}

type UserExistsRequest struct {
	Address string `json:"address"`
}

type UserExistsResponse struct {
	Exists bool `json:"exists"`
}

type GetUserRequest struct {
	Address string `json:"address"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

// Plan registry

type OpenPlanRequest struct {
	Type         PlanType `json:"type"`
	StartTime    uint64   `json:"start_time"`
	InterestRate uint32   `json:"interest_rate" validate:"lte=10000"`
}

type OpenPlanResponse struct {
	PlanID uint64 `json:"plan_id"`
}

type GetSavingsPlanRequest struct {
	PlanID uint64 `json:"plan_id"`
}

type GetSavingsPlanResponse struct {
	Plan *SavingsPlan `json:"plan"`
}

type ListSavingsPlansRequest struct{}

type ListSavingsPlansResponse struct {
	Plans []*SavingsPlan `json:"plans"`
}

// Group savings

type CreateGroupSaveRequest struct {
	Title              string          `json:"title" validate:"required,max=100"`
	Description        string          `json:"description" validate:"max=500"`
	Category           string          `json:"category" validate:"max=50"`
	TargetAmount       decimal.Decimal `json:"target_amount"`
	ContributionType   uint32          `json:"contribution_type"`
	ContributionAmount decimal.Decimal `json:"contribution_amount"`
	IsPublic           bool            `json:"is_public"`
	StartTime          uint64          `json:"start_time"`
	EndTime            uint64          `json:"end_time"`
}

type CreateGroupSaveResponse struct {
	PlanID uint64 `json:"plan_id"`
}

type JoinGroupSaveRequest struct {
	PlanID uint64 `json:"plan_id"`
}

type JoinGroupSaveResponse struct{}

type ContributeToGroupSaveRequest struct {
	PlanID uint64          `json:"plan_id"`
	Amount decimal.Decimal `json:"amount"`
}

type ContributeToGroupSaveResponse struct {
	PlanBalance        decimal.Decimal `json:"plan_balance"`
	MemberContribution decimal.Decimal `json:"member_contribution"`
	Completed          bool            `json:"completed"`
}

type BreakGroupSaveRequest struct {
	PlanID uint64 `json:"plan_id"`
}

type BreakGroupSaveResponse struct {
	Refund decimal.Decimal `json:"refund"`
}

type GetGroupSaveRequest struct {
	PlanID uint64 `json:"plan_id"`
}

type GetGroupSaveResponse struct {
	Plan     *SavingsPlan   `json:"plan"`
	Members  []*GroupMember `json:"members"`
	Progress *GroupProgress `json:"progress"`
}
