package models

import "fmt"

// PlanKind discriminates the PlanType variants.
type PlanKind string

const (
	KindFlexi PlanKind = "flexi"
	KindLock  PlanKind = "lock"
	KindGoal  PlanKind = "goal"
	KindGroup PlanKind = "group"
)

// ParsePlanKind converts a stored discriminator back to a PlanKind.
func ParsePlanKind(s string) (PlanKind, error) {
	switch k := PlanKind(s); k {
	case KindFlexi, KindLock, KindGoal, KindGroup:
		return k, nil
	default:
		return "", fmt.Errorf("unknown plan kind %q", s)
	}
}

// PlanType is the variant part of a SavingsPlan.
// The set of implementations is closed: Flexi, Lock, Goal and Group.
type PlanType interface {
	Kind() PlanKind
	isPlanType()
}

// Flexi is a plan with no lock or target.
type Flexi struct{}

// Lock is a plan whose funds are locked until UnlockTime.
type Lock struct {
	UnlockTime uint64
}

// Goal is a personal plan saving towards TargetAmount by TargetTime.
type Goal struct {
	Label        string
	TargetAmount Amount
	TargetTime   uint64
}

// Group is a pooled plan shared by several members.
// The plan completes once its balance reaches TargetAmount.
type Group struct {
	TargetAmount     Amount
	IsPublic         bool
	ContributionType uint32
	// EndTime is informational; it does not gate joins or contributions.
	EndTime uint64
}

func (Flexi) Kind() PlanKind { return KindFlexi }
func (Lock) Kind() PlanKind  { return KindLock }
func (Goal) Kind() PlanKind  { return KindGoal }
func (Group) Kind() PlanKind { return KindGroup }

func (Flexi) isPlanType() {}
func (Lock) isPlanType()  {}
func (Goal) isPlanType()  {}
func (Group) isPlanType() {}

// GroupInfo holds the descriptive metadata of a group plan.
type GroupInfo struct {
	Title              string
	Description        string
	Category           string
	ContributionAmount Amount

	// MemberCount is the number of current membership records.
	MemberCount uint32
}

// SavingsPlan is a savings commitment, individual or pooled.
// Plans are never deleted; IsCompleted marks the logical end of life.
type SavingsPlan struct {
	// PlanID is allocated from a single counter and is unique across owners.
	PlanID uint64

	// Owner is the address that created the plan.
	Owner string

	Type PlanType

	// Balance is the amount currently held by the plan.
	// For groups it equals the sum of all member contributions.
	Balance Amount

	// Timestamps are Unix seconds.
	StartTime    uint64
	LastDeposit  uint64
	LastWithdraw uint64

	// InterestRate is expressed in basis points (500 = 5.00%).
	InterestRate uint32

	// IsCompleted is set once and never cleared.
	IsCompleted bool

	// Group is non-nil for group plans only.
	Group *GroupInfo
}

// GroupTerms returns the Group variant of the plan type.
// ok is false for individual plans.
func (p *SavingsPlan) GroupTerms() (terms Group, ok bool) {
	terms, ok = p.Type.(Group)
	return terms, ok
}
