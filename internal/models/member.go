package models

// GroupMember is one address's participation record in a group plan.
type GroupMember struct {
	PlanID  uint64
	Address string

	// Contributed is what this member has put into the pool since joining.
	// A member who leaves and rejoins starts again from zero.
	Contributed Amount

	// JoinedAt is the Unix timestamp of the current membership.
	JoinedAt uint64
}
