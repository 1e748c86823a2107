package models

import "time"

// User is the aggregate ledger state of one address.
// A user record is created once and never deleted.
type User struct {
	// Address identifies the user. It is the authenticated caller identity.
	Address string

	// TotalBalance is the sum of everything the user holds across plans they
	// own or contributed to. It never goes negative.
	TotalBalance Amount

	// SavingsCount is the number of plans the user owns.
	// Joining someone else's group does not change it.
	SavingsCount uint32

	// GroupMemberships holds the ids of group plans the user currently
	// belongs to, sorted ascending. Stores derive it from membership records.
	GroupMemberships []uint64

	// CreatedAt is the Unix timestamp when the user was initialized.
	CreatedAt int64
}

// NewUser creates a user with zero balances.
func NewUser(address string) *User {
	return &User{
		Address:          address,
		TotalBalance:     ZeroAmount(),
		GroupMemberships: []uint64{},
		CreatedAt:        time.Now().Unix(),
	}
}

// IsMemberOf reports whether planID is in the user's group memberships.
func (u *User) IsMemberOf(planID uint64) bool {
	for _, id := range u.GroupMemberships {
		if id == planID {
			return true
		}
	}
	return false
}
