// Package models defines the core domain models for the stash savings ledger.
//
// # Models
//
//   - User: per-address aggregate state (total balance, owned plan count,
//     group memberships)
//   - SavingsPlan: an individual or pooled savings plan
//   - PlanType: tagged variant describing the kind of plan (Flexi, Lock, Goal, Group)
//   - GroupMember: one member's contribution record in a group plan
//
// # Amounts
//
// Balances are signed 128-bit integers in the ledger's unit of account.
// They are carried as decimal.Decimal values restricted to integral values
// inside the int128 range (see ValidateAmount).
//
// # Relationships
//
// Records reference each other by address strings and plan ids, never by
// pointers, so the same values can round-trip through any storage backend.
package models
