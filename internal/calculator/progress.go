package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// basisPoints is 100.00% expressed in basis points.
const basisPoints = 10000

var bps = decimal.NewFromInt(basisPoints)

// Contribution is one member's total contribution to a pool.
type Contribution struct {
	Member string
	Amount decimal.Decimal
}

// MemberShare is a member's contribution and its share of the pool.
type MemberShare struct {
	Member      string
	Contributed decimal.Decimal
	ShareBps    uint32 // floor(contributed / balance × 10000); 0 for an empty pool
}

// Progress summarizes how far a pool is from its target.
type Progress struct {
	Target     decimal.Decimal
	Balance    decimal.Decimal // Sum of all contributions
	Remaining  decimal.Decimal // max(target - balance, 0)
	PercentBps uint32          // floor(balance / target × 10000), capped at 10000
	Shares     []MemberShare   // Largest contribution first, ties by member
}

// GroupProgress computes pool progress towards target from the members'
// contributions. Only integer arithmetic on decimals is used, so results are
// exact and rounded down.
//
// A non-positive target is treated as already reached.
func GroupProgress(target decimal.Decimal, contributions []Contribution) (Progress, error) {
	balance := decimal.Zero
	for _, c := range contributions {
		if c.Amount.IsNegative() {
			return Progress{}, fmt.Errorf("contribution of %s cannot be negative: %s", c.Member, c.Amount)
		}
		balance = balance.Add(c.Amount)
	}

	progress := Progress{
		Target:    target,
		Balance:   balance,
		Remaining: decimal.Max(target.Sub(balance), decimal.Zero),
	}

	// Percentage of target reached
	switch {
	case !target.IsPositive() || balance.GreaterThanOrEqual(target):
		progress.PercentBps = basisPoints
	default:
		progress.PercentBps = ratioBps(balance, target)
	}

	// Each member's share of the pool
	progress.Shares = make([]MemberShare, len(contributions))
	for i, c := range contributions {
		share := MemberShare{Member: c.Member, Contributed: c.Amount}
		if balance.IsPositive() {
			share.ShareBps = ratioBps(c.Amount, balance)
		}
		progress.Shares[i] = share
	}
	sort.SliceStable(progress.Shares, func(i, j int) bool {
		a, b := progress.Shares[i], progress.Shares[j]
		if cmp := a.Contributed.Cmp(b.Contributed); cmp != 0 {
			return cmp > 0
		}
		return a.Member < b.Member
	})

	return progress, nil
}

// ratioBps returns floor(part × 10000 / whole) for 0 <= part <= whole, whole > 0.
// The division must be exact: Div rounds to DivisionPrecision digits.
func ratioBps(part, whole decimal.Decimal) uint32 {
	q, _ := part.Mul(bps).QuoRem(whole, 0)
	return uint32(q.IntPart())
}
