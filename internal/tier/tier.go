// Package tier holds the balance-to-tier decision logic. A tier is a pure
// function of the current balance: there is no history dependence, so the
// whole state machine collapses into For plus the fee schedule.
package tier

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier classifies an account by its current balance.
type Tier int

const (
	Silver Tier = iota
	Gold
	Platinum
)

var (
	goldThreshold     = decimal.NewFromInt(10_000)
	platinumThreshold = decimal.NewFromInt(20_000)

	silverFee = decimal.NewFromInt(20)
	goldFee   = decimal.NewFromInt(10)
)

// For maps a balance to its tier. Total over non-negative balances and
// boundary-exact: 10000 is Gold, 20000 is Platinum.
func For(balance decimal.Decimal) Tier {
	switch {
	case balance.GreaterThanOrEqual(platinumThreshold):
		return Platinum
	case balance.GreaterThanOrEqual(goldThreshold):
		return Gold
	default:
		return Silver
	}
}

// PurchaseFee returns the surcharge applied to an online purchase made at
// this tier. The fee is always evaluated at the tier in effect before the
// purchase is deducted.
func (t Tier) PurchaseFee() decimal.Decimal {
	switch t {
	case Platinum:
		return decimal.Zero
	case Gold:
		return goldFee
	default:
		return silverFee
	}
}

func (t Tier) String() string {
	switch t {
	case Platinum:
		return "Platinum"
	case Gold:
		return "Gold"
	default:
		return "Silver"
	}
}

// Parse converts a stored tier name back into a Tier.
func Parse(s string) (Tier, error) {
	switch s {
	case "Silver":
		return Silver, nil
	case "Gold":
		return Gold, nil
	case "Platinum":
		return Platinum, nil
	default:
		return Silver, fmt.Errorf("unknown tier %q", s)
	}
}
