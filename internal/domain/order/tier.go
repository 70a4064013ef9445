package order

import "github.com/shopspring/decimal"

// Tier maps a quantity range to a fixed discount rate.
type Tier struct {
	Name string
	// MaxQuantity is the inclusive upper bound of the tier. Zero means unbounded.
	MaxQuantity int64
	// Rate is the discount as a fraction, e.g. 0.05 for 5%.
	Rate decimal.Decimal
}

// Bounded reports whether the tier has an upper quantity limit.
func (t Tier) Bounded() bool {
	return t.MaxQuantity > 0
}

// Admits reports whether quantity falls within the tier's upper bound.
func (t Tier) Admits(quantity int64) bool {
	return !t.Bounded() || quantity <= t.MaxQuantity
}

// Multiplier returns 1 - Rate, the factor applied to the order total.
func (t Tier) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(t.Rate)
}

// The boundary quantity belongs to the lower-discount tier: 100 units get 5%,
// 101 units get 10%.
var tiers = []Tier{
	{Name: "A", MaxQuantity: 100, Rate: decimal.RequireFromString("0.05")},
	{Name: "B", Rate: decimal.RequireFromString("0.10")},
}

// Tiers returns a copy of the discount tier table in ascending quantity order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierFor returns the first tier admitting quantity. The last tier is
// unbounded, so every quantity has a tier.
func TierFor(quantity int64) Tier {
	for _, t := range tiers {
		if t.Admits(quantity) {
			return t
		}
	}
	return tiers[len(tiers)-1]
}
