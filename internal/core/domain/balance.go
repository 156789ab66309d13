package domain

import (
	"github.com/shopspring/decimal"
)

// Balance holds the two-currency value of an account: platform coins and USD.
// Both components are non-negative on any persisted balance; deltas passed to
// the adjustment engine may carry negative components.
type Balance struct {
	Coins decimal.Decimal `json:"coins"`
	Usd   decimal.Decimal `json:"usd"`
}

// ZeroBalance returns a balance with both components at zero.
func ZeroBalance() Balance {
	return Balance{Coins: decimal.Zero, Usd: decimal.Zero}
}

// Add returns the component-wise sum of b and delta.
func (b Balance) Add(delta Balance) Balance {
	return Balance{
		Coins: b.Coins.Add(delta.Coins),
		Usd:   b.Usd.Add(delta.Usd),
	}
}

// IsNegative reports whether either component is below zero.
func (b Balance) IsNegative() bool {
	return b.Coins.IsNegative() || b.Usd.IsNegative()
}

// IsZero reports whether both components are exactly zero.
func (b Balance) IsZero() bool {
	return b.Coins.IsZero() && b.Usd.IsZero()
}

// Equal reports component-wise equality.
func (b Balance) Equal(other Balance) bool {
	return b.Coins.Equal(other.Coins) && b.Usd.Equal(other.Usd)
}
