package holdings

import "github.com/shopspring/decimal"

// Price is a unit price that may be unknown. The zero value is unknown.
type Price struct {
	Value Money
	Known bool
}

// KnownPrice returns a known price.
func KnownPrice(value Money) Price { return Price{Value: value, Known: true} }

// UnknownPrice is the price of a symbol missing from the feed.
var UnknownPrice = Price{}

// Valuation is the market view of one position.
type Valuation struct {
	LotResult

	Price        Price
	CurrentValue Money
	// UnrealizedPnL and PnLPercent are only meaningful when PriceKnown.
	UnrealizedPnL Money
	PnLPercent    Percent
	PriceKnown    bool
}

// Valuate values a matched position at price.
//
// A non-positive quantity is no open position and is worth 0. When the price
// is unknown the P&L is not computed at all: reporting -costBasis would look
// like a loss.
func Valuate(res LotResult, price Price) Valuation {
	v := Valuation{
		LotResult:     res,
		Price:         price,
		CurrentValue:  M(0, res.Currency),
		UnrealizedPnL: M(0, res.Currency),
		PriceKnown:    price.Known,
	}
	if !price.Known {
		return v
	}
	if res.Quantity.IsPositive() {
		v.CurrentValue = price.Value.In(res.Currency).Mul(res.Quantity)
	}
	v.UnrealizedPnL = v.CurrentValue.Sub(res.CostBasis)
	v.PnLPercent = percentOf(v.UnrealizedPnL, res.CostBasis)
	return v
}

// percentOf returns part/base*100, 0 unless base is positive.
func percentOf(part, base Money) Percent {
	if !base.IsPositive() {
		return 0
	}
	return Percent(part.Ratio(base).Mul(decimal.NewFromInt(100)).InexactFloat64())
}
