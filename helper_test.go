package holdings

import (
	"github.com/etnz/holdings/date"
	"github.com/shopspring/decimal"
)

// tl is a helper for test to create lira money from const
func tl(v float64) Money { return M(v, TRY) }

// usd is a helper for test to create dollar money from const
func usd(v float64) Money { return M(v, USD) }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// tx creates a transaction whose cost is quantity*price.
func tx(on string, side Side, symbol string, quantity, price float64) Transaction {
	return NewTransaction(date.MustParse(on), side, symbol, Q(quantity), decimal.NewFromFloat(price), decimal.Zero, TRY)
}

// fakeFeed is a map based PriceFeed.
type fakeFeed struct {
	quotes map[string]Quote
	rates  map[[2]Currency]decimal.Decimal
}

func (f fakeFeed) CurrentPrice(symbol string) (Quote, bool) {
	q, ok := f.quotes[symbol]
	return q, ok
}

func (f fakeFeed) FxRate(from, to Currency) (decimal.Decimal, bool) {
	r, ok := f.rates[[2]Currency{from, to}]
	return r, ok
}

// fakeSymbols is a map based SymbolMetadata.
type fakeSymbols map[string]string

func (s fakeSymbols) DesiredSample(symbol string) (string, bool) {
	v, ok := s[symbol]
	return v, ok
}
