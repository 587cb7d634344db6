// Package feed provides holdings.PriceFeed implementations: a static
// snapshot and fetchers that build one from a CSV or JSON export.
package feed

import (
	"strings"
	"sync"

	"github.com/etnz/holdings"
	"github.com/shopspring/decimal"
)

// Pair is an exchange rate key: one From unit is worth rate To units.
type Pair struct {
	From, To holdings.Currency
}

// Static is an immutable-looking snapshot of quotes and rates. It is safe for
// concurrent use.
type Static struct {
	mu     sync.RWMutex
	quotes map[string]holdings.Quote
	rates  map[Pair]decimal.Decimal
}

// NewStatic returns an empty snapshot.
func NewStatic() *Static {
	return &Static{
		quotes: make(map[string]holdings.Quote),
		rates:  make(map[Pair]decimal.Decimal),
	}
}

// SetQuote records the quote of symbol.
func (s *Static) SetQuote(symbol string, q holdings.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[holdings.CanonicalSymbol(symbol)] = q
}

// SetRate records the from/to rate.
func (s *Static) SetRate(from, to holdings.Currency, rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[Pair{from, to}] = rate
}

// CurrentPrice implements holdings.PriceFeed.
func (s *Static) CurrentPrice(symbol string) (holdings.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[holdings.CanonicalSymbol(symbol)]
	return q, ok
}

// FxRate implements holdings.PriceFeed.
func (s *Static) FxRate(from, to holdings.Currency) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rates[Pair{from, to}]
	return r, ok
}

// Len returns the number of quotes and rates.
func (s *Static) Len() (quotes, rates int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes), len(s.rates)
}

// add records one published row. Rows whose symbol names a currency pair
// ("USDTRY", "USDT/TRY") are exchange rates.
func (s *Static) add(symbol, price, currency, daily string) {
	if from, to, ok := ParsePair(symbol); ok {
		if rate := holdings.ParseLoose(price); rate.IsPositive() {
			s.SetRate(from, to, rate)
		}
		return
	}
	q := holdings.Quote{Raw: price, Currency: holdings.ParseCurrency(currency)}
	if strings.TrimSpace(daily) != "" {
		q.DailyPct = holdings.Percent(holdings.ParseLoose(daily).InexactFloat64())
		q.HasDaily = true
	}
	s.SetQuote(symbol, q)
}

// ParsePair recognizes "FROM/TO" or two glued three letter codes like
// "USDTRY". Both sides must be valid currencies.
func ParsePair(symbol string) (from, to holdings.Currency, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if a, b, found := strings.Cut(s, "/"); found {
		from, to = holdings.ParseCurrency(a), holdings.ParseCurrency(b)
	} else if len(s) == 6 {
		from, to = holdings.Currency(s[:3]), holdings.Currency(s[3:])
	} else {
		return "", "", false
	}
	if from == to || holdings.ValidateCurrency(from) != nil || holdings.ValidateCurrency(to) != nil {
		return "", "", false
	}
	return from, to, true
}
