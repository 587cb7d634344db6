package holdings

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Quote is a feed's raw price of a symbol.
type Quote struct {
	Raw      string   // the cell as the feed publishes it
	Currency Currency // empty when the feed does not say
	DailyPct Percent
	HasDaily bool
}

// PriceFeed supplies current prices and exchange rates. Missing entries are
// reported with false, never as errors.
type PriceFeed interface {
	CurrentPrice(symbol string) (Quote, bool)
	// FxRate returns how many 'to' units one 'from' unit is worth.
	FxRate(from, to Currency) (decimal.Decimal, bool)
}

// SymbolMetadata tells how a symbol's feed value must be laid out.
type SymbolMetadata interface {
	DesiredSample(symbol string) (string, bool)
}

// Engine values transaction snapshots against a price feed. It holds no
// state besides its collaborators: every call recomputes from its inputs.
type Engine struct {
	Feed      PriceFeed
	Symbols   SymbolMetadata // optional
	Reference Currency
}

// NewEngine creates an engine blending totals into reference.
func NewEngine(feed PriceFeed, symbols SymbolMetadata, reference Currency) (*Engine, error) {
	if err := ValidateCurrency(reference); err != nil {
		return nil, fmt.Errorf("invalid reference currency: %w", err)
	}
	return &Engine{Feed: feed, Symbols: symbols, Reference: reference}, nil
}

// Report is the full valuation of a set of transactions under one grouping.
type Report struct {
	Kind      GroupKind
	Reference Currency
	Positions []Entry
	Buckets   []Bucket
	Blended   Blended
	Daily     Daily
}

// Evaluate matches, values and aggregates txs. Buckets are sorted by
// descending value in the reference currency.
func (e *Engine) Evaluate(txs []Transaction, kind GroupKind) Report {
	policy := e.Policy()
	entries := e.Positions(txs, kind)
	buckets := Aggregate(entries, policy)
	SortBuckets(buckets, ByChartValue)
	return Report{
		Kind:      kind,
		Reference: e.Reference,
		Positions: entries,
		Buckets:   buckets,
		Blended:   Blend(buckets, policy),
		Daily:     DailyChange(entries, policy),
	}
}

// Policy returns the blend policy of the current feed snapshot.
func (e *Engine) Policy() BlendPolicy {
	p := BlendPolicy{Reference: e.Reference}
	if e.Reference == USD {
		p.USDRate = decimal.NewFromInt(1)
		return p
	}
	if rate, ok := e.rate(USD, e.Reference); ok {
		p.USDRate = rate
	}
	return p
}

// rate looks up the direct pair, then the inverse one.
func (e *Engine) rate(from, to Currency) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if e.Feed == nil {
		return decimal.Zero, false
	}
	if r, ok := e.Feed.FxRate(from, to); ok && r.IsPositive() {
		return r, true
	}
	if r, ok := e.Feed.FxRate(to, from); ok && r.IsPositive() {
		return decimal.NewFromInt(1).Div(r), true
	}
	return decimal.Zero, false
}

// Price resolves the current price of symbol in currency c. The feed value
// is laid out with the symbol's sample when there is one. A missing quote, a
// blank cell or an inconvertible quote currency is an unknown price.
func (e *Engine) Price(symbol string, c Currency) (Price, Quote) {
	if e.Feed == nil {
		return UnknownPrice, Quote{}
	}
	q, ok := e.Feed.CurrentPrice(symbol)
	if !ok || digitsOf(q.Raw) == "" {
		return UnknownPrice, q
	}
	qc := q.Currency
	if qc == "" {
		qc = c
	}

	value := ParseLoose(q.Raw)
	if e.Symbols != nil {
		if sample, ok := e.Symbols.DesiredSample(symbol); ok {
			if s, ok := Reformat(q.Raw, sample, qc); ok {
				value = ParseLoose(s)
			}
		}
	}

	rate, ok := e.rate(qc, c)
	if !ok {
		return UnknownPrice, q
	}
	return KnownPrice(M(value.Mul(rate), c)), q
}

type positionKey struct {
	label  string
	symbol string
}

// Positions matches txs per (group label, symbol) and values each position.
// Entries are ordered by label then symbol.
func (e *Engine) Positions(txs []Transaction, kind GroupKind) []Entry {
	groups := make(map[positionKey][]Transaction)
	for _, tx := range txs {
		k := positionKey{kind.Label(tx), CanonicalSymbol(tx.Symbol)}
		groups[k] = append(groups[k], tx)
	}
	keys := make([]positionKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b positionKey) int {
		return cmp.Or(cmp.Compare(a.label, b.label), cmp.Compare(a.symbol, b.symbol))
	})

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		res := Match(groups[k])
		price, quote := e.Price(k.symbol, res.Currency)
		entries = append(entries, Entry{
			Label:     k.label,
			Valuation: Valuate(res, price),
			DailyPct:  quote.DailyPct,
			HasDaily:  quote.HasDaily && price.Known,
		})
	}
	return entries
}
