package holdings

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GroupKind selects the key positions are grouped by.
type GroupKind int

const (
	BySymbol GroupKind = iota
	ByPlatform
	ByPortfolio
	Global
)

// GlobalLabel is the label of the single bucket family of a Global grouping.
const GlobalLabel = "ALL"

func (k GroupKind) String() string {
	switch k {
	case BySymbol:
		return "symbol"
	case ByPlatform:
		return "platform"
	case ByPortfolio:
		return "portfolio"
	case Global:
		return "all"
	default:
		return "unknown"
	}
}

// ParseGroupKind parses a string into a GroupKind.
func ParseGroupKind(s string) (GroupKind, error) {
	switch s {
	case "symbol":
		return BySymbol, nil
	case "platform":
		return ByPlatform, nil
	case "portfolio":
		return ByPortfolio, nil
	case "all", "global":
		return Global, nil
	default:
		return 0, fmt.Errorf("unknown grouping: %q", s)
	}
}

// Label returns the group label of a transaction under this grouping.
func (k GroupKind) Label(tx Transaction) string {
	switch k {
	case BySymbol:
		return CanonicalSymbol(tx.Symbol)
	case ByPlatform:
		return tx.PlatformID
	case ByPortfolio:
		return tx.PortfolioID
	default:
		return GlobalLabel
	}
}

// Entry is a valuation tagged with the label of its group.
type Entry struct {
	Label     string
	Valuation Valuation
	// DailyPct is the symbol's change of the day, when HasDaily.
	DailyPct Percent
	HasDaily bool
}

// Bucket totals the entries sharing a label and a currency.
type Bucket struct {
	Label        string
	Currency     Currency
	Class        CurrencyClass
	CurrentValue Money
	CostBasis    Money
	// UnpricedCost is the part of CostBasis held in positions whose price is
	// unknown. PnL and PnLPercent only cover the priced part.
	UnpricedCost Money
	PnL          Money
	PnLPercent   Percent

	// ChartValue is CurrentValue in the reference currency when Converted,
	// CurrentValue itself otherwise.
	ChartValue Money
	Converted  bool

	Positions int
	Unpriced  int // positions whose price is unknown
}

// Priced reports whether at least one position of the bucket has a price.
func (b Bucket) Priced() bool { return b.Positions > b.Unpriced }

// BlendPolicy converts amounts into the reference currency. Only the
// reference currency and the dollar class are convertible.
type BlendPolicy struct {
	Reference Currency
	// USDRate is the value of one USD in the reference currency. A
	// non-positive rate leaves dollar amounts out of blended totals.
	USDRate decimal.Decimal
}

// convert returns m in the reference currency, false if m cannot take part
// in a blended total.
func (p BlendPolicy) convert(m Money) (Money, bool) {
	switch ClassOf(m.Currency(), p.Reference) {
	case ReferenceClass:
		return m.In(p.Reference), true
	case DollarClass:
		if p.USDRate.IsPositive() {
			return m.Scale(p.USDRate).In(p.Reference), true
		}
	}
	return m, false
}

type bucketKey struct {
	label    string
	currency Currency
}

// Aggregate groups entries by (label, currency). Buckets are returned in the
// order their first entry appears.
func Aggregate(entries []Entry, p BlendPolicy) []Bucket {
	index := make(map[bucketKey]int)
	var buckets []Bucket
	for _, e := range entries {
		v := e.Valuation
		k := bucketKey{e.Label, v.Currency}
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{
				Label:        e.Label,
				Currency:     v.Currency,
				Class:        ClassOf(v.Currency, p.Reference),
				CurrentValue: M(0, v.Currency),
				CostBasis:    M(0, v.Currency),
				UnpricedCost: M(0, v.Currency),
			})
		}
		b := &buckets[i]
		b.CurrentValue = b.CurrentValue.Add(v.CurrentValue)
		b.CostBasis = b.CostBasis.Add(v.CostBasis)
		b.Positions++
		if !v.PriceKnown {
			b.Unpriced++
			b.UnpricedCost = b.UnpricedCost.Add(v.CostBasis)
		}
	}
	for i := range buckets {
		b := &buckets[i]
		priced := b.CostBasis.Sub(b.UnpricedCost)
		b.PnL = b.CurrentValue.Sub(priced)
		b.PnLPercent = percentOf(b.PnL, priced)
		b.ChartValue, b.Converted = p.convert(b.CurrentValue)
	}
	return buckets
}

// SortKey selects the value buckets are sorted by.
type SortKey int

const (
	ByCurrentValue SortKey = iota
	ByChartValue
)

// SortBuckets sorts buckets by descending value. Ties keep their order.
func SortBuckets(buckets []Bucket, key SortKey) {
	value := func(b Bucket) decimal.Decimal {
		if key == ByChartValue {
			return b.ChartValue.Decimal()
		}
		return b.CurrentValue.Decimal()
	}
	slices.SortStableFunc(buckets, func(a, b Bucket) int {
		return value(b).Cmp(value(a))
	})
}

// CurrencyTotal is the sum of all buckets of one currency.
type CurrencyTotal struct {
	Currency     Currency
	Class        CurrencyClass
	CurrentValue Money
	CostBasis    Money
	UnpricedCost Money
	Unpriced     int
	Converted    bool
}

// Blended is a set of buckets reduced to one total in the reference currency.
type Blended struct {
	Reference    Currency
	USDRate      decimal.Decimal
	CurrentValue Money
	CostBasis    Money
	// UnpricedCost is left out of PnL, as in Bucket.
	UnpricedCost Money
	PnL          Money
	PnLPercent   Percent
	// Unpriced counts the unpriced positions of the blended currencies.
	Unpriced int

	PerCurrency []CurrencyTotal
	// Unconverted lists the currencies left out of the blended total.
	Unconverted []Currency
}

// Blend sums buckets per currency and combines the convertible ones:
//
//	total = referenceSum + usdRate*dollarSum   (dollar part only if usdRate > 0)
//
// Currencies of the other class are reported in PerCurrency and Unconverted
// but never summed.
func Blend(buckets []Bucket, p BlendPolicy) Blended {
	out := Blended{
		Reference:    p.Reference,
		USDRate:      p.USDRate,
		CurrentValue: M(0, p.Reference),
		CostBasis:    M(0, p.Reference),
		UnpricedCost: M(0, p.Reference),
	}
	index := make(map[Currency]int)
	for _, b := range buckets {
		i, ok := index[b.Currency]
		if !ok {
			i = len(out.PerCurrency)
			index[b.Currency] = i
			out.PerCurrency = append(out.PerCurrency, CurrencyTotal{
				Currency:     b.Currency,
				Class:        b.Class,
				CurrentValue: M(0, b.Currency),
				CostBasis:    M(0, b.Currency),
				UnpricedCost: M(0, b.Currency),
			})
		}
		t := &out.PerCurrency[i]
		t.CurrentValue = t.CurrentValue.Add(b.CurrentValue)
		t.CostBasis = t.CostBasis.Add(b.CostBasis)
		t.UnpricedCost = t.UnpricedCost.Add(b.UnpricedCost)
		t.Unpriced += b.Unpriced
	}
	for i := range out.PerCurrency {
		t := &out.PerCurrency[i]
		value, ok := p.convert(t.CurrentValue)
		if !ok {
			out.Unconverted = append(out.Unconverted, t.Currency)
			continue
		}
		cost, _ := p.convert(t.CostBasis)
		unpriced, _ := p.convert(t.UnpricedCost)
		t.Converted = true
		out.CurrentValue = out.CurrentValue.Add(value)
		out.CostBasis = out.CostBasis.Add(cost)
		out.UnpricedCost = out.UnpricedCost.Add(unpriced)
		out.Unpriced += t.Unpriced
	}
	priced := out.CostBasis.Sub(out.UnpricedCost)
	out.PnL = out.CurrentValue.Sub(priced)
	out.PnLPercent = percentOf(out.PnL, priced)
	return out
}

// Daily is the value-weighted change of the day.
type Daily struct {
	WeightedPct Percent
	// Gain is the amount gained today per currency.
	Gain []Money
	// GainTotal blends Gain into the reference currency.
	GainTotal   Money
	Unconverted []Currency
}

// DailyChange blends the daily change of the entries that have one.
//
// The weighted percentage is Σ(v·pct)/Σv where v is the current value in the
// reference currency, so that amounts in different currencies are comparable.
// Entries that cannot be converted only contribute to their currency's Gain.
func DailyChange(entries []Entry, p BlendPolicy) Daily {
	out := Daily{GainTotal: M(0, p.Reference)}
	var pcts, weights []float64
	index := make(map[Currency]int)
	hundred := decimal.NewFromInt(100)
	for _, e := range entries {
		v := e.Valuation
		if !e.HasDaily || !v.CurrentValue.IsPositive() {
			continue
		}
		pct := decimal.NewFromFloat(float64(e.DailyPct))
		gain := v.CurrentValue.Scale(pct.Div(hundred))

		i, ok := index[v.Currency]
		if !ok {
			i = len(out.Gain)
			index[v.Currency] = i
			out.Gain = append(out.Gain, M(0, v.Currency))
		}
		out.Gain[i] = out.Gain[i].Add(gain)

		if value, ok := p.convert(v.CurrentValue); ok {
			pcts = append(pcts, float64(e.DailyPct))
			weights = append(weights, value.Float())
		}
	}
	if floats.Sum(weights) > 0 {
		out.WeightedPct = Percent(stat.Mean(pcts, weights))
	}
	for _, g := range out.Gain {
		converted, ok := p.convert(g)
		if !ok {
			out.Unconverted = append(out.Unconverted, g.Currency())
			continue
		}
		out.GainTotal = out.GainTotal.Add(converted)
	}
	return out
}
