package server

import (
	"github.com/etnz/holdings"
	"github.com/shopspring/decimal"
)

// Views flatten engine types into stable JSON documents. Amounts are plain
// numbers next to their currency; unknown values are null.

type positionView struct {
	Group      string            `json:"group"`
	Symbol     string            `json:"symbol"`
	Currency   holdings.Currency `json:"currency"`
	Quantity   decimal.Decimal   `json:"quantity"`
	CostBasis  decimal.Decimal   `json:"costBasis"`
	Realized   decimal.Decimal   `json:"realized"`
	Dividends  decimal.Decimal   `json:"dividends"`
	Price      *decimal.Decimal  `json:"price"`
	Value      decimal.Decimal   `json:"value"`
	PnL        *decimal.Decimal  `json:"pnl"`
	PnLPercent *float64          `json:"pnlPercent"`
	DailyPct   *float64          `json:"dailyPercent"`
	Oversold   bool              `json:"oversold,omitempty"`
}

type positionsView struct {
	By        string            `json:"by"`
	Reference holdings.Currency `json:"reference"`
	Positions []positionView    `json:"positions"`
}

func newPositionsView(r holdings.Report) positionsView {
	out := positionsView{By: r.Kind.String(), Reference: r.Reference, Positions: []positionView{}}
	for _, e := range r.Positions {
		v := e.Valuation
		p := positionView{
			Group:     e.Label,
			Symbol:    v.Symbol,
			Currency:  v.Currency,
			Quantity:  v.Quantity.Decimal(),
			CostBasis: v.CostBasis.Decimal(),
			Realized:  v.Realized.Decimal(),
			Dividends: v.Dividends.Decimal(),
			Value:     v.CurrentValue.Decimal(),
			Oversold:  v.Oversold(),
		}
		if v.PriceKnown {
			price, pnl, pct := v.Price.Value.Decimal(), v.UnrealizedPnL.Decimal(), float64(v.PnLPercent)
			p.Price, p.PnL, p.PnLPercent = &price, &pnl, &pct
		}
		if e.HasDaily {
			daily := float64(e.DailyPct)
			p.DailyPct = &daily
		}
		out.Positions = append(out.Positions, p)
	}
	return out
}

type bucketView struct {
	Group        string            `json:"group"`
	Currency     holdings.Currency `json:"currency"`
	Class        string            `json:"class"`
	Value        decimal.Decimal   `json:"value"`
	CostBasis    decimal.Decimal   `json:"costBasis"`
	UnpricedCost decimal.Decimal   `json:"unpricedCost"`
	PnL          *decimal.Decimal  `json:"pnl"`
	PnLPercent   *float64          `json:"pnlPercent"`
	ChartValue   decimal.Decimal   `json:"chartValue"`
	Converted    bool              `json:"converted"`
	Positions    int               `json:"positions"`
	Unpriced     int               `json:"unpriced"`
}

type currencyView struct {
	Currency     holdings.Currency `json:"currency"`
	Value        decimal.Decimal   `json:"value"`
	CostBasis    decimal.Decimal   `json:"costBasis"`
	UnpricedCost decimal.Decimal   `json:"unpricedCost"`
	Included     bool              `json:"included"`
}

type totalView struct {
	Value        decimal.Decimal     `json:"value"`
	CostBasis    decimal.Decimal     `json:"costBasis"`
	UnpricedCost decimal.Decimal     `json:"unpricedCost"`
	PnL          decimal.Decimal     `json:"pnl"`
	PnLPercent   float64             `json:"pnlPercent"`
	Unpriced     int                 `json:"unpriced"`
	USDRate      decimal.Decimal     `json:"usdRate"`
	Currencies   []currencyView      `json:"currencies"`
	Unconverted  []holdings.Currency `json:"unconverted"`
}

type summaryView struct {
	By        string            `json:"by"`
	Reference holdings.Currency `json:"reference"`
	Buckets   []bucketView      `json:"buckets"`
	Total     totalView         `json:"total"`
}

func newSummaryView(r holdings.Report) summaryView {
	out := summaryView{By: r.Kind.String(), Reference: r.Reference, Buckets: []bucketView{}}
	for _, b := range r.Buckets {
		v := bucketView{
			Group:        b.Label,
			Currency:     b.Currency,
			Class:        b.Class.String(),
			Value:        b.CurrentValue.Decimal(),
			CostBasis:    b.CostBasis.Decimal(),
			UnpricedCost: b.UnpricedCost.Decimal(),
			ChartValue:   b.ChartValue.Decimal(),
			Converted:    b.Converted,
			Positions:    b.Positions,
			Unpriced:     b.Unpriced,
		}
		if b.Priced() {
			pnl, pct := b.PnL.Decimal(), float64(b.PnLPercent)
			v.PnL, v.PnLPercent = &pnl, &pct
		}
		out.Buckets = append(out.Buckets, v)
	}
	bl := r.Blended
	out.Total = totalView{
		Value:        bl.CurrentValue.Decimal(),
		CostBasis:    bl.CostBasis.Decimal(),
		UnpricedCost: bl.UnpricedCost.Decimal(),
		PnL:          bl.PnL.Decimal(),
		PnLPercent:   float64(bl.PnLPercent),
		Unpriced:     bl.Unpriced,
		USDRate:      bl.USDRate,
		Currencies:   []currencyView{},
		Unconverted:  append([]holdings.Currency{}, bl.Unconverted...),
	}
	for _, t := range bl.PerCurrency {
		out.Total.Currencies = append(out.Total.Currencies, currencyView{
			Currency:     t.Currency,
			Value:        t.CurrentValue.Decimal(),
			CostBasis:    t.CostBasis.Decimal(),
			UnpricedCost: t.UnpricedCost.Decimal(),
			Included:     t.Converted,
		})
	}
	return out
}

type gainView struct {
	Currency holdings.Currency `json:"currency"`
	Gain     decimal.Decimal   `json:"gain"`
}

type dailyView struct {
	Reference   holdings.Currency   `json:"reference"`
	WeightedPct float64             `json:"weightedPercent"`
	Gains       []gainView          `json:"gains"`
	GainTotal   decimal.Decimal     `json:"gainTotal"`
	Unconverted []holdings.Currency `json:"unconverted"`
}

func newDailyView(r holdings.Report) dailyView {
	out := dailyView{
		Reference:   r.Reference,
		WeightedPct: float64(r.Daily.WeightedPct),
		Gains:       []gainView{},
		GainTotal:   r.Daily.GainTotal.Decimal(),
		Unconverted: append([]holdings.Currency{}, r.Daily.Unconverted...),
	}
	for _, g := range r.Daily.Gain {
		out.Gains = append(out.Gains, gainView{Currency: g.Currency(), Gain: g.Decimal()})
	}
	return out
}
