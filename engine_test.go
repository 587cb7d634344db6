package holdings

import (
	"testing"

	"github.com/shopspring/decimal"
)

func engineFixture(t *testing.T) (*Engine, []Transaction) {
	t.Helper()
	feed := fakeFeed{
		quotes: map[string]Quote{
			"THYAO": {Raw: "300,50 ₺", Currency: TRY, DailyPct: 1, HasDaily: true},
			"AAPL":  {Raw: "200", Currency: USD},
			"FUND":  {Raw: "1312719", Currency: TRY},
			"BLANK": {Raw: "  ", Currency: TRY},
			"ASELS": {Raw: "4250", Currency: TRY},
		},
		rates: map[[2]Currency]decimal.Decimal{
			{TRY, USD}: d("0.025"), // only the inverse pair is published
		},
	}
	symbols := fakeSymbols{"FUND": "1,312719", "ASELS": "10,00"}

	e, err := NewEngine(feed, symbols, TRY)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	thyao := tx("2024-01-02", Buy, "thyao", 10, 250)
	thyao.PlatformID, thyao.PortfolioID = "midas", "main"
	thyao2 := tx("2024-01-03", Buy, "THYAO", 10, 280)
	thyao2.PlatformID, thyao2.PortfolioID = "garanti", "main"
	aapl := NewTransaction(thyao.Date, Buy, "AAPL", Q(2), d("150"), d("1"), USD)
	aapl.PlatformID, aapl.PortfolioID = "ibkr", "main"
	fund := tx("2024-01-04", Buy, "FUND", 1000, 1)
	fund.PlatformID, fund.PortfolioID = "midas", "kids"
	blank := tx("2024-01-04", Buy, "BLANK", 5, 10)
	blank.PlatformID, blank.PortfolioID = "midas", "kids"

	return e, []Transaction{thyao, thyao2, aapl, fund, blank}
}

func TestNewEngine_InvalidReference(t *testing.T) {
	if _, err := NewEngine(fakeFeed{}, nil, "XXXX"); err == nil {
		t.Error("NewEngine() expected an error for an invalid reference currency")
	}
}

func TestEngine_Policy_InverseRate(t *testing.T) {
	e, _ := engineFixture(t)
	if got := e.Policy().USDRate; !got.Equal(d("40")) {
		t.Errorf("Policy().USDRate = %v, want 40", got)
	}
}

func TestEngine_Price(t *testing.T) {
	e, _ := engineFixture(t)

	testCases := []struct {
		symbol    string
		currency  Currency
		wantKnown bool
		want      string
	}{
		{symbol: "THYAO", currency: TRY, wantKnown: true, want: "300.5"},
		{symbol: "FUND", currency: TRY, wantKnown: true, want: "1.31271"},
		{symbol: "ASELS", currency: TRY, wantKnown: true, want: "42.5"},
		{symbol: "AAPL", currency: USD, wantKnown: true, want: "200"},
		{symbol: "AAPL", currency: TRY, wantKnown: true, want: "8000"},
		{symbol: "AAPL", currency: EUR, wantKnown: false},
		{symbol: "BLANK", currency: TRY, wantKnown: false},
		{symbol: "MISSING", currency: TRY, wantKnown: false},
	}
	for _, tc := range testCases {
		t.Run(tc.symbol+"/"+string(tc.currency), func(t *testing.T) {
			got, _ := e.Price(tc.symbol, tc.currency)
			if got.Known != tc.wantKnown {
				t.Fatalf("Price().Known = %v, want %v", got.Known, tc.wantKnown)
			}
			if tc.wantKnown && !got.Value.Decimal().Equal(d(tc.want)) {
				t.Errorf("Price() = %v, want %v", got.Value.Decimal(), tc.want)
			}
		})
	}
}

func TestEngine_Evaluate_BySymbol(t *testing.T) {
	e, txs := engineFixture(t)
	report := e.Evaluate(txs, BySymbol)

	if len(report.Positions) != 4 {
		t.Fatalf("Evaluate() has %d positions, want 4", len(report.Positions))
	}
	// positions are ordered by label: AAPL, BLANK, FUND, THYAO
	thyao := report.Positions[3]
	if thyao.Label != "THYAO" || !thyao.Valuation.Quantity.Equal(Q(20)) {
		t.Fatalf("THYAO position = %s %v, want 20 units", thyao.Label, thyao.Valuation.Quantity)
	}
	if !thyao.Valuation.CurrentValue.Equal(tl(6010)) {
		t.Errorf("THYAO value = %v, want 6010", thyao.Valuation.CurrentValue)
	}

	blank := report.Positions[1]
	if blank.Valuation.PriceKnown {
		t.Error("BLANK position must have an unknown price")
	}

	// TRY: 6010 + 1312.71 + 0, USD: 400 * 40
	want := d("6010").Add(d("1312.71")).Add(d("16000"))
	if !report.Blended.CurrentValue.Decimal().Equal(want) {
		t.Errorf("Blended.CurrentValue = %v, want %v", report.Blended.CurrentValue.Decimal(), want)
	}
	// AAPL costs 2*150+1 USD
	if !report.Buckets[0].CostBasis.Equal(usd(301)) {
		t.Errorf("largest bucket = %s %v, want AAPL with cost 301", report.Buckets[0].Label, report.Buckets[0].CostBasis)
	}
	if !report.Daily.WeightedPct.Equal(1) {
		t.Errorf("Daily.WeightedPct = %v, want 1%%", report.Daily.WeightedPct)
	}
}

func TestEngine_Evaluate_SymbolCase(t *testing.T) {
	e, err := NewEngine(fakeFeed{quotes: map[string]Quote{"AAA": {Raw: "12", Currency: TRY}}}, nil, TRY)
	if err != nil {
		t.Fatal(err)
	}
	txs := []Transaction{
		tx("2024-01-02", Buy, "AAA", 5, 10),
		tx("2024-01-03", Buy, "aaa", 5, 10),
	}
	for _, kind := range []GroupKind{BySymbol, Global} {
		report := e.Evaluate(txs, kind)
		if len(report.Positions) != 1 {
			t.Fatalf("Evaluate(%v) has %d positions, want 1", kind, len(report.Positions))
		}
		p := report.Positions[0]
		if p.Valuation.Symbol != "AAA" || !p.Valuation.Quantity.Equal(Q(10)) {
			t.Errorf("Evaluate(%v) position = %s %v, want AAA 10", kind, p.Valuation.Symbol, p.Valuation.Quantity)
		}
		if kind == BySymbol && p.Label != "AAA" {
			t.Errorf("Evaluate(BySymbol) label = %q, want AAA", p.Label)
		}
	}
}

func TestEngine_Evaluate_ByPlatform(t *testing.T) {
	e, txs := engineFixture(t)
	report := e.Evaluate(txs, ByPlatform)

	labels := map[string]Money{}
	for _, b := range report.Buckets {
		labels[b.Label] = b.CurrentValue
	}
	if len(labels) != 3 {
		t.Fatalf("Evaluate(ByPlatform) buckets = %v, want garanti, ibkr and midas", labels)
	}
	if !labels["garanti"].Equal(tl(3005)) {
		t.Errorf("garanti = %v, want 3005", labels["garanti"])
	}
	if !labels["midas"].Decimal().Equal(d("4317.71")) {
		t.Errorf("midas = %v, want 4317.71", labels["midas"].Decimal())
	}
}

func TestEngine_Evaluate_Global(t *testing.T) {
	e, txs := engineFixture(t)
	report := e.Evaluate(txs, Global)
	for _, b := range report.Buckets {
		if b.Label != GlobalLabel {
			t.Errorf("Evaluate(Global) bucket label = %q, want %q", b.Label, GlobalLabel)
		}
	}
	if len(report.Buckets) != 2 {
		t.Errorf("Evaluate(Global) has %d buckets, want one per currency", len(report.Buckets))
	}
}

func TestEngine_NoFeed(t *testing.T) {
	e := &Engine{Reference: TRY}
	report := e.Evaluate([]Transaction{tx("2024-01-02", Buy, "THYAO", 10, 250)}, BySymbol)
	if report.Positions[0].Valuation.PriceKnown {
		t.Error("a nil feed must give unknown prices")
	}
	if !report.Blended.CostBasis.Equal(tl(2500)) {
		t.Errorf("Blended.CostBasis = %v, want 2500", report.Blended.CostBasis)
	}
	if !report.Blended.PnL.IsZero() || !report.Blended.UnpricedCost.Equal(tl(2500)) {
		t.Errorf("Blended PnL = %v, unpriced cost = %v, want 0 and 2500", report.Blended.PnL, report.Blended.UnpricedCost)
	}
}
