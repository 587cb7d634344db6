package holdings

import (
	"slices"
	"testing"

	"github.com/etnz/holdings/date"
	"github.com/shopspring/decimal"
)

func TestMatch_Scenarios(t *testing.T) {
	testCases := []struct {
		name          string
		txs           []Transaction
		wantQuantity  string
		wantCostBasis string
	}{
		{
			name: "partial sell of a single lot",
			txs: []Transaction{
				tx("2024-01-02", Buy, "THYAO", 100, 10),
				tx("2024-01-05", Sell, "THYAO", 40, 15),
			},
			wantQuantity:  "60",
			wantCostBasis: "600",
		},
		{
			name: "sell spans two lots",
			txs: []Transaction{
				tx("2024-01-02", Buy, "THYAO", 50, 20),
				tx("2024-01-03", Buy, "THYAO", 50, 30),
				tx("2024-01-04", Sell, "THYAO", 70, 40),
			},
			wantQuantity:  "30",
			wantCostBasis: "900",
		},
		{
			name: "sell with no prior buy",
			txs: []Transaction{
				tx("2024-01-02", Sell, "THYAO", 10, 5),
			},
			wantQuantity:  "-10",
			wantCostBasis: "0",
		},
		{
			name: "oversell stops reducing cost once lots are exhausted",
			txs: []Transaction{
				tx("2024-01-02", Buy, "THYAO", 10, 10),
				tx("2024-01-03", Sell, "THYAO", 15, 12),
				tx("2024-01-04", Buy, "THYAO", 20, 11),
			},
			wantQuantity:  "15",
			wantCostBasis: "220",
		},
		{
			name: "unsorted input is sorted by date",
			txs: []Transaction{
				tx("2024-01-04", Sell, "THYAO", 70, 40),
				tx("2024-01-03", Buy, "THYAO", 50, 30),
				tx("2024-01-02", Buy, "THYAO", 50, 20),
			},
			wantQuantity:  "30",
			wantCostBasis: "900",
		},
		{
			name: "dividends and taxes do not touch lots",
			txs: []Transaction{
				tx("2024-01-02", Buy, "THYAO", 100, 10),
				tx("2024-02-02", Dividend, "THYAO", 0, 0),
				tx("2024-02-02", WithholdingTax, "THYAO", 0, 0),
			},
			wantQuantity:  "100",
			wantCostBasis: "1000",
		},
		{
			name: "zero quantity buy has a zero unit cost",
			txs: []Transaction{
				tx("2024-01-02", Buy, "THYAO", 0, 10),
				tx("2024-01-03", Buy, "THYAO", 10, 10),
				tx("2024-01-04", Sell, "THYAO", 5, 10),
			},
			wantQuantity:  "5",
			wantCostBasis: "50",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Match(tc.txs)
			if !got.Quantity.Decimal().Equal(d(tc.wantQuantity)) {
				t.Errorf("Match().Quantity = %v, want %v", got.Quantity, tc.wantQuantity)
			}
			if !got.CostBasis.Decimal().Equal(d(tc.wantCostBasis)) {
				t.Errorf("Match().CostBasis = %v, want %v", got.CostBasis.Decimal(), tc.wantCostBasis)
			}
		})
	}
}

func TestMatch_RoundTripClosesPosition(t *testing.T) {
	txs := []Transaction{
		tx("2024-01-02", Buy, "ASELS", 30, 7),
		tx("2024-01-03", Buy, "ASELS", 20, 9),
		tx("2024-01-10", Sell, "ASELS", 25, 10),
		tx("2024-01-11", Sell, "ASELS", 25, 11),
	}
	got := Match(txs)
	if !got.Quantity.IsZero() || !got.CostBasis.IsZero() {
		t.Errorf("Match() = %v / %v, want a closed position", got.Quantity, got.CostBasis.Decimal())
	}
	if len(got.OpenLots) != 0 {
		t.Errorf("Match().OpenLots = %v, want none", got.OpenLots)
	}
	// proceeds 250 + 275, cost 30*7 + 20*9 = 390
	if !got.Realized.Decimal().Equal(d("135")) {
		t.Errorf("Match().Realized = %v, want 135", got.Realized.Decimal())
	}
}

func TestMatch_EpsilonSnap(t *testing.T) {
	// thirds do not divide exactly: the unit cost is rounded and the
	// quantity leaves a residue far below the threshold.
	txs := []Transaction{
		NewTransaction(date.New(2024, 1, 2), Buy, "FUND", Q(d("1.000000001")), d("3"), decimal.Zero, TRY),
		NewTransaction(date.New(2024, 1, 3), Sell, "FUND", Q(1), d("3"), decimal.Zero, TRY),
	}
	got := Match(txs)
	if !got.Quantity.Decimal().Equal(decimal.Zero) {
		t.Errorf("Match().Quantity = %v, want exactly 0", got.Quantity)
	}
	if !got.CostBasis.IsZero() {
		t.Errorf("Match().CostBasis = %v, want exactly 0", got.CostBasis.Decimal())
	}

	fractional := []Transaction{
		NewTransaction(date.New(2024, 1, 2), Buy, "FUND", Q(d("0.1")), d("100"), decimal.Zero, TRY),
		NewTransaction(date.New(2024, 1, 2), Buy, "FUND", Q(d("0.2")), d("100"), decimal.Zero, TRY),
		NewTransaction(date.New(2024, 1, 3), Sell, "FUND", Q(d("0.3")), d("100"), decimal.Zero, TRY),
	}
	if got := Match(fractional); !got.Quantity.IsZero() || !got.CostBasis.IsZero() {
		t.Errorf("Match() = %v / %v, want exactly 0", got.Quantity, got.CostBasis.Decimal())
	}
}

func TestMatch_SameDayOrder(t *testing.T) {
	// A sell and a buy on the same day: the insertion sequence decides.
	buy := tx("2024-03-01", Buy, "KCHOL", 10, 100)
	buy.Seq = 2
	sell := tx("2024-03-01", Sell, "KCHOL", 10, 110)
	sell.Seq = 1
	early := tx("2024-02-01", Buy, "KCHOL", 10, 50)
	early.Seq = 3

	forward := Match([]Transaction{early, buy, sell})
	backward := Match([]Transaction{sell, buy, early})

	if !forward.Quantity.Equal(backward.Quantity) || !forward.CostBasis.Equal(backward.CostBasis) {
		t.Errorf("Match() depends on input order: %v/%v vs %v/%v",
			forward.Quantity, forward.CostBasis.Decimal(), backward.Quantity, backward.CostBasis.Decimal())
	}
	// the sell (seq 1) consumes the early lot, not the same-day buy
	if !forward.CostBasis.Decimal().Equal(d("1000")) {
		t.Errorf("Match().CostBasis = %v, want 1000", forward.CostBasis.Decimal())
	}
}

func TestMatch_DoesNotMutateInput(t *testing.T) {
	txs := []Transaction{
		tx("2024-01-04", Sell, "THYAO", 70, 40),
		tx("2024-01-02", Buy, "THYAO", 50, 20),
		tx("2024-01-03", Buy, "THYAO", 50, 30),
	}
	before := slices.Clone(txs)

	first := Match(txs)
	second := Match(txs)

	for i := range txs {
		if txs[i].Date != before[i].Date || !txs[i].Quantity.Equal(before[i].Quantity) {
			t.Fatalf("Match() mutated its input at %d", i)
		}
	}
	if !first.Quantity.Equal(second.Quantity) || !first.CostBasis.Equal(second.CostBasis) {
		t.Errorf("Match() is not idempotent: %v/%v vs %v/%v",
			first.Quantity, first.CostBasis.Decimal(), second.Quantity, second.CostBasis.Decimal())
	}
}

func TestMatch_InformationalTotals(t *testing.T) {
	div := NewTransaction(date.New(2024, 5, 2), Dividend, "TUPRS", Q(0), decimal.Zero, decimal.Zero, TRY)
	div.Cost = tl(120)
	tax := NewTransaction(date.New(2024, 5, 2), WithholdingTax, "TUPRS", Q(0), decimal.Zero, decimal.Zero, TRY)
	tax.Cost = tl(12)

	got := Match([]Transaction{tx("2024-01-02", Buy, "TUPRS", 10, 100), div, tax})
	if !got.Dividends.Equal(tl(120)) {
		t.Errorf("Match().Dividends = %v, want 120", got.Dividends)
	}
	if !got.WithholdingTax.Equal(tl(12)) {
		t.Errorf("Match().WithholdingTax = %v, want 12", got.WithholdingTax)
	}
	if !got.Bought.Equal(Q(10)) || !got.Sold.IsZero() {
		t.Errorf("Match() bought/sold = %v/%v, want 10/0", got.Bought, got.Sold)
	}
}

func TestMatch_CanonicalSymbol(t *testing.T) {
	got := Match([]Transaction{
		tx("2024-01-02", Buy, " aselS", 10, 40),
		tx("2024-01-03", Buy, "ASELS", 5, 42),
	})
	if got.Symbol != "ASELS" {
		t.Errorf("Match().Symbol = %q, want ASELS", got.Symbol)
	}
}

func TestSortTransactions_Stable(t *testing.T) {
	a := tx("2024-01-02", Buy, "A", 1, 1)
	b := tx("2024-01-02", Buy, "B", 1, 1)
	c := tx("2024-01-01", Buy, "C", 1, 1)

	got := SortTransactions([]Transaction{a, b, c})
	var symbols []string
	for _, tx := range got {
		symbols = append(symbols, tx.Symbol)
	}
	if want := []string{"C", "A", "B"}; !slices.Equal(symbols, want) {
		t.Errorf("SortTransactions() = %v, want %v", symbols, want)
	}
}
