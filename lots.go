package holdings

import (
	"slices"

	"github.com/etnz/holdings/date"
)

// Lot is an open buy tranche: what remains of a single purchase.
type Lot struct {
	Date     date.Date
	Quantity Quantity
	UnitCost Money
}

// lots is a FIFO queue of open lots, oldest first.
type lots []Lot

// consume removes up to quantity units from the oldest lots. It returns the
// quantity actually covered by open lots and their cost.
func (l *lots) consume(quantity Quantity) (covered Quantity, cost Money) {
	for quantity.IsPositive() && len(*l) > 0 {
		front := &(*l)[0]
		used := quantity.Min(front.Quantity)
		cost = cost.Add(front.UnitCost.Mul(used))
		covered = covered.Add(used)
		front.Quantity = front.Quantity.Sub(used)
		quantity = quantity.Sub(used)
		if !front.Quantity.IsPositive() {
			*l = (*l)[1:]
		}
	}
	return covered, cost
}

// LotResult is the outcome of matching one symbol's transactions.
type LotResult struct {
	Symbol   string
	Currency Currency

	// Quantity is negative when more was sold than ever bought.
	Quantity  Quantity
	CostBasis Money

	Bought         Quantity
	Sold           Quantity
	Realized       Money // proceeds of covered sells minus the cost they consumed
	Dividends      Money
	WithholdingTax Money

	// OpenLots is a copy of the lots still open after the last event.
	OpenLots []Lot
}

// Oversold reports whether more units were sold than bought.
func (r LotResult) Oversold() bool { return r.Quantity.IsNegative() }

// SortTransactions returns a copy of txs ordered by date then insertion
// sequence. Events equal on both keys keep their relative order.
func SortTransactions(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
	return sorted
}

// Match computes the remaining quantity and cost basis of one symbol's
// transactions using FIFO lot accounting.
//
// A sell consumes the oldest open lots first. The whole sold quantity is
// always removed from the position, but only the part covered by open lots
// reduces the cost basis: an uncovered short sale drives the quantity negative
// while its cost is not tracked.
//
// Dividends and withholding taxes are totaled but never touch the lots. Match
// never fails and never mutates txs.
func Match(txs []Transaction) LotResult {
	var (
		res  LotResult
		open lots
	)
	for _, tx := range SortTransactions(txs) {
		if res.Symbol == "" {
			res.Symbol = CanonicalSymbol(tx.Symbol)
		}
		if res.Currency == "" {
			res.Currency = tx.Currency
		}
		switch tx.Side {
		case Buy:
			unitCost := M(0, tx.Currency)
			if !tx.Quantity.IsZero() {
				unitCost = tx.Cost.Div(tx.Quantity)
			}
			open = append(open, Lot{Date: tx.Date, Quantity: tx.Quantity, UnitCost: unitCost})
			res.Quantity = res.Quantity.Add(tx.Quantity)
			res.CostBasis = res.CostBasis.Add(tx.Cost)
			res.Bought = res.Bought.Add(tx.Quantity)

		case Sell:
			covered, cost := open.consume(tx.Quantity)
			res.CostBasis = res.CostBasis.Sub(cost)
			res.Quantity = res.Quantity.Sub(tx.Quantity)
			res.Sold = res.Sold.Add(tx.Quantity)
			if covered.IsPositive() {
				proceeds := M(tx.Quantity.value.Mul(tx.UnitPrice).Sub(tx.Commission), tx.Currency)
				proceeds = proceeds.Mul(covered.Ratio(tx.Quantity))
				res.Realized = res.Realized.Add(proceeds.Sub(cost))
			}

		case Dividend:
			res.Dividends = res.Dividends.Add(tx.Cost)

		case WithholdingTax:
			res.WithholdingTax = res.WithholdingTax.Add(tx.Cost)
		}
	}

	// absorb the residue left by repeated fractional matching
	if res.Quantity.negligible() {
		res.Quantity = Quantity{}
		res.CostBasis = M(0, res.Currency)
	}
	res.CostBasis = res.CostBasis.In(res.Currency)
	res.OpenLots = slices.Clone(open)
	return res
}

// GroupBySymbol splits txs per canonical symbol, keeping their order.
func GroupBySymbol(txs []Transaction) map[string][]Transaction {
	groups := make(map[string][]Transaction)
	for _, tx := range txs {
		s := CanonicalSymbol(tx.Symbol)
		groups[s] = append(groups[s], tx)
	}
	return groups
}
