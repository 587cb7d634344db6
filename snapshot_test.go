package holdings

import (
	"context"
	"errors"
	"testing"
)

// mapStore is a TransactionStore over a map of portfolios.
type mapStore map[string][]Transaction

func (m mapStore) ListTransactions(_ context.Context, id string) ([]Transaction, error) {
	txs, ok := m[id]
	if !ok {
		return nil, errors.New("no such portfolio")
	}
	return append([]Transaction(nil), txs...), nil
}

func TestCollect(t *testing.T) {
	store := mapStore{
		"main": {tx("2024-01-02", Buy, "THYAO", 10, 250), tx("2024-01-03", Sell, "THYAO", 5, 260)},
		"kids": {tx("2024-01-02", Buy, "FUND", 100, 1)},
	}

	s, err := Collect(context.Background(), store, "main", "kids")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(s.Transactions) != 3 {
		t.Fatalf("Collect() returned %d transactions, want 3", len(s.Transactions))
	}
	// portfolio order is kept and missing ids are filled in
	want := []string{"main", "main", "kids"}
	for i, tx := range s.Transactions {
		if tx.PortfolioID != want[i] {
			t.Errorf("Transactions[%d].PortfolioID = %q, want %q", i, tx.PortfolioID, want[i])
		}
	}
}

func TestCollect_Error(t *testing.T) {
	store := mapStore{"main": nil}
	if _, err := Collect(context.Background(), store, "main", "ghost"); err == nil {
		t.Error("Collect() expected an error for an unknown portfolio")
	}
}
