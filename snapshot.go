package holdings

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TransactionStore supplies the transactions of a portfolio, in any order.
type TransactionStore interface {
	ListTransactions(ctx context.Context, portfolioID string) ([]Transaction, error)
}

// Snapshot is a fully materialized set of transactions. Lot matching needs a
// complete view: it is never fed a partial stream.
type Snapshot struct {
	Portfolios   []string
	Transactions []Transaction
}

// Collect fetches the portfolios concurrently and returns them as one
// snapshot. Transactions keep the order of ids, then the store's order. The
// first failure cancels the remaining fetches.
func Collect(ctx context.Context, store TransactionStore, ids ...string) (*Snapshot, error) {
	results := make([][]Transaction, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			txs, err := store.ListTransactions(ctx, id)
			if err != nil {
				return fmt.Errorf("could not list transactions of portfolio %q: %w", id, err)
			}
			for j := range txs {
				if txs[j].PortfolioID == "" {
					txs[j].PortfolioID = id
				}
			}
			results[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Snapshot{Portfolios: ids}
	for _, txs := range results {
		s.Transactions = append(s.Transactions, txs...)
	}
	return s, nil
}
