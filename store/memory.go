package store

import (
	"context"
	"slices"
	"sync"

	"github.com/etnz/holdings"
)

// Memory is an in-process store, safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	txs  []holdings.Transaction
	next int64
}

// NewMemory returns a store holding txs. Their sequence is their position.
func NewMemory(txs ...holdings.Transaction) *Memory {
	m := &Memory{}
	for _, tx := range txs {
		m.Append(tx)
	}
	return m
}

// Append adds tx with the next sequence.
func (m *Memory) Append(tx holdings.Transaction) holdings.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	tx.Seq = m.next
	m.txs = append(m.txs, tx)
	return tx
}

// ListTransactions returns a copy of the transactions of portfolioID, all of
// them when empty.
func (m *Memory) ListTransactions(ctx context.Context, portfolioID string) ([]holdings.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(filterPortfolio(m.txs, portfolioID)), nil
}
