// Package store provides TransactionStore implementations: a JSONL ledger
// file, a SQLite database and an in-memory store.
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/etnz/holdings"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// JSONL is a ledger file with one transaction per line.
type JSONL struct {
	Path string
}

// NewJSONL returns a store over the ledger file at path.
func NewJSONL(path string) *JSONL { return &JSONL{Path: path} }

// ListTransactions reads the ledger and keeps the lines of portfolioID. An
// empty portfolioID keeps every line. A missing file is an empty ledger.
func (s *JSONL) ListTransactions(ctx context.Context, portfolioID string) ([]holdings.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", s.Path).Msg("ledger does not exist, using an empty ledger instead")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger %q: %w", s.Path, err)
	}
	defer f.Close()

	all, err := DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("could not read ledger %q: %w", s.Path, err)
	}
	return filterPortfolio(all, portfolioID), nil
}

// Append writes tx at the end of the ledger, giving it an id if it has none.
func (s *JSONL) Append(tx holdings.Transaction) (holdings.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return tx, fmt.Errorf("could not open ledger %q: %w", s.Path, err)
	}
	defer f.Close()
	if err := EncodeTransaction(f, tx); err != nil {
		return tx, fmt.Errorf("could not write to ledger %q: %w", s.Path, err)
	}
	return tx, nil
}

// DecodeTransactions reads JSONL transactions. The line number becomes the
// transaction's sequence. Lines that cannot be decoded are skipped with a
// warning; only read errors are returned.
func DecodeTransactions(r io.Reader) ([]holdings.Transaction, error) {
	var txs []holdings.Transaction
	scanner := bufio.NewScanner(r)
	var line int64
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var tx holdings.Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			log.Warn().Err(err).Int64("line", line).Msg("skipping ledger line")
			continue
		}
		tx.Seq = line
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

// EncodeTransaction writes tx as a single JSON line.
func EncodeTransaction(w io.Writer, tx holdings.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func filterPortfolio(txs []holdings.Transaction, portfolioID string) []holdings.Transaction {
	if portfolioID == "" {
		return txs
	}
	var out []holdings.Transaction
	for _, tx := range txs {
		if tx.PortfolioID == portfolioID {
			out = append(out, tx)
		}
	}
	return out
}
