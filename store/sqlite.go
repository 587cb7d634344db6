package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/holdings"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog/log"
)

// Schema stores cells as the user typed them: the store is loosely typed and
// coercion happens when rows are listed.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
    seq INTEGER PRIMARY KEY AUTOINCREMENT, -- insertion order, the same-day tie-break
    id TEXT NOT NULL UNIQUE,
    portfolio TEXT NOT NULL DEFAULT '',
    platform TEXT NOT NULL DEFAULT '',
    market TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,                    -- YYYY-MM-DD or DD.MM.YYYY
    side TEXT NOT NULL,
    symbol TEXT NOT NULL,
    quantity TEXT NOT NULL DEFAULT '',
    unit_price TEXT NOT NULL DEFAULT '',
    commission TEXT NOT NULL DEFAULT '',
    currency TEXT NOT NULL DEFAULT '',
    cost TEXT NOT NULL DEFAULT '',         -- blank means derived
    memo TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_portfolio
    ON transactions(portfolio);
`

// SQLite is a transaction store in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and initializes) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Add validates raw and inserts it. It returns the coerced transaction with
// its new id and sequence.
func (s *SQLite) Add(ctx context.Context, raw holdings.RawTransaction) (holdings.Transaction, error) {
	if _, err := raw.Coerce(0); err != nil {
		return holdings.Transaction{}, fmt.Errorf("invalid transaction: %w", err)
	}
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, portfolio, platform, market, date, side, symbol,
			quantity, unit_price, commission, currency, cost, memo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		raw.ID, raw.PortfolioID, raw.PlatformID, raw.MarketID, raw.Date, raw.Side, raw.Symbol,
		raw.Quantity, raw.UnitPrice, raw.Commission, raw.Currency, raw.Cost, raw.Memo,
	)
	if err != nil {
		return holdings.Transaction{}, fmt.Errorf("failed to insert transaction: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return holdings.Transaction{}, fmt.Errorf("failed to read transaction sequence: %w", err)
	}
	return raw.Coerce(seq)
}

// ListTransactions returns the transactions of portfolioID (all of them when
// empty) in insertion order. Rows that cannot be coerced are skipped with a
// warning.
func (s *SQLite) ListTransactions(ctx context.Context, portfolioID string) ([]holdings.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, portfolio, platform, market, date, side, symbol,
			quantity, unit_price, commission, currency, cost, memo
		FROM transactions
		WHERE ? = '' OR portfolio = ?
		ORDER BY seq`, portfolioID, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []holdings.Transaction
	for rows.Next() {
		var (
			seq int64
			raw holdings.RawTransaction
		)
		if err := rows.Scan(&seq, &raw.ID, &raw.PortfolioID, &raw.PlatformID, &raw.MarketID, &raw.Date, &raw.Side, &raw.Symbol,
			&raw.Quantity, &raw.UnitPrice, &raw.Commission, &raw.Currency, &raw.Cost, &raw.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx, err := raw.Coerce(seq)
		if err != nil {
			log.Warn().Err(err).Str("id", raw.ID).Msg("skipping transaction")
			continue
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txs, nil
}

// Portfolios lists the distinct portfolio ids.
func (s *SQLite) Portfolios(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT portfolio FROM transactions ORDER BY portfolio`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
