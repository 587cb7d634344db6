package holdings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/holdings/date"
	"github.com/shopspring/decimal"
)

// Side is the kind of a ledger event.
type Side int

const (
	Buy Side = iota + 1
	Sell
	Dividend
	WithholdingTax
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Dividend:
		return "dividend"
	case WithholdingTax:
		return "withholding-tax"
	default:
		return "unknown"
	}
}

// AffectsLots reports whether events of this side open or close lots.
func (s Side) AffectsLots() bool { return s == Buy || s == Sell }

// ParseSide parses a side, accepting the Turkish labels used by spreadsheet
// ledgers ("alış", "satış", "temettü", "stopaj").
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "alış", "alis", "alım", "alim":
		return Buy, nil
	case "sell", "satış", "satis", "satım", "satim":
		return Sell, nil
	case "dividend", "temettü", "temettu":
		return Dividend, nil
	case "withholding-tax", "withholdingtax", "withholding", "stopaj":
		return WithholdingTax, nil
	default:
		return 0, fmt.Errorf("unknown side: %q", s)
	}
}

func (s Side) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Side) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Transaction is one ledger event, already coerced into exact values.
type Transaction struct {
	ID          string
	Seq         int64 // insertion order, breaks ties between events of the same day
	Date        date.Date
	Symbol      string
	Side        Side
	Quantity    Quantity
	UnitPrice   decimal.Decimal
	Commission  decimal.Decimal
	Currency    Currency
	Cost        Money // authoritative, may have been adjusted by hand
	PortfolioID string
	PlatformID  string
	MarketID    string
	Memo        string
}

// NewTransaction builds a transaction whose cost is quantity*unitPrice + commission.
func NewTransaction(on date.Date, side Side, symbol string, quantity Quantity, unitPrice, commission decimal.Decimal, c Currency) Transaction {
	return Transaction{
		Date:       on,
		Side:       side,
		Symbol:     CanonicalSymbol(symbol),
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Commission: commission,
		Currency:   c,
		Cost:       M(quantity.value.Mul(unitPrice).Add(commission), c),
	}
}

// CanonicalSymbol upper-cases and trims a symbol identifier.
func CanonicalSymbol(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// MarshalJSON writes the transaction as one ledger line.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.ID)
	w.Append("date", t.Date)
	w.Append("side", t.Side)
	w.Append("symbol", t.Symbol)
	w.Append("quantity", t.Quantity)
	w.Append("unitPrice", t.UnitPrice)
	w.Optional("commission", t.Commission)
	w.Append("currency", t.Currency)
	w.Append("cost", t.Cost.value)
	w.Optional("portfolio", t.PortfolioID)
	w.Optional("platform", t.PlatformID)
	w.Optional("market", t.MarketID)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// RawTransaction is a transaction as a loosely typed store hands it over:
// every numeric field is a raw cell value.
type RawTransaction struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Side        string `json:"side"`
	Symbol      string `json:"symbol"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Commission  string `json:"commission,omitempty"`
	Currency    string `json:"currency"`
	Cost        string `json:"cost,omitempty"`
	PortfolioID string `json:"portfolio,omitempty"`
	PlatformID  string `json:"platform,omitempty"`
	MarketID    string `json:"market,omitempty"`
	Memo        string `json:"memo,omitempty"`
}

// ErrNegativeQuantity is returned by Coerce for a stored negative quantity.
var ErrNegativeQuantity = errors.New("stored quantity must not be negative")

// Coerce converts a raw record into a Transaction. Numeric fields go through
// ParseLoose: blank or malformed cells become 0. A blank cost is derived from
// quantity, unit price and commission. Only a missing symbol, an unknown side,
// an invalid date or a negative quantity are reported as errors.
func (r RawTransaction) Coerce(seq int64) (Transaction, error) {
	symbol := CanonicalSymbol(r.Symbol)
	if symbol == "" {
		return Transaction{}, errors.New("symbol is missing")
	}
	side, err := ParseSide(r.Side)
	if err != nil {
		return Transaction{}, err
	}
	var on date.Date
	if strings.TrimSpace(r.Date) != "" {
		if on, err = date.Parse(r.Date); err != nil {
			return Transaction{}, err
		}
	}
	quantity := Q(ParseLoose(r.Quantity))
	if quantity.IsNegative() {
		return Transaction{}, fmt.Errorf("%s %s: %w", side, symbol, ErrNegativeQuantity)
	}

	c := ParseCurrency(r.Currency)
	t := NewTransaction(on, side, symbol, quantity, ParseLoose(r.UnitPrice), ParseLoose(r.Commission), c)
	if strings.TrimSpace(r.Cost) != "" {
		t.Cost = M(ParseLoose(r.Cost), c)
	}
	t.ID = r.ID
	t.Seq = seq
	t.PortfolioID = strings.TrimSpace(r.PortfolioID)
	t.PlatformID = strings.TrimSpace(r.PlatformID)
	t.MarketID = strings.TrimSpace(r.MarketID)
	t.Memo = r.Memo
	return t, nil
}

// UnmarshalJSON reads a ledger line written by MarshalJSON. Numbers are
// exact decimals here, not spreadsheet cells. A missing cost is derived.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID          string           `json:"id"`
		Date        date.Date        `json:"date"`
		Side        Side             `json:"side"`
		Symbol      string           `json:"symbol"`
		Quantity    decimal.Decimal  `json:"quantity"`
		UnitPrice   decimal.Decimal  `json:"unitPrice"`
		Commission  decimal.Decimal  `json:"commission"`
		Currency    string           `json:"currency"`
		Cost        *decimal.Decimal `json:"cost"`
		PortfolioID string           `json:"portfolio"`
		PlatformID  string           `json:"platform"`
		MarketID    string           `json:"market"`
		Memo        string           `json:"memo"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.Side == 0 {
		return errors.New("side is missing")
	}
	if CanonicalSymbol(temp.Symbol) == "" {
		return errors.New("symbol is missing")
	}
	if temp.Quantity.IsNegative() {
		return fmt.Errorf("%s %s: %w", temp.Side, temp.Symbol, ErrNegativeQuantity)
	}
	c := ParseCurrency(temp.Currency)
	v := NewTransaction(temp.Date, temp.Side, temp.Symbol, Q(temp.Quantity), temp.UnitPrice, temp.Commission, c)
	if temp.Cost != nil {
		v.Cost = M(*temp.Cost, c)
	}
	v.ID = temp.ID
	v.PortfolioID = temp.PortfolioID
	v.PlatformID = temp.PlatformID
	v.MarketID = temp.MarketID
	v.Memo = temp.Memo
	*t = v
	return nil
}
