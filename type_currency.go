package holdings

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency is a canonical, upper-case currency code. Codes outside the known
// set are kept as their raw upper-cased token.
type Currency string

const (
	TRY  Currency = "TRY"
	USD  Currency = "USD"
	EUR  Currency = "EUR"
	USDT Currency = "USDT"
)

// aliases maps the glyphs and local spellings found in spreadsheet cells.
var aliases = map[string]Currency{
	"₺":  TRY,
	"TL": TRY,
	"$":  USD,
	"€":  EUR,
}

// ParseCurrency canonicalizes a raw currency token. It never fails: an empty
// token yields the empty Currency, unknown tokens are returned upper-cased.
func ParseCurrency(raw string) Currency {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if c, ok := aliases[s]; ok {
		return c
	}
	return Currency(s)
}

func (c Currency) String() string { return string(c) }

// Glyph returns the display symbol of the currency ("₺", "$", "€"), or the
// empty string when none is known.
func (c Currency) Glyph() string {
	switch c {
	case USDT:
		return "$"
	case "":
		return ""
	}
	cur := money.GetCurrency(string(c))
	if cur == nil || cur.Grapheme == string(c) {
		return ""
	}
	return cur.Grapheme
}

// CurrencyClass tells how a currency takes part in a blended total.
type CurrencyClass int

const (
	// OtherClass currencies are reported individually but left out of the
	// blended total.
	OtherClass CurrencyClass = iota
	// ReferenceClass is the currency blended totals are expressed in.
	ReferenceClass
	// DollarClass currencies are converted with the USD rate.
	DollarClass
)

func (c CurrencyClass) String() string {
	switch c {
	case ReferenceClass:
		return "reference"
	case DollarClass:
		return "dollar"
	default:
		return "other"
	}
}

// ClassOf returns the class of c when totals are blended into reference.
func ClassOf(c, reference Currency) CurrencyClass {
	switch {
	case c == reference:
		return ReferenceClass
	case c == USD || c == USDT:
		return DollarClass
	default:
		return OtherClass
	}
}

// ValidateCurrency checks that s is an ISO 4217 code known to go-money or one
// of the dollar-class tokens.
func ValidateCurrency(c Currency) error {
	if c == USDT {
		return nil
	}
	if len(c) != 3 || money.GetCurrency(string(c)) == nil {
		return fmt.Errorf("invalid currency code %q", string(c))
	}
	return nil
}
