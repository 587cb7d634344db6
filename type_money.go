package holdings

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in a given currency.
type Money struct {
	value decimal.Decimal
	cur   Currency
}

func M[T float64 | int | int64 | decimal.Decimal](value T, currency Currency) Money {
	return Money{value: newDecimal(value), cur: currency}
}

func (m Money) Currency() Currency               { return m.cur }
func (m Money) Decimal() decimal.Decimal         { return m.value }
func (m Money) Equal(n Money) bool               { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                     { return m.value.IsZero() }
func (m Money) IsPositive() bool                 { return m.value.IsPositive() }
func (m Money) IsNegative() bool                 { return m.value.IsNegative() }
func (m Money) GreaterThan(n Money) bool         { return m.value.GreaterThan(n.value) }
func (m Money) LessThan(n Money) bool            { return m.value.LessThan(n.value) }
func (m Money) Neg() Money                       { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money             { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Div(q Quantity) Money             { return Money{value: m.value.Div(q.value), cur: m.cur} }
func (m Money) Scale(f decimal.Decimal) Money    { return Money{value: m.value.Mul(f), cur: m.cur} }
func (m Money) Float() float64                   { return m.value.InexactFloat64() }
func (m Money) In(c Currency) Money              { return Money{value: m.value, cur: c} }
func (m Money) Add(n Money) Money                { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money                { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) MarshalJSON() ([]byte, error)     { return m.value.Round(6).MarshalJSON() }
func (m *Money) UnmarshalJSON(data []byte) error { return m.value.UnmarshalJSON(data) }

// Ratio returns m/n as a plain decimal, 0 when n is zero.
func (m Money) Ratio(n Money) decimal.Decimal {
	if n.value.IsZero() {
		return decimal.Zero
	}
	return m.value.Div(n.value)
}

// cur makes the "" currency weak. Amounts of different currencies are never
// added by this package: buckets are keyed by currency.
func cur(a, b Money) Currency {
	if a.cur == "" {
		return b.cur
	}
	return a.cur
}

// String formats the amount with two decimals in the local convention
// ("1.234,50 ₺"): '.' groups thousands and ',' separates decimals.
func (m Money) String() string {
	s := formatLocal(m.value, 2)
	if g := m.cur.Glyph(); g != "" {
		return s + " " + g
	}
	if m.cur != "" {
		return s + " " + string(m.cur)
	}
	return s
}

// SignedString is like String with an explicit sign, "-" for zero.
func (m Money) SignedString() string {
	switch {
	case m.value.IsZero():
		return "-"
	case m.value.IsPositive():
		return "+" + m.String()
	default:
		return m.String()
	}
}

// formatLocal renders d with places decimals, '.' thousands grouping and ','
// decimal separator.
func formatLocal(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
