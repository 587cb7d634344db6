package holdings

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseLoose converts a loosely formatted numeric token into an exact value.
//
// Spreadsheet cells use '.' to group thousands and ',' as the decimal
// separator, and frequently carry currency glyphs or are blank. Everything
// that is not a digit, a separator or a minus sign is dropped. Blank or
// unparseable input yields 0.
func ParseLoose(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ',':
			b.WriteByte('.')
		case r == '.', unicode.IsSpace(r):
			// thousands separator or padding
		}
	}
	s := b.String()
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Reformat rewrites a raw feed value into the layout of sample.
//
// Digits of raw are left-truncated or right-padded with zeros to a target
// count, and the separator is re-inserted after as many digits as the sample
// has before its ','. The target is the sample's fractional digit count when
// it exceeds its integer digit count, so "1,312719" turns "123456" into
// "1,23456". Otherwise the target is the sample's whole digit count, so
// "100,00" turns "12345" into "123,45" and never drops the decimals. The
// currency glyph is appended.
//
// An empty sample returns raw's parsed value with a ',' decimal separator. It
// returns false when raw has no digit at all, callers then fall back to
// ParseLoose.
func Reformat(raw, sample string, c Currency) (string, bool) {
	if sample == "" {
		return strings.Replace(ParseLoose(raw).String(), ".", ",", 1), true
	}

	digits := digitsOf(raw)
	if digits == "" {
		return "", false
	}

	sep := strings.LastIndexByte(sample, ',')
	intLen, size := len(digitsOf(sample)), len(digitsOf(sample))
	if sep >= 0 {
		intLen = len(digitsOf(sample[:sep]))
		if frac := len(digitsOf(sample[sep+1:])); frac > intLen {
			size = frac
		}
	}

	if len(digits) > size {
		digits = digits[:size]
	} else {
		digits += strings.Repeat("0", size-len(digits))
	}

	out := digits
	if sep >= 0 && intLen < len(digits) {
		out = digits[:intLen] + "," + digits[intLen:]
	}
	return out + c.Glyph(), true
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
