package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the code printed in front of formatted amounts
const Currency = "CHF"

// Money represents a Swiss franc amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Format formats the amount with Swiss digit grouping, e.g. "CHF 1'234.50"
func (m Money) Format() string {
	return Currency + " " + group(m.Decimal.StringFixed(2))
}

// FormatWhole formats the amount rounded to whole francs, e.g. "CHF 1'235"
func (m Money) FormatWhole() string {
	return Currency + " " + group(m.Decimal.StringFixed(0))
}

// group inserts an apostrophe every three integer digits
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('\'')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
