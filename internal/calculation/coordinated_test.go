package calculation

import (
	"testing"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoordinatedSalary(t *testing.T) {
	rules := domain.DefaultLegalRules().Occupational

	tests := []struct {
		name     string
		gross    decimal.Decimal
		expected decimal.Decimal
	}{
		{name: "zero salary", gross: decimal.Zero, expected: decimal.Zero},
		{name: "below entry threshold", gross: dec("20000"), expected: decimal.Zero},
		{name: "at threshold, below deduction", gross: dec("22680"), expected: decimal.Zero},
		{name: "just above deduction", gross: dec("30000"), expected: dec("3540")},
		{name: "typical salary", gross: dec("80000"), expected: dec("53540")},
		{name: "at insured ceiling", gross: dec("88200"), expected: dec("61740")},
		{name: "above insured ceiling", gross: dec("150000"), expected: dec("61740")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoordinatedSalary(rules, tt.gross)
			assert.True(t, got.Equal(tt.expected), "Expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCoordinatedSalary_Monotone(t *testing.T) {
	rules := domain.DefaultLegalRules().Occupational
	prev := decimal.Zero
	for gross := int64(0); gross <= 200000; gross += 500 {
		got := CoordinatedSalary(rules, decimal.NewFromInt(gross))
		assert.True(t, got.GreaterThanOrEqual(prev), "coordinated salary decreased at %d", gross)
		assert.False(t, got.IsNegative())
		prev = got
	}
}
