package calculation

import (
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// SavingsRateForAge returns the mandatory occupational savings credit rate for an age.
// Ages below the entry age contribute nothing; otherwise the highest bracket starting
// at or before the age applies.
func SavingsRateForAge(rules domain.OccupationalPensionRules, age int) decimal.Decimal {
	if age < rules.EntryAge {
		return decimal.Zero
	}
	rate := decimal.Zero
	for _, b := range rules.SortedBrackets() {
		if b.FromAge > age {
			break
		}
		rate = b.Rate
	}
	return rate
}
