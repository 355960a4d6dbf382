package calculation

import (
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// CoordinatedSalary converts a gross annual salary into the insured (coordinated) salary
// on which savings credits are computed.
func CoordinatedSalary(rules domain.OccupationalPensionRules, gross decimal.Decimal) decimal.Decimal {
	if gross.LessThan(rules.EntryThreshold) {
		return decimal.Zero
	}
	insured := decimal.Min(gross, rules.InsuredSalaryCeiling).Sub(rules.CoordinationDeduction)
	if insured.IsNegative() {
		return decimal.Zero
	}
	return insured
}
