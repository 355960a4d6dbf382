package calculation

import (
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateStatePension computes the first-pillar monthly benefit from the career-average
// income and the number of contribution years (including years still to come).
//
// The full-career benefit follows the scale: at or above the income ceiling the maximum is
// paid, at or below a third of the ceiling the minimum, and in between the minimum plus the
// max-min spread scaled by income/ceiling. Each missing year then removes a fixed share, and
// minimum benefit × years / full career acts as a floor, even past a full career.
//
// Negative counts are treated as zero; zero contribution years yield a zero benefit.
func CalculateStatePension(rules domain.StatePensionRules, averageIncome decimal.Decimal, yearsContributed, educationYears, assistanceYears int) domain.StatePensionResult {
	yearsContributed = nonNegative(yearsContributed)
	educationYears = nonNegative(educationYears)
	assistanceYears = nonNegative(assistanceYears)
	if averageIncome.IsNegative() {
		averageIncome = decimal.Zero
	}

	// Care credits are spread over the whole contribution period
	bonification := decimal.Zero
	if yearsContributed > 0 {
		creditYears := decimal.NewFromInt(int64(educationYears + assistanceYears))
		bonification = creditYears.Mul(rules.AnnualBonificationCredit).Div(decimal.NewFromInt(int64(maxInt(1, yearsContributed))))
	}

	indexedIncome := decimal.Min(averageIncome.Add(bonification), rules.IncomeCeiling.Mul(rules.IndexedIncomeCapFactor))
	fullCareer := fullCareerBenefit(rules, indexedIncome)

	missing := nonNegative(rules.FullCareerYears - yearsContributed)
	reduction := decimal.NewFromInt(int64(missing)).Mul(rules.PenaltyPerMissingYear)
	reduction = decimal.Max(decimal.Zero, decimal.Min(reduction, decimal.NewFromInt(1)))
	reduced := fullCareer.Mul(decimal.NewFromInt(1).Sub(reduction))

	benefit := decimal.Zero
	if yearsContributed > 0 {
		// Not capped at a full career: a long low-income career can exceed the minimum benefit
		floor := rules.MinimumBenefit.Mul(decimal.NewFromInt(int64(yearsContributed))).Div(decimal.NewFromInt(int64(rules.FullCareerYears)))
		benefit = decimal.Max(reduced, floor)
	}

	return domain.StatePensionResult{
		Benefit:           benefit,
		FullCareerBenefit: fullCareer,
		IndexedIncome:     indexedIncome,
		MissingYears:      missing,
		ReductionRate:     reduction,
		Bonification:      bonification,
		YearsContributed:  yearsContributed,
	}
}

// fullCareerBenefit is the unreduced benefit for a complete career. The interpolation is
// anchored at zero income, not at the low-income breakpoint.
func fullCareerBenefit(rules domain.StatePensionRules, indexedIncome decimal.Decimal) decimal.Decimal {
	switch {
	case indexedIncome.GreaterThanOrEqual(rules.IncomeCeiling):
		return rules.MaximumBenefit
	case indexedIncome.LessThanOrEqual(rules.IncomeCeiling.Div(rules.LowIncomeDivisor)):
		return rules.MinimumBenefit
	default:
		spread := rules.MaximumBenefit.Sub(rules.MinimumBenefit)
		return rules.MinimumBenefit.Add(spread.Mul(indexedIncome).Div(rules.IncomeCeiling))
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
