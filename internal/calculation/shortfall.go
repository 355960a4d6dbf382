package calculation

import (
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// AnalyzeShortfall measures the gap between a full-career reference income and the
// projected one. Self-employed people without a declared occupational capital are compared
// with a reference annuity instead of their own (empty) projection.
func AnalyzeShortfall(rules domain.LegalRules, profile domain.PersonProfile, state domain.StatePensionResult, payableBenefit decimal.Decimal, occupational domain.OccupationalPensionResult) domain.ShortfallAnalysis {
	referenceAnnuity := occupational.MonthlyAnnuity
	if profile.IsSelfEmployed() && (profile.OccupationalCapital == nil || !profile.OccupationalCapital.IsPositive()) {
		referenceAnnuity = rules.Occupational.ReferenceAnnuity
	}

	reference := state.FullCareerBenefit.Add(referenceAnnuity)
	actual := payableBenefit.Add(occupational.MonthlyAnnuity)
	monthly := reference.Sub(actual)
	annual := monthly.Mul(monthsPerYear)

	buyable := minInt(rules.Scenario.StateGapMaxYears, state.MissingYears)
	recoverable := annual.Mul(decimal.NewFromInt(int64(buyable)))

	return domain.ShortfallAnalysis{
		ReferenceMonthly:    reference,
		ActualMonthly:       actual,
		MonthlyShortfall:    monthly,
		AnnualShortfall:     annual,
		TwentyYearShortfall: annual.Mul(decimal.NewFromInt(int64(rules.Scenario.GainHorizonYears))),
		BuyableYears:        buyable,
		RecoverableAmount:   recoverable,
		TaxSavingEstimate:   recoverable.Mul(rules.Scenario.TaxSavingRate),
	}
}
