package calculation

import (
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// ApplyHouseholdCap applies the married-couple ceiling to two state pensions. When the
// combined amount exceeds the ceiling the excess is removed from each spouse in proportion
// to their share of the combined amount, so that the capped pair sums to the ceiling.
func ApplyHouseholdCap(rules domain.StatePensionRules, primary, spouse decimal.Decimal) domain.HouseholdCapResult {
	total := primary.Add(spouse)
	result := domain.HouseholdCapResult{
		PrimaryBefore:    primary,
		SpouseBefore:     spouse,
		PrimaryAfter:     primary,
		SpouseAfter:      spouse,
		Excess:           decimal.Zero,
		Ceiling:          rules.CoupleCeiling,
		TheoreticalTotal: total,
	}
	if total.LessThanOrEqual(rules.CoupleCeiling) {
		return result
	}

	excess := total.Sub(rules.CoupleCeiling)
	primaryShare := excess.Mul(primary).Div(total)

	result.Capped = true
	result.Excess = excess
	result.PrimaryAfter = primary.Sub(primaryShare)
	// Derived from the ceiling so the pair is exact even when the share division rounds
	result.SpouseAfter = rules.CoupleCeiling.Sub(result.PrimaryAfter)
	return result
}

// ResolveSpousePension turns what the client knows about the spouse into a concrete
// monthly state pension: a declared amount taken as-is, the legal minimum for a spouse
// who never worked, or the published median otherwise.
func ResolveSpousePension(rules domain.StatePensionRules, awareness domain.SpouseAwareness, declared *decimal.Decimal) (decimal.Decimal, domain.SpousePensionSource) {
	switch {
	case awareness == domain.SpouseKnown && declared != nil:
		return *declared, domain.SpouseSourceDeclared
	case awareness == domain.SpouseNeverWorked:
		return rules.MinimumBenefit, domain.SpouseSourceMinimum
	default:
		return rules.MedianBenefit, domain.SpouseSourceMedian
	}
}
