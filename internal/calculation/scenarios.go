package calculation

import (
	"fmt"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildBuybackScenarios derives the advisory scenarios for a projected situation. The
// state result must carry the payable (post-cap) benefit. The baseline is always first,
// followed by the occupational buy-back and the state gap fill when they apply.
func BuildBuybackScenarios(rules domain.LegalRules, state domain.StatePensionResult, occupational domain.OccupationalPensionResult, yearsRemaining int) []domain.BuybackScenario {
	sc := rules.Scenario
	baselineTotal := state.Benefit.Add(occupational.MonthlyAnnuity)

	scenarios := []domain.BuybackScenario{{
		Kind:                  domain.ScenarioBaseline,
		Name:                  "No buy-back",
		Description:           "Current situation projected to retirement",
		TotalCost:             decimal.Zero,
		MonthlyGain:           decimal.Zero,
		AnnualGain:            decimal.Zero,
		TwentyYearGain:        decimal.Zero,
		ResultingMonthlyTotal: baselineTotal,
	}}

	if occupational.CoordinatedSalary.IsPositive() && yearsRemaining >= sc.MinYearsForBuyback {
		years := minInt(yearsRemaining, sc.BuybackYearsCap)
		capital := occupational.CoordinatedSalary.Mul(sc.VoluntaryRate).Mul(decimal.NewFromInt(int64(years)))
		monthlyGain := MonthlyAnnuity(rules.Occupational, capital)
		taxSaving := capital.Mul(sc.TaxSavingRate)
		netCost := capital.Sub(taxSaving)

		s := newScenario(domain.ScenarioOccupationalBuyback, "Occupational buy-back",
			fmt.Sprintf("Buy-back spread over %d years", minInt(yearsRemaining, sc.BuybackSpreadYearsCap)),
			capital, monthlyGain, baselineTotal, sc.GainHorizonYears)
		s.NetCost = &netCost
		s.TaxSaving = &taxSaving
		s.Recommended = true
		scenarios = append(scenarios, s)
	}

	if state.MissingYears > 0 && state.MissingYears <= sc.StateGapMaxYears {
		missing := decimal.NewFromInt(int64(state.MissingYears))
		cost := missing.Mul(sc.StateGapCostPerYear)
		monthlyGain := missing.Mul(rules.StatePension.MaximumBenefit.Mul(rules.StatePension.PenaltyPerMissingYear))

		s := newScenario(domain.ScenarioStateGapFill, "Fill state pension gaps",
			fmt.Sprintf("Buy back %d missing contribution year(s)", state.MissingYears),
			cost, monthlyGain, baselineTotal, sc.GainHorizonYears)
		s.Recommended = state.MissingYears >= sc.StateGapRecommendedYears
		scenarios = append(scenarios, s)
	}

	return scenarios
}

func newScenario(kind domain.ScenarioKind, name, description string, cost, monthlyGain, baselineTotal decimal.Decimal, horizonYears int) domain.BuybackScenario {
	annual := monthlyGain.Mul(monthsPerYear)
	return domain.BuybackScenario{
		Kind:                  kind,
		Name:                  name,
		Description:           description,
		TotalCost:             cost,
		MonthlyGain:           monthlyGain,
		AnnualGain:            annual,
		TwentyYearGain:        annual.Mul(decimal.NewFromInt(int64(horizonYears))),
		ResultingMonthlyTotal: baselineTotal.Add(monthlyGain),
	}
}
