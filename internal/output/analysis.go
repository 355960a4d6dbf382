package output

import (
	"sort"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best buy-back scenario.
type Recommendation struct {
	ScenarioName     string
	Kind             domain.ScenarioKind
	ResultingMonthly decimal.Decimal
	MonthlyChange    decimal.Decimal
	PercentageChange decimal.Decimal
	Cost             decimal.Decimal
}

// AnalyzeScenarios picks the recommended scenario with the highest resulting monthly
// income. Ties go to the cheaper scenario. An empty Recommendation means none is recommended.
func AnalyzeScenarios(result *domain.RetirementResult) Recommendation {
	candidates := result.RecommendedScenarios()
	if len(candidates) == 0 {
		return Recommendation{}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.ResultingMonthlyTotal.Equal(b.ResultingMonthlyTotal) {
			return a.ResultingMonthlyTotal.GreaterThan(b.ResultingMonthlyTotal)
		}
		return effectiveCost(a).LessThan(effectiveCost(b))
	})

	best := candidates[0]
	baseline := result.TotalMonthly
	delta := best.ResultingMonthlyTotal.Sub(baseline)
	pct := decimal.Zero
	if !baseline.IsZero() {
		pct = delta.Div(baseline).Mul(decimalHundred)
	}
	return Recommendation{
		ScenarioName:     best.Name,
		Kind:             best.Kind,
		ResultingMonthly: best.ResultingMonthlyTotal,
		MonthlyChange:    delta,
		PercentageChange: pct,
		Cost:             effectiveCost(best),
	}
}

// effectiveCost is the net cost when a tax saving applies, else the total cost
func effectiveCost(s domain.BuybackScenario) decimal.Decimal {
	if s.NetCost != nil {
		return *s.NetCost
	}
	return s.TotalCost
}
