package output

import (
	"fmt"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs
// when a report carries none.
var DefaultAssumptions = GenerateAssumptions(domain.DefaultLegalRules())

// GenerateAssumptions creates the assumptions list from the legal rules in force
func GenerateAssumptions(rules domain.LegalRules) []string {
	sp := rules.StatePension
	op := rules.Occupational
	sc := rules.Scenario
	return []string{
		fmt.Sprintf("Legal figures: %d", rules.Year),
		fmt.Sprintf("State pension: %s to %s per month, full career %d years, %s reduction per missing year",
			FormatWholeCurrency(sp.MinimumBenefit), FormatWholeCurrency(sp.MaximumBenefit), sp.FullCareerYears, FormatRate(sp.PenaltyPerMissingYear)),
		fmt.Sprintf("Married couples: combined state pensions capped at %s per month", FormatWholeCurrency(sp.CoupleCeiling)),
		fmt.Sprintf("Occupational pension: coordination deduction %s, insured salary up to %s",
			FormatWholeCurrency(op.CoordinationDeduction), FormatWholeCurrency(op.InsuredSalaryCeiling)),
		fmt.Sprintf("Occupational capital: %s credited interest, %s salary growth, %s conversion rate",
			FormatRate(op.InterestRate), FormatRate(op.SalaryGrowthRate), FormatRate(op.ConversionRate)),
		fmt.Sprintf("Buy-back tax saving estimated at %s of the amount paid", FormatRate(sc.TaxSavingRate)),
		fmt.Sprintf("Long-term gains measured over %d years", sc.GainHorizonYears),
		"Amounts are nominal (no inflation adjustment) and before tax",
	}
}

var decimalHundred = decimal.NewFromInt(100)
