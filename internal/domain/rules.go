package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// LegalRules gathers every legal constant the engine reads. It is a plain value:
// callers copy it into each calculator, so alternate legal years can be tested side by side.
type LegalRules struct {
	Year         int                      `yaml:"year" json:"year"`
	StatePension StatePensionRules        `yaml:"state_pension" json:"state_pension"`
	Occupational OccupationalPensionRules `yaml:"occupational" json:"occupational"`
	Scenario     ScenarioRules            `yaml:"scenario" json:"scenario"`
}

// StatePensionRules contains the first-pillar scale (monthly amounts, scale 44)
type StatePensionRules struct {
	MaximumBenefit           decimal.Decimal `yaml:"maximum_benefit" json:"maximum_benefit"`                       // Default: 2520
	MinimumBenefit           decimal.Decimal `yaml:"minimum_benefit" json:"minimum_benefit"`                       // Default: 1260
	MedianBenefit            decimal.Decimal `yaml:"median_benefit" json:"median_benefit"`                         // Default: 1890 (published median, unknown spouse)
	IncomeCeiling            decimal.Decimal `yaml:"income_ceiling" json:"income_ceiling"`                         // Default: 90720 (annual income earning the maximum)
	IndexedIncomeCapFactor   decimal.Decimal `yaml:"indexed_income_cap_factor" json:"indexed_income_cap_factor"`   // Default: 1.5
	LowIncomeDivisor         decimal.Decimal `yaml:"low_income_divisor" json:"low_income_divisor"`                 // Default: 3 (minimum benefit up to ceiling/3)
	FullCareerYears          int             `yaml:"full_career_years" json:"full_career_years"`                   // Default: 44
	PenaltyPerMissingYear    decimal.Decimal `yaml:"penalty_per_missing_year" json:"penalty_per_missing_year"`     // Default: 0.0227
	AnnualBonificationCredit decimal.Decimal `yaml:"annual_bonification_credit" json:"annual_bonification_credit"` // Default: 45360 (3 x minimum x 12)
	CoupleCeiling            decimal.Decimal `yaml:"couple_ceiling" json:"couple_ceiling"`                         // Default: 3780 (150% of maximum)
}

// SavingsBracket is one row of the age-based savings credit table
type SavingsBracket struct {
	FromAge int             `yaml:"from_age" json:"from_age"`
	Rate    decimal.Decimal `yaml:"rate" json:"rate"`
}

// OccupationalPensionRules contains the second-pillar (mandatory part) parameters
type OccupationalPensionRules struct {
	EntryThreshold        decimal.Decimal  `yaml:"entry_threshold" json:"entry_threshold"`                           // Default: 22680
	InsuredSalaryCeiling  decimal.Decimal  `yaml:"insured_salary_ceiling" json:"insured_salary_ceiling"`             // Default: 88200
	CoordinationDeduction decimal.Decimal  `yaml:"coordination_deduction" json:"coordination_deduction"`             // Default: 26460
	ConversionRate        decimal.Decimal  `yaml:"conversion_rate" json:"conversion_rate"`                           // Default: 0.068
	InterestRate          decimal.Decimal  `yaml:"interest_rate" json:"interest_rate"`                               // Default: 0.01
	SalaryGrowthRate      decimal.Decimal  `yaml:"salary_growth_rate" json:"salary_growth_rate"`                     // Default: 0.005
	EntryAge              int              `yaml:"entry_age" json:"entry_age"`                                       // Default: 25
	SavingsBrackets       []SavingsBracket `yaml:"savings_brackets" json:"savings_brackets"`                         // Default: 25/7%, 35/10%, 45/15%, 55/18%
	ReconstructionRate    decimal.Decimal  `yaml:"reconstruction_interest_rate" json:"reconstruction_interest_rate"` // Default: 0.0
	ReconstructionGrowth  decimal.Decimal  `yaml:"reconstruction_salary_growth" json:"reconstruction_salary_growth"` // Default: 0.005
	ReferenceAnnuity      decimal.Decimal  `yaml:"reference_annuity" json:"reference_annuity"`                       // Default: 1500 (monthly, self-employed shortfall reference)
}

// ScenarioRules contains the buy-back heuristics
type ScenarioRules struct {
	MinYearsForBuyback       int             `yaml:"min_years_for_buyback" json:"min_years_for_buyback"`             // Default: 3
	VoluntaryRate            decimal.Decimal `yaml:"voluntary_rate" json:"voluntary_rate"`                           // Default: 0.18
	BuybackYearsCap          int             `yaml:"buyback_years_cap" json:"buyback_years_cap"`                     // Default: 10
	BuybackSpreadYearsCap    int             `yaml:"buyback_spread_years_cap" json:"buyback_spread_years_cap"`       // Default: 5
	TaxSavingRate            decimal.Decimal `yaml:"tax_saving_rate" json:"tax_saving_rate"`                         // Default: 0.25
	StateGapMaxYears         int             `yaml:"state_gap_max_years" json:"state_gap_max_years"`                 // Default: 5
	StateGapCostPerYear      decimal.Decimal `yaml:"state_gap_cost_per_year" json:"state_gap_cost_per_year"`         // Default: 10500
	StateGapRecommendedYears int             `yaml:"state_gap_recommended_years" json:"state_gap_recommended_years"` // Default: 3
	GainHorizonYears         int             `yaml:"gain_horizon_years" json:"gain_horizon_years"`                   // Default: 20
}

// DefaultLegalRules returns the 2025 legal figures
func DefaultLegalRules() LegalRules {
	return LegalRules{
		Year: 2025,
		StatePension: StatePensionRules{
			MaximumBenefit:           decimal.NewFromInt(2520),
			MinimumBenefit:           decimal.NewFromInt(1260),
			MedianBenefit:            decimal.NewFromInt(1890),
			IncomeCeiling:            decimal.NewFromInt(90720),
			IndexedIncomeCapFactor:   decimal.NewFromFloat(1.5),
			LowIncomeDivisor:         decimal.NewFromInt(3),
			FullCareerYears:          44,
			PenaltyPerMissingYear:    decimal.NewFromFloat(0.0227),
			AnnualBonificationCredit: decimal.NewFromInt(45360),
			CoupleCeiling:            decimal.NewFromInt(3780),
		},
		Occupational: OccupationalPensionRules{
			EntryThreshold:        decimal.NewFromInt(22680),
			InsuredSalaryCeiling:  decimal.NewFromInt(88200),
			CoordinationDeduction: decimal.NewFromInt(26460),
			ConversionRate:        decimal.NewFromFloat(0.068),
			InterestRate:          decimal.NewFromFloat(0.01),
			SalaryGrowthRate:      decimal.NewFromFloat(0.005),
			EntryAge:              25,
			SavingsBrackets: []SavingsBracket{
				{FromAge: 25, Rate: decimal.NewFromFloat(0.07)},
				{FromAge: 35, Rate: decimal.NewFromFloat(0.10)},
				{FromAge: 45, Rate: decimal.NewFromFloat(0.15)},
				{FromAge: 55, Rate: decimal.NewFromFloat(0.18)},
			},
			ReconstructionRate:   decimal.Zero,
			ReconstructionGrowth: decimal.NewFromFloat(0.005),
			ReferenceAnnuity:     decimal.NewFromInt(1500),
		},
		Scenario: ScenarioRules{
			MinYearsForBuyback:       3,
			VoluntaryRate:            decimal.NewFromFloat(0.18),
			BuybackYearsCap:          10,
			BuybackSpreadYearsCap:    5,
			TaxSavingRate:            decimal.NewFromFloat(0.25),
			StateGapMaxYears:         5,
			StateGapCostPerYear:      decimal.NewFromInt(10500),
			StateGapRecommendedYears: 3,
			GainHorizonYears:         20,
		},
	}
}

// Clone returns a deep copy so that callers never share the bracket slice
func (r LegalRules) Clone() LegalRules {
	out := r
	out.Occupational.SavingsBrackets = append([]SavingsBracket(nil), r.Occupational.SavingsBrackets...)
	return out
}

// SortedBrackets returns the savings brackets ordered by start age
func (o OccupationalPensionRules) SortedBrackets() []SavingsBracket {
	brackets := append([]SavingsBracket(nil), o.SavingsBrackets...)
	sort.Slice(brackets, func(i, j int) bool { return brackets[i].FromAge < brackets[j].FromAge })
	return brackets
}

// Validate checks the internal consistency of a rule set loaded from a file
func (r LegalRules) Validate() error {
	sp := r.StatePension
	if sp.FullCareerYears <= 0 {
		return fmt.Errorf("full career years must be positive")
	}
	if !sp.IncomeCeiling.IsPositive() {
		return fmt.Errorf("income ceiling must be positive")
	}
	if !sp.LowIncomeDivisor.IsPositive() {
		return fmt.Errorf("low income divisor must be positive")
	}
	if sp.MinimumBenefit.IsNegative() || sp.MinimumBenefit.GreaterThan(sp.MaximumBenefit) {
		return fmt.Errorf("minimum benefit must be between 0 and the maximum benefit")
	}
	if !sp.CoupleCeiling.IsPositive() {
		return fmt.Errorf("couple ceiling must be positive")
	}
	if sp.PenaltyPerMissingYear.IsNegative() {
		return fmt.Errorf("penalty per missing year cannot be negative")
	}

	op := r.Occupational
	if op.InsuredSalaryCeiling.LessThan(op.EntryThreshold) {
		return fmt.Errorf("insured salary ceiling cannot be below the entry threshold")
	}
	if op.ConversionRate.IsNegative() || op.ConversionRate.GreaterThan(decimal.NewFromFloat(0.2)) {
		return fmt.Errorf("conversion rate must be between 0 and 20%%")
	}
	if len(op.SavingsBrackets) == 0 {
		return fmt.Errorf("at least one savings bracket is required")
	}
	prev := decimal.Zero
	for i, b := range op.SortedBrackets() {
		if b.FromAge < op.EntryAge {
			return fmt.Errorf("savings bracket %d starts before the entry age", i)
		}
		if b.Rate.LessThan(prev) {
			return fmt.Errorf("savings bracket rates must be non-decreasing with age")
		}
		prev = b.Rate
	}

	if r.Scenario.GainHorizonYears <= 0 {
		return fmt.Errorf("gain horizon must be positive")
	}
	return nil
}
