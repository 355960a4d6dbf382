package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatePensionResult represents one person's first-pillar benefit calculation
type StatePensionResult struct {
	Benefit           decimal.Decimal `json:"benefit"`
	FullCareerBenefit decimal.Decimal `json:"full_career_benefit"`
	IndexedIncome     decimal.Decimal `json:"indexed_income"`
	MissingYears      int             `json:"missing_years"`
	ReductionRate     decimal.Decimal `json:"reduction_rate"`
	Bonification      decimal.Decimal `json:"bonification"`
	YearsContributed  int             `json:"years_contributed"`
}

// ReductionPercent returns the reduction rate as a percentage for display
func (r StatePensionResult) ReductionPercent() decimal.Decimal {
	return r.ReductionRate.Mul(decimal.NewFromInt(100))
}

// OccupationalProjectionStep represents one year of the occupational capital projection
type OccupationalProjectionStep struct {
	Age               int             `json:"age"`
	GrossSalary       decimal.Decimal `json:"gross_salary"`
	CoordinatedSalary decimal.Decimal `json:"coordinated_salary"`
	SavingsRate       decimal.Decimal `json:"savings_rate"`
	Contribution      decimal.Decimal `json:"contribution"`
	Interest          decimal.Decimal `json:"interest"`
	CapitalStart      decimal.Decimal `json:"capital_start"`
	CapitalEnd        decimal.Decimal `json:"capital_end"`
}

// OccupationalPensionResult summarizes a projection up to retirement
type OccupationalPensionResult struct {
	InitialCapital     decimal.Decimal              `json:"initial_capital"`
	FinalCapital       decimal.Decimal              `json:"final_capital"`
	MonthlyAnnuity     decimal.Decimal              `json:"monthly_annuity"`
	Steps              []OccupationalProjectionStep `json:"steps"`
	TotalContributions decimal.Decimal              `json:"total_contributions"`
	TotalInterest      decimal.Decimal              `json:"total_interest"`
	CoordinatedSalary  decimal.Decimal              `json:"coordinated_salary"`
}

// CapitalReconstruction is the back-projected estimate of an unknown occupational balance
type CapitalReconstruction struct {
	StartAge       int                          `json:"start_age"`
	StartingSalary decimal.Decimal              `json:"starting_salary"`
	Capital        decimal.Decimal              `json:"capital"`
	Steps          []OccupationalProjectionStep `json:"steps"`
}

// HouseholdCapResult holds both spouses' state pensions before and after the couple ceiling
type HouseholdCapResult struct {
	PrimaryBefore    decimal.Decimal `json:"primary_before"`
	SpouseBefore     decimal.Decimal `json:"spouse_before"`
	PrimaryAfter     decimal.Decimal `json:"primary_after"`
	SpouseAfter      decimal.Decimal `json:"spouse_after"`
	Capped           bool            `json:"capped"`
	Excess           decimal.Decimal `json:"excess"`
	Ceiling          decimal.Decimal `json:"ceiling"`
	TheoreticalTotal decimal.Decimal `json:"theoretical_total"`
}

// SpousePensionSource records how the spouse's state pension was obtained
type SpousePensionSource string

const (
	SpouseSourceDeclared SpousePensionSource = "declared"
	SpouseSourceMinimum  SpousePensionSource = "legal_minimum"
	SpouseSourceMedian   SpousePensionSource = "published_median"
)

// SpouseResult is the married-couple part of a retirement result
type SpouseResult struct {
	Pension decimal.Decimal     `json:"pension"`
	Source  SpousePensionSource `json:"source"`
	Cap     HouseholdCapResult  `json:"cap"`
}

// ScenarioKind identifies a buy-back scenario independently of its display name
type ScenarioKind string

const (
	ScenarioBaseline            ScenarioKind = "baseline"
	ScenarioOccupationalBuyback ScenarioKind = "occupational_buyback"
	ScenarioStateGapFill        ScenarioKind = "state_gap_fill"
)

// BuybackScenario is one advisory option; NetCost and TaxSaving are nil when not applicable
type BuybackScenario struct {
	Kind                  ScenarioKind     `json:"kind"`
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	TotalCost             decimal.Decimal  `json:"total_cost"`
	NetCost               *decimal.Decimal `json:"net_cost,omitempty"`
	TaxSaving             *decimal.Decimal `json:"tax_saving,omitempty"`
	MonthlyGain           decimal.Decimal  `json:"monthly_gain"`
	AnnualGain            decimal.Decimal  `json:"annual_gain"`
	TwentyYearGain        decimal.Decimal  `json:"twenty_year_gain"`
	ResultingMonthlyTotal decimal.Decimal  `json:"resulting_monthly_total"`
	Recommended           bool             `json:"recommended"`
}

// ShortfallAnalysis compares the projected income with a full-career reference
type ShortfallAnalysis struct {
	ReferenceMonthly    decimal.Decimal `json:"reference_monthly"`
	ActualMonthly       decimal.Decimal `json:"actual_monthly"`
	MonthlyShortfall    decimal.Decimal `json:"monthly_shortfall"`
	AnnualShortfall     decimal.Decimal `json:"annual_shortfall"`
	TwentyYearShortfall decimal.Decimal `json:"twenty_year_shortfall"`
	BuyableYears        int             `json:"buyable_years"`
	RecoverableAmount   decimal.Decimal `json:"recoverable_amount"`
	TaxSavingEstimate   decimal.Decimal `json:"tax_saving_estimate"`
}

// CapitalSource records where the starting occupational capital came from
type CapitalSource string

const (
	CapitalDeclared      CapitalSource = "declared"
	CapitalReconstructed CapitalSource = "reconstructed"
	CapitalNone          CapitalSource = "none"
)

// RetirementResult is the aggregated output of one simulation
type RetirementResult struct {
	Profile             PersonProfile             `json:"profile"`
	StatePension        StatePensionResult        `json:"state_pension"`
	PayableStatePension decimal.Decimal           `json:"payable_state_pension"`
	Occupational        OccupationalPensionResult `json:"occupational"`
	CapitalSource       CapitalSource             `json:"capital_source"`
	Reconstruction      *CapitalReconstruction    `json:"reconstruction,omitempty"`
	Spouse              *SpouseResult             `json:"spouse,omitempty"`
	Scenarios           []BuybackScenario         `json:"scenarios"`
	Shortfall           ShortfallAnalysis         `json:"shortfall"`

	// Totals
	YearsRemaining           int             `json:"years_remaining"`
	YearsAtRetirement        int             `json:"years_at_retirement"`
	TotalMonthly             decimal.Decimal `json:"total_monthly"`
	TotalAnnual              decimal.Decimal `json:"total_annual"`
	StateSharePercent        decimal.Decimal `json:"state_share_percent"`
	OccupationalSharePercent decimal.Decimal `json:"occupational_share_percent"`
}

// RecommendedScenarios returns the scenarios flagged as recommended, in order
func (r *RetirementResult) RecommendedScenarios() []BuybackScenario {
	var out []BuybackScenario
	for _, s := range r.Scenarios {
		if s.Recommended {
			out = append(out, s)
		}
	}
	return out
}

// Simulation pairs a client with the result computed for them
type Simulation struct {
	ID        string           `json:"id,omitempty"`
	Client    Client           `json:"client"`
	Result    RetirementResult `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
}

// SimulationReport is the document handed to the output formatters
type SimulationReport struct {
	RulesYear   int          `json:"rules_year"`
	GeneratedAt time.Time    `json:"generated_at"`
	Assumptions []string     `json:"assumptions,omitempty"`
	Simulations []Simulation `json:"simulations"`
}

// Rounded returns a copy of the report with every result rounded to places
func (r SimulationReport) Rounded(places int32) SimulationReport {
	out := r
	out.Assumptions = append([]string(nil), r.Assumptions...)
	out.Simulations = make([]Simulation, len(r.Simulations))
	for i, s := range r.Simulations {
		s.Result = s.Result.Rounded(places)
		out.Simulations[i] = s
	}
	return out
}
