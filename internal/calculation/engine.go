package calculation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CalculationEngine orchestrates the state pension, occupational projection, household cap
// and scenario calculations for one profile.
type CalculationEngine struct {
	Rules  domain.LegalRules
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine using the current legal figures
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithRules(domain.DefaultLegalRules())
}

// NewCalculationEngineWithRules creates a new calculation engine bound to a rule set.
// The rules are copied; later changes by the caller do not affect the engine.
func NewCalculationEngineWithRules(rules domain.LegalRules) *CalculationEngine {
	return &CalculationEngine{
		Rules:  rules.Clone(),
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Calculate computes the complete retirement picture for a profile. The only error it
// returns is the context's, when it is already done.
func (ce *CalculationEngine) Calculate(ctx context.Context, profile domain.PersonProfile) (*domain.RetirementResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rules := ce.Rules

	yearsRemaining := profile.YearsRemaining()
	yearsAtRetirement := profile.YearsAtRetirement()

	state := CalculateStatePension(rules.StatePension, profile.AverageIncome, yearsAtRetirement,
		profile.EducationCreditYears, profile.AssistanceCreditYears)
	ce.Logger.Debugf("state pension: indexed income %s, full career %s, benefit %s (%d missing years)",
		state.IndexedIncome.StringFixed(2), state.FullCareerBenefit.StringFixed(2), state.Benefit.StringFixed(2), state.MissingYears)

	result := &domain.RetirementResult{
		Profile:             profile,
		StatePension:        state,
		PayableStatePension: state.Benefit,
		YearsRemaining:      yearsRemaining,
		YearsAtRetirement:   yearsAtRetirement,
	}

	initialCapital := ce.resolveCapital(profile, result)

	// No mandatory contributions for the self-employed; the balance only earns interest
	salary := profile.CurrentSalary
	if profile.IsSelfEmployed() {
		salary = decimal.Zero
	}
	result.Occupational = ProjectOccupationalCapital(rules.Occupational, profile.CurrentAge, profile.RetirementAge,
		initialCapital, salary, rules.Occupational.SalaryGrowthRate)
	ce.Logger.Debugf("occupational projection: %d steps, final capital %s, annuity %s",
		len(result.Occupational.Steps), result.Occupational.FinalCapital.StringFixed(2), result.Occupational.MonthlyAnnuity.StringFixed(2))

	if profile.IsMarried() {
		pension, source := ResolveSpousePension(rules.StatePension, profile.SpouseAwareness, profile.SpousePension)
		household := ApplyHouseholdCap(rules.StatePension, state.Benefit, pension)
		result.Spouse = &domain.SpouseResult{Pension: pension, Source: source, Cap: household}
		result.PayableStatePension = household.PrimaryAfter
		if household.Capped {
			ce.Logger.Infof("couple ceiling applied: excess %s removed", household.Excess.StringFixed(2))
		}
	}

	payable := state
	payable.Benefit = result.PayableStatePension
	result.Scenarios = BuildBuybackScenarios(rules, payable, result.Occupational, yearsRemaining)
	result.Shortfall = AnalyzeShortfall(rules, profile, state, result.PayableStatePension, result.Occupational)

	result.TotalMonthly = result.PayableStatePension.Add(result.Occupational.MonthlyAnnuity)
	result.TotalAnnual = result.TotalMonthly.Mul(monthsPerYear)
	if result.TotalMonthly.IsPositive() {
		hundred := decimal.NewFromInt(100)
		result.StateSharePercent = result.PayableStatePension.Div(result.TotalMonthly).Mul(hundred)
		result.OccupationalSharePercent = result.Occupational.MonthlyAnnuity.Div(result.TotalMonthly).Mul(hundred)
	} else {
		result.StateSharePercent = decimal.Zero
		result.OccupationalSharePercent = decimal.Zero
	}

	return result, nil
}

// resolveCapital picks the starting occupational balance and records where it came from
func (ce *CalculationEngine) resolveCapital(profile domain.PersonProfile, result *domain.RetirementResult) decimal.Decimal {
	switch {
	case profile.OccupationalCapital != nil:
		result.CapitalSource = domain.CapitalDeclared
		if profile.OccupationalCapital.IsNegative() {
			return decimal.Zero
		}
		return *profile.OccupationalCapital
	case profile.IsSelfEmployed():
		result.CapitalSource = domain.CapitalNone
		return decimal.Zero
	default:
		rec := ReconstructOccupationalCapital(ce.Rules.Occupational, profile.CurrentAge, profile.CurrentSalary, profile.YearsContributed)
		result.CapitalSource = domain.CapitalReconstructed
		result.Reconstruction = &rec
		ce.Logger.Debugf("occupational capital unknown, reconstructed %s from age %d", rec.Capital.StringFixed(2), rec.StartAge)
		return rec.Capital
	}
}

// CalculateBatch runs Calculate for every client concurrently. Results keep the input
// order; the first error (a cancelled context) aborts the batch.
func (ce *CalculationEngine) CalculateBatch(ctx context.Context, clients []domain.ClientProfile) ([]domain.Simulation, error) {
	sims := make([]domain.Simulation, len(clients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, cp := range clients {
		i, cp := i, cp
		g.Go(func() error {
			res, err := ce.Calculate(gctx, cp.Profile)
			if err != nil {
				return fmt.Errorf("client %d (%s): %w", i, cp.Client.DisplayName(), err)
			}
			sims[i] = domain.Simulation{Client: cp.Client, Result: *res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ce.Logger.Infof("calculated %d simulations", len(sims))
	return sims, nil
}
