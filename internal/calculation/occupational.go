package calculation

import (
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// accumulation is the raw outcome of the year-by-year capital loop
type accumulation struct {
	capital       decimal.Decimal
	steps         []domain.OccupationalProjectionStep
	contributions decimal.Decimal
	interest      decimal.Decimal
}

// accumulate runs the savings loop for every age in [fromAge, toAge). Interest is credited
// on the opening balance only; the year's contribution earns nothing until the next year.
func accumulate(rules domain.OccupationalPensionRules, fromAge, toAge int, capital, salary, growth, interestRate decimal.Decimal) accumulation {
	acc := accumulation{
		capital:       capital,
		contributions: decimal.Zero,
		interest:      decimal.Zero,
	}
	if toAge <= fromAge {
		return acc
	}

	acc.steps = make([]domain.OccupationalProjectionStep, 0, toAge-fromAge)
	growthFactor := decimal.NewFromInt(1).Add(growth)
	for age := fromAge; age < toAge; age++ {
		rate := SavingsRateForAge(rules, age)
		coordinated := CoordinatedSalary(rules, salary)
		contribution := coordinated.Mul(rate)
		interest := acc.capital.Mul(interestRate)
		end := acc.capital.Add(contribution).Add(interest)

		acc.steps = append(acc.steps, domain.OccupationalProjectionStep{
			Age:               age,
			GrossSalary:       salary,
			CoordinatedSalary: coordinated,
			SavingsRate:       rate,
			Contribution:      contribution,
			Interest:          interest,
			CapitalStart:      acc.capital,
			CapitalEnd:        end,
		})

		acc.contributions = acc.contributions.Add(contribution)
		acc.interest = acc.interest.Add(interest)
		acc.capital = end
		salary = salary.Mul(growthFactor)
	}
	return acc
}

// ProjectOccupationalCapital projects the occupational capital from the current age to
// retirement and converts the final balance into a monthly annuity. A retirement age at or
// below the current age yields no steps and leaves the capital unchanged.
func ProjectOccupationalCapital(rules domain.OccupationalPensionRules, currentAge, retirementAge int, initialCapital, initialSalary, salaryGrowth decimal.Decimal) domain.OccupationalPensionResult {
	acc := accumulate(rules, currentAge, retirementAge, initialCapital, initialSalary, salaryGrowth, rules.InterestRate)

	return domain.OccupationalPensionResult{
		InitialCapital:     initialCapital,
		FinalCapital:       acc.capital,
		MonthlyAnnuity:     MonthlyAnnuity(rules, acc.capital),
		Steps:              acc.steps,
		TotalContributions: acc.contributions,
		TotalInterest:      acc.interest,
		CoordinatedSalary:  CoordinatedSalary(rules, initialSalary),
	}
}

// MonthlyAnnuity converts a capital into a monthly pension with the legal conversion rate
func MonthlyAnnuity(rules domain.OccupationalPensionRules, capital decimal.Decimal) decimal.Decimal {
	return capital.Mul(rules.ConversionRate).Div(monthsPerYear)
}

// ReconstructOccupationalCapital estimates an unknown current balance. Contributions are
// assumed to have started at max(entry age, current age - years contributed) on a salary
// deflated from today's by the reconstruction growth rate, with legal minimum savings rates
// and the reconstruction interest rate. The result is a lower bound.
func ReconstructOccupationalCapital(rules domain.OccupationalPensionRules, currentAge int, currentSalary decimal.Decimal, yearsContributed int) domain.CapitalReconstruction {
	if yearsContributed < 0 {
		yearsContributed = 0
	}
	startAge := currentAge - yearsContributed
	if startAge < rules.EntryAge {
		startAge = rules.EntryAge
	}
	if currentAge <= startAge {
		return domain.CapitalReconstruction{
			StartAge:       startAge,
			StartingSalary: currentSalary,
			Capital:        decimal.Zero,
		}
	}

	growth := rules.ReconstructionGrowth
	growthFactor := decimal.NewFromInt(1).Add(growth)
	if !growthFactor.IsPositive() {
		growth = decimal.Zero
		growthFactor = decimal.NewFromInt(1)
	}
	years := int64(currentAge - startAge)
	startingSalary := currentSalary.Div(growthFactor.Pow(decimal.NewFromInt(years)))

	acc := accumulate(rules, startAge, currentAge, decimal.Zero, startingSalary, growth, rules.ReconstructionRate)
	return domain.CapitalReconstruction{
		StartAge:       startAge,
		StartingSalary: startingSalary,
		Capital:        acc.capital,
		Steps:          acc.steps,
	}
}
