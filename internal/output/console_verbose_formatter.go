package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	r := rounded(report)
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "DETAILED SWISS RETIREMENT INCOME ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := r.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, sim := range r.Simulations {
		res := sim.Result
		title := fmt.Sprintf("CLIENT %d: %s", i+1, sim.Client.DisplayName())
		fmt.Fprintln(&buf, title)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))

		writeProfile(&buf, res.Profile, res)
		writeStatePension(&buf, res)
		if res.Spouse != nil {
			writeHousehold(&buf, res.Spouse)
		}
		writeOccupational(&buf, res)
		writeScenarios(&buf, res.Scenarios)
		writeShortfall(&buf, res.Shortfall)

		fmt.Fprintln(&buf, "RETIREMENT INCOME:")
		fmt.Fprintln(&buf, "------------------")
		fmt.Fprintf(&buf, "  Monthly Total:           %s\n", FormatCurrency(res.TotalMonthly))
		fmt.Fprintf(&buf, "  Annual Total:            %s\n", FormatCurrency(res.TotalAnnual))
		fmt.Fprintf(&buf, "  State Pension Share:     %s\n", FormatPercentage(res.StateSharePercent))
		fmt.Fprintf(&buf, "  Occupational Share:      %s\n", FormatPercentage(res.OccupationalSharePercent))
		fmt.Fprintln(&buf)

		rec := AnalyzeScenarios(&res)
		if rec.ScenarioName != "" {
			fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
			fmt.Fprintln(&buf, "=========================")
			fmt.Fprintf(&buf, "Best scenario: %s\n", rec.ScenarioName)
			fmt.Fprintf(&buf, "Monthly Income Change: +%s (+%s)\n", FormatCurrency(rec.MonthlyChange), FormatPercentage(rec.PercentageChange))
			fmt.Fprintf(&buf, "Annual Change: +%s\n", FormatAnnualCurrency(rec.MonthlyChange))
			fmt.Fprintf(&buf, "Cost: %s\n", FormatCurrency(rec.Cost))
			fmt.Fprintln(&buf)
		}
		fmt.Fprintln(&buf)
	}

	return buf.Bytes(), nil
}

func writeProfile(buf *bytes.Buffer, p domain.PersonProfile, res domain.RetirementResult) {
	fmt.Fprintln(buf, "PROFILE:")
	fmt.Fprintf(buf, "  Age / Retirement Age:    %d / %d (%d years remaining)\n", p.CurrentAge, p.RetirementAge, res.YearsRemaining)
	fmt.Fprintf(buf, "  Gross Salary:            %s\n", FormatCurrency(p.CurrentSalary))
	fmt.Fprintf(buf, "  Average Income:          %s\n", FormatCurrency(p.AverageIncome))
	fmt.Fprintf(buf, "  Contribution Years:      %d (%d at retirement)\n", p.YearsContributed, res.YearsAtRetirement)
	if p.EducationCreditYears > 0 || p.AssistanceCreditYears > 0 {
		fmt.Fprintf(buf, "  Credit Years:            %d education, %d assistance\n", p.EducationCreditYears, p.AssistanceCreditYears)
	}
	fmt.Fprintf(buf, "  Marital Status:          %s\n", p.MaritalStatus)
	fmt.Fprintf(buf, "  Employment:              %s\n", strings.ReplaceAll(string(p.EmploymentStatus), "_", "-"))
	fmt.Fprintln(buf)
}

func writeStatePension(buf *bytes.Buffer, res domain.RetirementResult) {
	sp := res.StatePension
	fmt.Fprintln(buf, "STATE PENSION (1st pillar):")
	fmt.Fprintln(buf, "---------------------------")
	fmt.Fprintf(buf, "  Indexed Income:          %s\n", FormatCurrency(sp.IndexedIncome))
	if sp.Bonification.IsPositive() {
		fmt.Fprintf(buf, "  Bonification:            %s\n", FormatCurrency(sp.Bonification))
	}
	fmt.Fprintf(buf, "  Full-Career Benefit:     %s\n", FormatCurrency(sp.FullCareerBenefit))
	fmt.Fprintf(buf, "  Missing Years:           %d (reduction %s)\n", sp.MissingYears, FormatPercentage(sp.ReductionPercent()))
	fmt.Fprintf(buf, "  Own Benefit:             %s\n", FormatCurrency(sp.Benefit))
	fmt.Fprintf(buf, "  Payable Benefit:         %s\n", FormatCurrency(res.PayableStatePension))
	fmt.Fprintln(buf)
}

func writeHousehold(buf *bytes.Buffer, spouse *domain.SpouseResult) {
	household := spouse.Cap
	fmt.Fprintln(buf, "HOUSEHOLD:")
	fmt.Fprintln(buf, "----------")
	fmt.Fprintf(buf, "  Spouse Pension:          %s (%s)\n", FormatCurrency(spouse.Pension), strings.ReplaceAll(string(spouse.Source), "_", " "))
	fmt.Fprintf(buf, "  Couple Ceiling:          %s\n", FormatCurrency(household.Ceiling))
	fmt.Fprintf(buf, "  Combined Before Cap:     %s\n", FormatCurrency(household.TheoreticalTotal))
	if household.Capped {
		fmt.Fprintf(buf, "  Reduction Applied:       %s\n", FormatCurrency(household.Excess))
		cmpLine(buf, "  Own Pension", household.PrimaryBefore, household.PrimaryAfter)
		cmpLine(buf, "  Spouse Pension", household.SpouseBefore, household.SpouseAfter)
	} else {
		fmt.Fprintln(buf, "  Ceiling not reached, no reduction")
	}
	fmt.Fprintln(buf)
}

func writeOccupational(buf *bytes.Buffer, res domain.RetirementResult) {
	occ := res.Occupational
	fmt.Fprintln(buf, "OCCUPATIONAL PENSION (2nd pillar):")
	fmt.Fprintln(buf, "----------------------------------")
	switch res.CapitalSource {
	case domain.CapitalReconstructed:
		fmt.Fprintf(buf, "  Capital Source:          estimated (contributions since age %d)\n", res.Reconstruction.StartAge)
	case domain.CapitalNone:
		fmt.Fprintln(buf, "  Capital Source:          none (no mandatory affiliation)")
	default:
		fmt.Fprintln(buf, "  Capital Source:          declared")
	}
	fmt.Fprintf(buf, "  Initial Capital:         %s\n", FormatCurrency(occ.InitialCapital))
	fmt.Fprintf(buf, "  Coordinated Salary:      %s\n", FormatCurrency(occ.CoordinatedSalary))
	fmt.Fprintf(buf, "  Contributions:           %s\n", FormatCurrency(occ.TotalContributions))
	fmt.Fprintf(buf, "  Interest:                %s\n", FormatCurrency(occ.TotalInterest))
	fmt.Fprintf(buf, "  Capital at Retirement:   %s\n", FormatCurrency(occ.FinalCapital))
	fmt.Fprintf(buf, "  Monthly Annuity:         %s\n", FormatCurrency(occ.MonthlyAnnuity))
	fmt.Fprintln(buf)

	if len(occ.Steps) == 0 {
		return
	}
	fmt.Fprintln(buf, "CAPITAL PROJECTION:")
	fmt.Fprintf(buf, "  %-5s %15s %15s %7s %13s %11s %16s\n", "AGE", "SALARY", "COORDINATED", "RATE", "CONTRIBUTION", "INTEREST", "CAPITAL")
	fmt.Fprintln(buf, "  "+strings.Repeat("-", 88))
	for _, s := range occ.Steps {
		fmt.Fprintf(buf, "  %-5d %15s %15s %7s %13s %11s %16s\n", s.Age,
			FormatWholeCurrency(s.GrossSalary), FormatWholeCurrency(s.CoordinatedSalary), FormatRate(s.SavingsRate),
			FormatWholeCurrency(s.Contribution), FormatWholeCurrency(s.Interest), FormatWholeCurrency(s.CapitalEnd))
	}
	fmt.Fprintln(buf)
}

func writeScenarios(buf *bytes.Buffer, scenarios []domain.BuybackScenario) {
	fmt.Fprintln(buf, "OPTIMIZATION SCENARIOS:")
	fmt.Fprintf(buf, "%-35s %15s %15s %15s\n", "SCENARIO", "COST", "MONTHLY GAIN", "MONTHLY TOTAL")
	fmt.Fprintln(buf, strings.Repeat("-", 82))
	for _, s := range scenarios {
		name := s.Name
		if s.Recommended {
			name += " *"
		}
		fmt.Fprintf(buf, "%-35s %15s %15s %15s\n", name, FormatCurrency(s.TotalCost), FormatCurrency(s.MonthlyGain), FormatCurrency(s.ResultingMonthlyTotal))
		if s.Description != "" {
			fmt.Fprintf(buf, "    %s\n", s.Description)
		}
		if s.NetCost != nil && s.TaxSaving != nil {
			fmt.Fprintf(buf, "    Net cost %s after an estimated tax saving of %s\n", FormatCurrency(*s.NetCost), FormatCurrency(*s.TaxSaving))
		}
		if s.Kind != domain.ScenarioBaseline {
			fmt.Fprintf(buf, "    Gain over the horizon: %s\n", FormatCurrency(s.TwentyYearGain))
		}
	}
	fmt.Fprintln(buf, "(* recommended)")
	fmt.Fprintln(buf)
}

func writeShortfall(buf *bytes.Buffer, s domain.ShortfallAnalysis) {
	fmt.Fprintln(buf, "SHORTFALL ANALYSIS:")
	fmt.Fprintln(buf, "-------------------")
	cmpLine(buf, "  Monthly income (actual vs full career)", s.ReferenceMonthly, s.ActualMonthly)
	fmt.Fprintf(buf, "  Monthly Shortfall:       %s\n", FormatCurrency(s.MonthlyShortfall))
	fmt.Fprintf(buf, "  Annual Shortfall:        %s\n", FormatCurrency(s.AnnualShortfall))
	fmt.Fprintf(buf, "  Shortfall over 20 Years: %s\n", FormatCurrency(s.TwentyYearShortfall))
	if s.BuyableYears > 0 {
		fmt.Fprintf(buf, "  Recoverable (%d years):   %s, tax saving about %s\n", s.BuyableYears, FormatCurrency(s.RecoverableAmount), FormatCurrency(s.TaxSavingEstimate))
	}
	fmt.Fprintln(buf)
}

func cmpLine(buf *bytes.Buffer, label string, before, after decimal.Decimal) {
	diff := after.Sub(before)
	fmt.Fprintf(buf, "%-40s %15s %15s %15s\n", label, FormatCurrency(before), FormatCurrency(after), FormatCurrency(diff))
}
