package domain

import "github.com/shopspring/decimal"

// rateDecimals is the precision kept for rates when a result is rounded for display
const rateDecimals = 4

// Rounded returns a deep copy of the result with every amount rounded to places
// decimals. Calculations always run at full precision; this is only applied where a
// result leaves the process (reports, API responses, stored records).
func (r RetirementResult) Rounded(places int32) RetirementResult {
	out := r
	out.Profile = r.Profile.rounded(places)
	out.StatePension = r.StatePension.rounded(places)
	out.PayableStatePension = r.PayableStatePension.Round(places)
	out.Occupational = r.Occupational.rounded(places)
	if r.Reconstruction != nil {
		rec := *r.Reconstruction
		rec.StartingSalary = rec.StartingSalary.Round(places)
		rec.Capital = rec.Capital.Round(places)
		rec.Steps = roundSteps(rec.Steps, places)
		out.Reconstruction = &rec
	}
	if r.Spouse != nil {
		sp := *r.Spouse
		sp.Pension = sp.Pension.Round(places)
		sp.Cap = sp.Cap.rounded(places)
		out.Spouse = &sp
	}
	if r.Scenarios != nil {
		out.Scenarios = make([]BuybackScenario, len(r.Scenarios))
		for i, s := range r.Scenarios {
			out.Scenarios[i] = s.rounded(places)
		}
	}
	out.Shortfall = r.Shortfall.rounded(places)
	out.TotalMonthly = r.TotalMonthly.Round(places)
	out.TotalAnnual = r.TotalAnnual.Round(places)
	out.StateSharePercent = r.StateSharePercent.Round(1)
	out.OccupationalSharePercent = r.OccupationalSharePercent.Round(1)
	return out
}

func (p PersonProfile) rounded(places int32) PersonProfile {
	out := p
	out.CurrentSalary = p.CurrentSalary.Round(places)
	out.AverageIncome = p.AverageIncome.Round(places)
	out.OccupationalCapital = roundPtr(p.OccupationalCapital, places)
	out.SpousePension = roundPtr(p.SpousePension, places)
	return out
}

func (s StatePensionResult) rounded(places int32) StatePensionResult {
	out := s
	out.Benefit = s.Benefit.Round(places)
	out.FullCareerBenefit = s.FullCareerBenefit.Round(places)
	out.IndexedIncome = s.IndexedIncome.Round(places)
	out.ReductionRate = s.ReductionRate.Round(rateDecimals)
	out.Bonification = s.Bonification.Round(places)
	return out
}

func (o OccupationalPensionResult) rounded(places int32) OccupationalPensionResult {
	out := o
	out.InitialCapital = o.InitialCapital.Round(places)
	out.FinalCapital = o.FinalCapital.Round(places)
	out.MonthlyAnnuity = o.MonthlyAnnuity.Round(places)
	out.TotalContributions = o.TotalContributions.Round(places)
	out.TotalInterest = o.TotalInterest.Round(places)
	out.CoordinatedSalary = o.CoordinatedSalary.Round(places)
	out.Steps = roundSteps(o.Steps, places)
	return out
}

func (h HouseholdCapResult) rounded(places int32) HouseholdCapResult {
	out := h
	out.PrimaryBefore = h.PrimaryBefore.Round(places)
	out.SpouseBefore = h.SpouseBefore.Round(places)
	out.PrimaryAfter = h.PrimaryAfter.Round(places)
	out.SpouseAfter = h.SpouseAfter.Round(places)
	out.Excess = h.Excess.Round(places)
	out.TheoreticalTotal = h.TheoreticalTotal.Round(places)
	return out
}

func (s BuybackScenario) rounded(places int32) BuybackScenario {
	out := s
	out.TotalCost = s.TotalCost.Round(places)
	out.NetCost = roundPtr(s.NetCost, places)
	out.TaxSaving = roundPtr(s.TaxSaving, places)
	out.MonthlyGain = s.MonthlyGain.Round(places)
	out.AnnualGain = s.AnnualGain.Round(places)
	out.TwentyYearGain = s.TwentyYearGain.Round(places)
	out.ResultingMonthlyTotal = s.ResultingMonthlyTotal.Round(places)
	return out
}

func (s ShortfallAnalysis) rounded(places int32) ShortfallAnalysis {
	out := s
	out.ReferenceMonthly = s.ReferenceMonthly.Round(places)
	out.ActualMonthly = s.ActualMonthly.Round(places)
	out.MonthlyShortfall = s.MonthlyShortfall.Round(places)
	out.AnnualShortfall = s.AnnualShortfall.Round(places)
	out.TwentyYearShortfall = s.TwentyYearShortfall.Round(places)
	out.RecoverableAmount = s.RecoverableAmount.Round(places)
	out.TaxSavingEstimate = s.TaxSavingEstimate.Round(places)
	return out
}

func roundSteps(steps []OccupationalProjectionStep, places int32) []OccupationalProjectionStep {
	if steps == nil {
		return nil
	}
	out := make([]OccupationalProjectionStep, len(steps))
	for i, st := range steps {
		out[i] = OccupationalProjectionStep{
			Age:               st.Age,
			GrossSalary:       st.GrossSalary.Round(places),
			CoordinatedSalary: st.CoordinatedSalary.Round(places),
			SavingsRate:       st.SavingsRate.Round(rateDecimals),
			Contribution:      st.Contribution.Round(places),
			Interest:          st.Interest.Round(places),
			CapitalStart:      st.CapitalStart.Round(places),
			CapitalEnd:        st.CapitalEnd.Round(places),
		}
	}
	return out
}

func roundPtr(d *decimal.Decimal, places int32) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Round(places)
	return &v
}
