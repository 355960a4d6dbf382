package output

import (
	"bytes"
	"encoding/csv"

	"github.com/maretraitesuisse/simulator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per client).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.SimulationReport) ([]byte, error) {
	r := rounded(report)
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Client", "Email", "CurrentAge", "RetirementAge", "YearsAtRetirement", "MaritalStatus", "EmploymentStatus",
		"StatePension", "PayableStatePension", "MissingYears", "CapitalSource", "FinalCapital", "MonthlyAnnuity",
		"TotalMonthly", "TotalAnnual", "StateSharePercent", "MonthlyShortfall", "RecommendedScenario", "RecommendedMonthlyTotal"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sim := range r.Simulations {
		res := sim.Result
		rec := AnalyzeScenarios(&res)
		recommendedTotal := ""
		if rec.ScenarioName != "" {
			recommendedTotal = rec.ResultingMonthly.StringFixed(2)
		}
		row := []string{
			sim.Client.DisplayName(),
			sim.Client.Email,
			intToString(res.Profile.CurrentAge),
			intToString(res.Profile.RetirementAge),
			intToString(res.YearsAtRetirement),
			string(res.Profile.MaritalStatus),
			string(res.Profile.EmploymentStatus),
			res.StatePension.Benefit.StringFixed(2),
			res.PayableStatePension.StringFixed(2),
			intToString(res.StatePension.MissingYears),
			string(res.CapitalSource),
			res.Occupational.FinalCapital.StringFixed(2),
			res.Occupational.MonthlyAnnuity.StringFixed(2),
			res.TotalMonthly.StringFixed(2),
			res.TotalAnnual.StringFixed(2),
			res.StateSharePercent.StringFixed(1),
			res.Shortfall.MonthlyShortfall.StringFixed(2),
			rec.ScenarioName,
			recommendedTotal,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
