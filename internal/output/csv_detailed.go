package output

import (
	"bytes"
	"encoding/csv"

	"github.com/maretraitesuisse/simulator/internal/domain"
)

// CSVDetailedExporter provides the raw occupational projection per client and year,
// followed by the scenario rows of each client.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.SimulationReport) ([]byte, error) {
	r := rounded(report)
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Client", "Section", "Age", "GrossSalary", "CoordinatedSalary", "SavingsRate", "Contribution", "Interest", "CapitalEnd",
		"Scenario", "Cost", "MonthlyGain", "ResultingMonthlyTotal", "Recommended"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sim := range r.Simulations {
		name := sim.Client.DisplayName()
		res := sim.Result
		if res.Reconstruction != nil {
			for _, s := range res.Reconstruction.Steps {
				if err := w.Write(stepRow(name, "reconstruction", s)); err != nil {
					return nil, err
				}
			}
		}
		for _, s := range res.Occupational.Steps {
			if err := w.Write(stepRow(name, "projection", s)); err != nil {
				return nil, err
			}
		}
		for _, sc := range res.Scenarios {
			row := []string{name, "scenario", "", "", "", "", "", "", "",
				string(sc.Kind),
				sc.TotalCost.StringFixed(2),
				sc.MonthlyGain.StringFixed(2),
				sc.ResultingMonthlyTotal.StringFixed(2),
				boolToString(sc.Recommended),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func stepRow(client, section string, s domain.OccupationalProjectionStep) []string {
	return []string{
		client,
		section,
		intToString(s.Age),
		s.GrossSalary.StringFixed(2),
		s.CoordinatedSalary.StringFixed(2),
		s.SavingsRate.StringFixed(4),
		s.Contribution.StringFixed(2),
		s.Interest.StringFixed(2),
		s.CapitalEnd.StringFixed(2),
		"", "", "", "", "",
	}
}
