package output

import (
	"bytes"
	"fmt"

	"github.com/maretraitesuisse/simulator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	r := rounded(report)
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT SIMULATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Legal figures: %d\n", r.RulesYear)
	fmt.Fprintln(&buf)
	for _, sim := range r.Simulations {
		res := sim.Result
		fmt.Fprintf(&buf, "%s: Monthly=%s State=%s Occupational=%s\n",
			sim.Client.DisplayName(),
			FormatCurrency(res.TotalMonthly),
			FormatCurrency(res.PayableStatePension),
			FormatCurrency(res.Occupational.MonthlyAnnuity),
		)
		fmt.Fprintf(&buf, "  Annual=%s Shortfall=%s/month\n", FormatCurrency(res.TotalAnnual), FormatCurrency(res.Shortfall.MonthlyShortfall))
		fmt.Fprintf(&buf, "  Pension starts %s\n", PensionStart(res.Profile, r.GeneratedAt))
		rec := AnalyzeScenarios(&res)
		if rec.ScenarioName != "" {
			fmt.Fprintf(&buf, "  Recommended: %s (+%s / %s)\n", rec.ScenarioName, FormatCurrency(rec.MonthlyChange), FormatPercentage(rec.PercentageChange))
		}
	}
	return buf.Bytes(), nil
}
