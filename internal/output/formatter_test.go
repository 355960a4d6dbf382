package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/maretraitesuisse/simulator/internal/calculation"
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/shopspring/decimal"
)

func buildTestReport(t *testing.T) *domain.SimulationReport {
	t.Helper()
	capital := decimal.NewFromInt(185000)
	spouse := decimal.NewFromInt(2520)
	clients := []domain.ClientProfile{
		{
			Client: domain.Client{FirstName: "Anna", LastName: "Meier", Email: "anna@example.ch"},
			Profile: domain.PersonProfile{
				CurrentAge: 45, RetirementAge: 65,
				CurrentSalary: decimal.NewFromInt(95000), AverageIncome: decimal.NewFromInt(82000),
				YearsContributed: 22, MaritalStatus: domain.Single, EmploymentStatus: domain.Employed,
				OccupationalCapital: &capital,
			},
		},
		{
			Client: domain.Client{FirstName: "Luca", LastName: "Rossi"},
			Profile: domain.PersonProfile{
				CurrentAge: 56, RetirementAge: 65,
				CurrentSalary: decimal.NewFromInt(110000), AverageIncome: decimal.NewFromInt(90720),
				YearsContributed: 33, MaritalStatus: domain.Married, EmploymentStatus: domain.Employed,
				SpousePension: &spouse, SpouseAwareness: domain.SpouseKnown,
			},
		},
	}

	engine := calculation.NewCalculationEngine()
	sims, err := engine.CalculateBatch(context.Background(), clients)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	return &domain.SimulationReport{
		RulesYear:   engine.Rules.Year,
		GeneratedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Assumptions: GenerateAssumptions(engine.Rules),
		Simulations: sims,
	}
}

func TestConsoleLiteFormatter(t *testing.T) {
	f := ConsoleFormatter{}
	out, err := f.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"Anna MEIER: Monthly=CHF ", "Luca ROSSI: Monthly=CHF ", "Legal figures: 2025",
		"  Pension starts in 2045\n", "  Pension starts in 2034\n"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output, got: %s", want, content)
		}
	}
}

func TestConsoleVerboseFormatter(t *testing.T) {
	f := ConsoleVerboseFormatter{}
	out, err := f.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "DETAILED SWISS RETIREMENT INCOME ANALYSIS") {
		t.Fatalf("expected verbose heading, got: %s", content[:120])
	}
	for _, want := range []string{"CLIENT 1: Anna MEIER", "CLIENT 2: Luca ROSSI", "HOUSEHOLD:", "Couple Ceiling:          CHF 3'780.00",
		"CAPITAL PROJECTION:", "Capital Source:          estimated (contributions since age 25)", "OPTIMIZATION SCENARIOS:"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in verbose output", want)
		}
	}
	if strings.Count(content, "HOUSEHOLD:") != 1 {
		t.Fatalf("household section expected for the married client only")
	}
}

func TestCSVSummarizerRows(t *testing.T) {
	f := CSVSummarizer{}
	out, err := f.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header+2 rows), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Anna MEIER,anna@example.ch,45,65,42,single,employed,") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Luca ROSSI,,56,65,") {
		t.Fatalf("unexpected second row: %s", lines[2])
	}
}

func TestCSVDetailedExporterSections(t *testing.T) {
	report := buildTestReport(t)
	out, err := CSVDetailedExporter{}.Format(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	projection := strings.Count(content, ",projection,")
	want := len(report.Simulations[0].Result.Occupational.Steps) + len(report.Simulations[1].Result.Occupational.Steps)
	if projection != want {
		t.Fatalf("expected %d projection rows, got %d", want, projection)
	}
	if !strings.Contains(content, "Luca ROSSI,reconstruction,25,") {
		t.Fatalf("expected reconstruction rows for the client without declared capital")
	}
	if !strings.Contains(content, ",scenario,") {
		t.Fatalf("expected scenario rows")
	}
}

func TestJSONFormatterRoundsAmounts(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded domain.SimulationReport
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Simulations) != 2 {
		t.Fatalf("expected 2 simulations, got %d", len(decoded.Simulations))
	}
	for _, sim := range decoded.Simulations {
		total := sim.Result.TotalMonthly
		if !total.Equal(total.Round(2)) {
			t.Fatalf("total %s is not rounded to cents", total)
		}
	}
}

// Golden snapshot tests (prefix-based) ensure key headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"console_verbose", "console_verbose.golden", ConsoleVerboseFormatter{}},
		{"console_lite", "console_lite.golden", ConsoleFormatter{}},
		{"csv_summary", "csv_summary.golden", CSVSummarizer{}},
		{"csv_detailed", "csv_detailed.golden", CSVDetailedExporter{}},
		{"html", "html_prefix.golden", HTMLFormatter{}},
	}

	report := buildTestReport(t)
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		out, err := tc.formatter.Format(report)
		if err != nil {
			t.Fatalf("%s: format error: %v", tc.name, err)
		}
		goldenPath := filepath.Join("testdata", tc.golden)
		if update {
			// only first line to keep golden small & stable
			line := firstLine(string(out)) + "\n"
			if err := os.WriteFile(goldenPath, []byte(line), 0644); err != nil {
				t.Fatalf("%s: update golden failed: %v", tc.name, err)
			}
		}
		data, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("%s: read golden: %v", tc.name, err)
		}
		if !strings.HasPrefix(string(out), strings.TrimSpace(string(data))) {
			t.Fatalf("%s: output does not match golden prefix %q", tc.name, strings.TrimSpace(string(data)))
		}
	}
}

func TestHTMLFormatterBasic(t *testing.T) {
	f := HTMLFormatter{}
	out, err := f.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"Scenario Summary", "Anna MEIER", "capital-0", "capital-1", "Couple ceiling", "Legal figures 2025", "Pension starts in 2045"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
}

func TestHTMLAssumptionsSectionPresent(t *testing.T) {
	report := buildTestReport(t)
	report.Assumptions = nil
	out, err := HTMLFormatter{}.Format(report)
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "Key Assumptions") {
		t.Fatalf("expected Key Assumptions section in HTML output")
	}
	if !strings.Contains(content, "Legal figures: 2025") {
		t.Fatalf("expected default assumptions to be rendered in HTML")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func TestFormatterAliasResolution(t *testing.T) {
	f := GetFormatterByName("console-verbose")
	if f == nil {
		t.Fatalf("alias console-verbose did not resolve to a formatter")
	}
	if f.Name() != "console" {
		t.Fatalf("alias resolved to %q, want 'console'", f.Name())
	}
	if f := GetFormatterByName(" CSV-Detailed "); f == nil || f.Name() != "detailed-csv" {
		t.Fatalf("csv-detailed alias did not resolve")
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("unknown format resolved to a formatter")
	}
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"json":         "application/json",
		"csv":          "text/csv; charset=utf-8",
		"html":         "text/html; charset=utf-8",
		"console-lite": "text/plain; charset=utf-8",
	}
	for name, want := range cases {
		if got := ContentType(GetFormatterByName(name)); got != want {
			t.Fatalf("ContentType(%s) = %q, want %q", name, got, want)
		}
	}
}
