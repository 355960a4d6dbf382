package output_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	stddec "github.com/shopspring/decimal"

	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/maretraitesuisse/simulator/internal/output"
)

func singleSimulationReport() *domain.SimulationReport {
	return &domain.SimulationReport{
		RulesYear:   2025,
		GeneratedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Simulations: []domain.Simulation{
			{
				ID:     "c0ffee",
				Client: domain.Client{FirstName: "Anna", LastName: "Meier", Email: "anna@example.ch"},
				Result: domain.RetirementResult{
					Profile:             domain.PersonProfile{CurrentAge: 45, RetirementAge: 65, MaritalStatus: domain.Single},
					PayableStatePension: stddec.RequireFromString("2264.6"),
					TotalMonthly:        stddec.RequireFromString("4113.456"),
					TotalAnnual:         stddec.RequireFromString("49361.472"),
					Scenarios: []domain.BuybackScenario{
						{Kind: domain.ScenarioBaseline, Name: "No buy-back", ResultingMonthlyTotal: stddec.RequireFromString("4113.456")},
					},
				},
			},
		},
	}
}

func TestFormatters(t *testing.T) {
	if got := output.FormatCurrency(stddec.NewFromFloat(123.45)); got != "CHF 123.45" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := output.FormatPercentage(stddec.NewFromFloat(12.34)); got != "12.34%" {
		t.Fatalf("FormatPercentage = %q", got)
	}
}

func TestRenderReport(t *testing.T) {
	data, f, err := output.RenderReport(singleSimulationReport(), "summary")
	if err != nil {
		t.Fatalf("RenderReport error: %v", err)
	}
	if f.Name() != "console-lite" {
		t.Fatalf("summary alias resolved to %q", f.Name())
	}
	if !strings.Contains(string(data), "Anna MEIER: Monthly=CHF 4'113.46") {
		t.Fatalf("unexpected console-lite output: %s", data)
	}
	if output.ContentType(f) != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", output.ContentType(f))
	}
}

func TestRenderReport_UnknownFormat(t *testing.T) {
	_, _, err := output.RenderReport(singleSimulationReport(), "pdf")
	if err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
	if !errors.Is(err, output.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "Try one of:") || !strings.Contains(err.Error(), "detailed-csv") {
		t.Fatalf("error should list the available formats: %v", err)
	}
}

func TestReportGenerator_JSON_CSV(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"json", "csv"} {
		files, err := output.GenerateReport(singleSimulationReport(), format, dir)
		if err != nil {
			t.Fatalf("GenerateReport %s error: %v", format, err)
		}
		if len(files) != 1 {
			t.Fatalf("GenerateReport %s wrote %d files", format, len(files))
		}
		if filepath.Base(files[0]) != "retirement_report_20250601_093000."+format {
			t.Fatalf("unexpected file name %s", files[0])
		}
		data, err := os.ReadFile(files[0])
		if err != nil {
			t.Fatalf("read %s: %v", files[0], err)
		}
		if !strings.Contains(string(data), "4113.46") {
			t.Fatalf("%s report does not carry the rounded total: %s", format, data)
		}
	}
}

func TestReportGenerator_All(t *testing.T) {
	dir := t.TempDir()
	files, err := output.GenerateReport(singleSimulationReport(), "all", dir)
	if err != nil {
		t.Fatalf("GenerateReport all error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	var exts []string
	for _, f := range files {
		exts = append(exts, filepath.Ext(f))
	}
	if strings.Join(exts, ",") != ".txt,.csv,.html" {
		t.Fatalf("unexpected extensions %v", exts)
	}
}

func TestReportGenerator_UnknownFormat(t *testing.T) {
	if _, err := output.GenerateReport(singleSimulationReport(), "xml", t.TempDir()); !errors.Is(err, output.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBuildNotification(t *testing.T) {
	sim := singleSimulationReport().Simulations[0]
	n := output.BuildNotification(sim)

	if n.Recipient != "Anna MEIER" || n.Email != "anna@example.ch" {
		t.Fatalf("unexpected recipient %q <%s>", n.Recipient, n.Email)
	}
	if n.TotalMonthly != "CHF 4'113.46" || n.TotalAnnual != "CHF 49'361.47" {
		t.Fatalf("unexpected totals %s / %s", n.TotalMonthly, n.TotalAnnual)
	}
	if !strings.Contains(n.Body, "Reference: c0ffee") {
		t.Fatalf("body should carry the reference: %s", n.Body)
	}
	for _, leaked := range []string{"No buy-back", "2'264"} {
		if strings.Contains(n.Body, leaked) {
			t.Fatalf("notification leaks detail %q", leaked)
		}
	}
}

func TestBuildNotification_Anonymous(t *testing.T) {
	n := output.BuildNotification(domain.Simulation{})
	if !strings.HasPrefix(n.Body, "Hello,\n") {
		t.Fatalf("unexpected greeting: %q", n.Body)
	}
	if strings.Contains(n.Body, "Reference") {
		t.Fatalf("no reference expected without an id")
	}
}
