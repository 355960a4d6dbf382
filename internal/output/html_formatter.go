package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/maretraitesuisse/simulator/internal/domain"
)

// HTMLFormatter produces a self-contained HTML report with a capital projection chart per client.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"whole": FormatWholeCurrency,
	"pct":   FormatPercentage,
	"rate":  FormatRate,
	"add":   func(i, j int) int { return i + j },
	"label": func(s string) string { return strings.ReplaceAll(s, "_", " ") },
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

// chartSeries is the capital projection plotted for one client
type chartSeries struct {
	Ages    []int    `json:"ages"`
	Capital []string `json:"capital"`
}

type htmlClient struct {
	domain.Simulation
	Recommendation Recommendation
	Chart          chartSeries
	PensionStart   string
}

func (h HTMLFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	r := rounded(report)

	assumptions := r.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}

	clients := make([]htmlClient, 0, len(r.Simulations))
	for _, sim := range r.Simulations {
		res := sim.Result
		clients = append(clients, htmlClient{
			Simulation:     sim,
			Recommendation: AnalyzeScenarios(&res),
			Chart:          capitalSeries(res.Occupational),
			PensionStart:   PensionStart(res.Profile, r.GeneratedAt),
		})
	}

	data := struct {
		RulesYear   int
		GeneratedAt string
		Assumptions []string
		Clients     []htmlClient
	}{r.RulesYear, r.GeneratedAt.Format("2006-01-02 15:04"), assumptions, clients}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func capitalSeries(occ domain.OccupationalPensionResult) chartSeries {
	series := chartSeries{Ages: make([]int, 0, len(occ.Steps)+1), Capital: make([]string, 0, len(occ.Steps)+1)}
	for _, s := range occ.Steps {
		series.Ages = append(series.Ages, s.Age)
		series.Capital = append(series.Capital, s.CapitalStart.StringFixed(2))
	}
	if n := len(occ.Steps); n > 0 {
		series.Ages = append(series.Ages, occ.Steps[n-1].Age+1)
		series.Capital = append(series.Capital, occ.FinalCapital.StringFixed(2))
	}
	return series
}
