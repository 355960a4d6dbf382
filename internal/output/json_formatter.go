package output

import (
	json "github.com/goccy/go-json"
	"github.com/maretraitesuisse/simulator/internal/domain"
)

// JSONFormatter serializes the rounded report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	r := rounded(report)
	return json.MarshalIndent(r, "", "  ")
}
