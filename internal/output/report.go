package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maretraitesuisse/simulator/internal/domain"
)

// ErrUnsupportedFormat is returned when no formatter matches the requested name
var ErrUnsupportedFormat = errors.New("unsupported report format")

// RenderReport formats a report in memory with the named formatter
func RenderReport(report *domain.SimulationReport, format string) ([]byte, Formatter, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, nil, unsupported(format)
	}
	data, err := f.Format(report)
	if err != nil {
		return nil, nil, fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	return data, f, nil
}

// GenerateReport writes the report to a timestamped file in dir and returns the file names.
// "all" writes the verbose console, detailed CSV and HTML reports.
func GenerateReport(report *domain.SimulationReport, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}, HTMLFormatter{}} {
			name, err := WriteFormatted(f, report, dir, extension(f))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	name, err := WriteFormatted(f, report, dir, extension(f))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

func extension(f Formatter) string {
	switch f.Name() {
	case "csv", "detailed-csv":
		return "csv"
	case "json":
		return "json"
	case "html":
		return "html"
	default:
		return "txt"
	}
}

// enrich error with available formatters and aliases
func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
