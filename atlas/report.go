package atlas

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ReportBuilder accumulates markdown sections for an atlas run report.
type ReportBuilder struct {
	title    string
	sections []string
}

// NewReportBuilder starts a report with the given title.
func NewReportBuilder(title string) *ReportBuilder {
	return &ReportBuilder{title: title}
}

func (b *ReportBuilder) AddHeader(level int, text string) {
	b.sections = append(b.sections, strings.Repeat("#", level)+" "+text+"\n")
}

func (b *ReportBuilder) AddText(text string) {
	b.sections = append(b.sections, text+"\n")
}

func (b *ReportBuilder) AddTable(headers []string, rows [][]string) {
	b.sections = append(b.sections, "| "+strings.Join(headers, " | ")+" |")
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	b.sections = append(b.sections, "|"+strings.Join(sep, "|")+"|")
	for _, row := range rows {
		b.sections = append(b.sections, "| "+strings.Join(row, " | ")+" |")
	}
	b.sections = append(b.sections, "")
}

func (b *ReportBuilder) AddMetrics(label string, m Metrics) {
	b.AddHeader(3, label)
	b.sections = append(b.sections,
		fmt.Sprintf("- **Coverage**: %.3f\n", m.Coverage),
		fmt.Sprintf("- **Final Coverage**: %.3f\n", m.FinalCoverage),
		fmt.Sprintf("- **Type I Error**: %.3f\n", m.TypeIError),
		fmt.Sprintf("- **Power**: %.3f\n", m.Power),
		fmt.Sprintf("- **Avg Width**: %.4f\n", m.AvgWidth),
		fmt.Sprintf("- **Median Stop Time**: %.1f\n", m.MedianStopTime),
		fmt.Sprintf("- **Avg Runtime**: %.4fs\n", m.AvgRuntimeSeconds),
	)
}

func (b *ReportBuilder) Build() string {
	return fmt.Sprintf("# %s\n\n%s", b.title, strings.Join(b.sections, "\n"))
}

func (b *ReportBuilder) Save(path string) error {
	return os.WriteFile(path, []byte(b.Build()), 0o644)
}

// GenerateComparisonReport writes a markdown report comparing methods
// across scenarios: results is keyed by method name, then scenario
// name.
func GenerateComparisonReport(results map[string]map[string]Metrics, outputPath string) error {
	b := NewReportBuilder("Atlas Method Comparison")
	b.AddHeader(2, "Summary")
	b.AddText("This report compares confidence sequence methods across scenarios.")

	methods := sortedKeys(results)
	var scenarios []string
	for _, byScenario := range results {
		scenarios = sortedMetricKeys(byScenario)
		break
	}

	headers := append([]string{"Scenario"}, methods...)

	b.AddHeader(2, "Coverage Comparison")
	b.AddTable(headers, comparisonRows(results, methods, scenarios, func(m Metrics) string {
		return fmt.Sprintf("%.3f", m.Coverage)
	}))

	b.AddHeader(2, "Final Coverage Comparison")
	b.AddTable(headers, comparisonRows(results, methods, scenarios, func(m Metrics) string {
		return fmt.Sprintf("%.3f", m.FinalCoverage)
	}))

	b.AddHeader(2, "Width Comparison (smaller is better)")
	b.AddTable(headers, comparisonRows(results, methods, scenarios, func(m Metrics) string {
		return fmt.Sprintf("%.4f", m.AvgWidth)
	}))

	b.AddHeader(2, "Detailed Metrics")
	for _, method := range methods {
		b.AddHeader(3, method)
		for _, scenario := range scenarios {
			if m, ok := results[method][scenario]; ok {
				b.AddMetrics(scenario, m)
			}
		}
	}

	return b.Save(outputPath)
}

func comparisonRows(results map[string]map[string]Metrics, methods, scenarios []string, cell func(Metrics) string) [][]string {
	rows := make([][]string, 0, len(scenarios))
	for _, scenario := range scenarios {
		row := []string{scenario}
		for _, method := range methods {
			m, ok := results[method][scenario]
			if !ok {
				row = append(row, "N/A")
				continue
			}
			row = append(row, cell(m))
		}
		rows = append(rows, row)
	}
	return rows
}

func sortedKeys(m map[string]map[string]Metrics) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMetricKeys(m map[string]Metrics) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
