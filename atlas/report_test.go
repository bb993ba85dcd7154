package atlas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateComparisonReport_WritesMarkdownTables(t *testing.T) {
	results := map[string]map[string]Metrics{
		"hoeffding": {
			"bernoulli_null": {Coverage: 0.97, FinalCoverage: 0.96, AvgWidth: 0.2},
		},
		"empirical_bernstein": {
			"bernoulli_null": {Coverage: 0.98, FinalCoverage: 0.97, AvgWidth: 0.15},
		},
	}
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, GenerateComparisonReport(results, path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(contents)
	assert.Contains(t, body, "# Atlas Method Comparison")
	assert.Contains(t, body, "bernoulli_null")
	assert.Contains(t, body, "hoeffding")
	assert.Contains(t, body, "empirical_bernstein")
}

func TestReportBuilder_AddMetricsIncludesAllFields(t *testing.T) {
	b := NewReportBuilder("Test")
	b.AddMetrics("method", Metrics{Coverage: 0.9, Power: 0.8})
	built := b.Build()
	assert.Contains(t, built, "Coverage")
	assert.Contains(t, built, "Power")
}
