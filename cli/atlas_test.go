package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAtlas_DefaultConfigProducesBothReports(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	require.NoError(t, runAtlas(&out, "", dir))

	_, err := os.Stat(filepath.Join(dir, "report_one_sample.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "report_two_sample.md"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "One-sample report written to")
	assert.Contains(t, out.String(), "Two-sample report written to")
}

func TestRunAtlas_CustomConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "atlas.yaml", `
n_sim: 20
one_sample:
  spec:
    alpha: 0.05
    kind: bernoulli
    two_sided: true
  methods: [hoeffding]
  scenarios:
    - name: quick_null
      distribution: bernoulli
      true_mean: 0.5
      n_max: 30
      is_null: true
`)
	var out bytes.Buffer
	require.NoError(t, runAtlas(&out, cfgPath, dir))
	_, err := os.Stat(filepath.Join(dir, "report_one_sample.md"))
	require.NoError(t, err)
}

func TestRunAtlas_UnknownMethodIsConfigError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "atlas.yaml", `
n_sim: 5
one_sample:
  spec:
    alpha: 0.05
    kind: bernoulli
    two_sided: true
  methods: [nonsense]
  scenarios:
    - name: s1
      distribution: bernoulli
      true_mean: 0.5
      n_max: 10
      is_null: true
`)
	var out bytes.Buffer
	err := runAtlas(&out, cfgPath, dir)
	require.Error(t, err)
}
