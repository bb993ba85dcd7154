package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAtlas_ParsesOneAndTwoSampleSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
n_sim: 50
one_sample:
  spec:
    alpha: 0.05
    kind: bernoulli
    two_sided: true
  methods: [hoeffding, bernoulli]
  scenarios:
    - name: null_case
      distribution: bernoulli
      true_mean: 0.5
      n_max: 100
      is_null: true
two_sample:
  spec:
    alpha: 0.05
    kind: bernoulli
    two_sided: true
  methods: [hoeffding]
  scenarios:
    - name: ab_case
      distribution: bernoulli
      true_mean: 0.1
      true_lift: 0.02
      n_max: 100
`), 0o644))

	cfg, err := LoadAtlas(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.NSim)
	require.NotNil(t, cfg.OneSample)
	assert.Equal(t, []string{"hoeffding", "bernoulli"}, cfg.OneSample.Methods)
	require.Len(t, cfg.OneSample.Scenarios, 1)
	assert.Equal(t, "null_case", cfg.OneSample.Scenarios[0].Name)
	require.NotNil(t, cfg.TwoSample)
}

func TestLoadAtlas_DefaultsNSim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
one_sample:
  spec: {alpha: 0.05, kind: bernoulli, two_sided: true}
  methods: [hoeffding]
  scenarios:
    - {name: s, distribution: bernoulli, true_mean: 0.5, n_max: 10, is_null: true}
`), 0o644))

	cfg, err := LoadAtlas(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.NSim)
}

func TestLoadAtlas_RequiresAtLeastOneSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("n_sim: 10\n"), 0o644))
	_, err := LoadAtlas(path)
	require.Error(t, err)
}

func TestLoadAtlas_MissingFile(t *testing.T) {
	_, err := LoadAtlas(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
