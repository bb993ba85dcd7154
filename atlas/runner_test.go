package atlas

import (
	"testing"

	"anytime/cs"
	"anytime/evalue"
	"anytime/spec"
	"anytime/twosample"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundedStreamSpec(t *testing.T, alpha float64) spec.StreamSpec {
	t.Helper()
	s, err := spec.NewStreamSpec(spec.StreamSpecParams{
		Alpha: alpha, Kind: spec.Bounded,
		Support: &spec.Support{Lo: 0, Hi: 1}, TwoSided: true, ClipMode: spec.ClipModeError,
	})
	require.NoError(t, err)
	return s
}

func boundedABSpecAtlas(t *testing.T, alpha float64) spec.ABSpec {
	t.Helper()
	s, err := spec.NewABSpec(spec.ABSpecParams{
		Alpha: alpha, Kind: spec.Bounded,
		Support: &spec.Support{Lo: 0, Hi: 1}, TwoSided: true, ClipMode: spec.ClipModeError,
	})
	require.NoError(t, err)
	return s
}

func TestRunner_RunOneSample_NullScenarioHasLowTypeIError(t *testing.T) {
	runner, err := NewRunner(200, 3)
	require.NoError(t, err)

	streamSpec := boundedStreamSpec(t, 0.05)
	scenario := Scenario{
		Name: "bernoulli_null", Distribution: Bernoulli,
		TrueMean: 0.5, NMax: 100, Seed: 42, IsNull: true,
	}
	rule := ExcludeThresholdRule(0.5, DirectionBoth)

	metrics, err := runner.RunOneSample(scenario, func() (cs.CS, error) {
		return cs.NewHoeffdingCS(streamSpec)
	}, &rule, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, metrics.Coverage, 0.9)
	assert.LessOrEqual(t, metrics.TypeIError, 0.10)
	assert.Zero(t, metrics.Power)
	assert.Len(t, metrics.WorstReplicates, 3)
}

func TestRunner_RunOneSample_AltScenarioHasPower(t *testing.T) {
	runner, err := NewRunner(100, 0)
	require.NoError(t, err)

	streamSpec := boundedStreamSpec(t, 0.05)
	scenario := Scenario{
		Name: "bernoulli_alt", Distribution: Bernoulli,
		TrueMean: 0.9, NMax: 300, Seed: 42, IsNull: false,
	}
	rule := ExcludeThresholdRule(0.5, DirectionBoth)

	metrics, err := runner.RunOneSample(scenario, func() (cs.CS, error) {
		return cs.NewHoeffdingCS(streamSpec)
	}, &rule, nil)
	require.NoError(t, err)
	assert.Greater(t, metrics.Power, 0.0)
}

func TestRunner_RunOneSample_TracksEValueDecisionRate(t *testing.T) {
	runner, err := NewRunner(50, 0)
	require.NoError(t, err)

	bernoulliSpec, err := spec.NewStreamSpec(spec.StreamSpecParams{
		Alpha: 0.05, Kind: spec.Bernoulli, TwoSided: true, ClipMode: spec.ClipModeError,
	})
	require.NoError(t, err)
	scenario := Scenario{
		Name: "bernoulli_alt", Distribution: Bernoulli,
		TrueMean: 0.9, NMax: 500, Seed: 1, IsNull: false,
	}

	metrics, err := runner.RunOneSample(scenario, func() (cs.CS, error) {
		return cs.NewBernoulliMixtureCS(bernoulliSpec)
	}, nil, func() (EValueTracker, error) {
		return evalue.NewBernoulliMixtureE(bernoulliSpec, evalue.SideTwo, 0.5)
	})
	require.NoError(t, err)
	assert.Greater(t, metrics.EValueDecisionRate, 0.0)
}

func TestRunner_RunTwoSample_NullScenarioHasLowTypeIError(t *testing.T) {
	runner, err := NewRunner(150, 0)
	require.NoError(t, err)

	abSpec := boundedABSpecAtlas(t, 0.05)
	scenario := Scenario{
		Name: "ab_null", Distribution: Bernoulli,
		TrueMean: 0.3, TrueLift: 0.0, NMax: 100, Seed: 42, IsNull: true,
	}
	rule := ExcludeThresholdRule(0.0, DirectionBoth)

	metrics, err := runner.RunTwoSample(scenario, func() (twosample.CS, error) {
		return twosample.NewTwoSampleHoeffdingCS(abSpec)
	}, &rule, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, metrics.TypeIError, 0.10)
}

func TestRunner_RunTwoSample_TracksEValueDecisionRate(t *testing.T) {
	runner, err := NewRunner(50, 0)
	require.NoError(t, err)

	abSpec := boundedABSpecAtlas(t, 0.05)
	scenario := Scenario{
		Name: "ab_alt", Distribution: Bernoulli,
		TrueMean: 0.3, TrueLift: 0.4, NMax: 500, Seed: 1, IsNull: false,
	}

	metrics, err := runner.RunTwoSample(scenario, func() (twosample.CS, error) {
		return twosample.NewTwoSampleHoeffdingCS(abSpec)
	}, nil, func() (TwoSampleEValueTracker, error) {
		return evalue.NewTwoSamplePairedE(abSpec, evalue.SideGE, 0)
	})
	require.NoError(t, err)
	assert.Greater(t, metrics.EValueDecisionRate, 0.0)
}

func TestRunner_RunOneSample_RejectsInvalidScenario(t *testing.T) {
	runner, err := NewRunner(5, 0)
	require.NoError(t, err)
	streamSpec := boundedStreamSpec(t, 0.05)
	scenario := Scenario{Name: "bad", NMax: 0}
	_, err = runner.RunOneSample(scenario, func() (cs.CS, error) {
		return cs.NewHoeffdingCS(streamSpec)
	}, nil, nil)
	require.Error(t, err)
}
