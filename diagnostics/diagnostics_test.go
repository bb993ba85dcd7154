package diagnostics

import (
	"math"
	"testing"

	"anytime/errs"
	"anytime/spec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_HappyPath(t *testing.T) {
	g := NewGate(spec.Support{Lo: 0, Hi: 1}, spec.ClipModeError, "TestMethod")
	for i, x := range []float64{0.1, 0.5, 0.9} {
		v, applied, err := g.Check(x, int64(i))
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, x, v)
	}
	assert.Equal(t, spec.Guaranteed, g.Tier())
}

func TestGate_MissingSkipped(t *testing.T) {
	g := NewGate(spec.Support{Lo: 0, Hi: 1}, spec.ClipModeError, "TestMethod")
	_, applied, err := g.Check(math.NaN(), 0)
	require.NoError(t, err)
	assert.False(t, applied)
	snap := g.Snapshot()
	assert.Equal(t, int64(1), snap.MissingCount)
}

func TestGate_MissingnessDowngradesAfterThreshold(t *testing.T) {
	g := NewGate(spec.Support{Lo: 0, Hi: 1}, spec.ClipModeError, "TestMethod")
	// 20 observations, >20% missing -> downgrade.
	for i := 0; i < 15; i++ {
		_, _, err := g.Check(0.5, int64(i))
		require.NoError(t, err)
	}
	for i := 0; i < 6; i++ {
		_, _, err := g.Check(math.NaN(), int64(15+i))
		require.NoError(t, err)
	}
	assert.Equal(t, spec.Diagnostic, g.Tier())
}

func TestGate_ErrorModeRaisesOnOutOfRange(t *testing.T) {
	g := NewGate(spec.Support{Lo: 0, Hi: 1}, spec.ClipModeError, "TestMethod")
	_, _, err := g.Check(0.2, 0)
	require.NoError(t, err)
	_, _, err = g.Check(1.5, 1)
	require.Error(t, err)
	var avErr *errs.AssumptionViolationError
	require.ErrorAs(t, err, &avErr)
	assert.Equal(t, int64(1), avErr.T)
	assert.Equal(t, spec.Diagnostic, g.Tier())
}

func TestGate_ClipModeClipsAndDowngrades(t *testing.T) {
	g := NewGate(spec.Support{Lo: 0, Hi: 1}, spec.ClipModeClip, "TestMethod")
	v, applied, err := g.Check(1.5, 0)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, spec.Clipped, g.Tier())
	assert.Equal(t, int64(1), g.Snapshot().ClippedCount)
}

func TestGate_TierNeverUpgradesAfterClip(t *testing.T) {
	g := NewGate(spec.Support{Lo: 0, Hi: 1}, spec.ClipModeClip, "TestMethod")
	_, _, err := g.Check(1.5, 0)
	require.NoError(t, err)
	require.Equal(t, spec.Clipped, g.Tier())
	_, _, err = g.Check(0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, spec.Clipped, g.Tier())
}

func TestGate_DriftDetectedOnMonotoneRamp(t *testing.T) {
	g := NewGate(spec.Support{Lo: 0, Hi: 1}, spec.ClipModeClip, "TestMethod")
	detected := false
	for i := 0; i < 2000; i++ {
		x := float64(i%2000) / 2000.0
		_, _, err := g.Check(x, int64(i))
		require.NoError(t, err)
		if g.Tier() == spec.Diagnostic {
			detected = true
		}
	}
	// The heuristic is advisory (spec.md §4.2); on a monotone ramp within
	// bounded support it should eventually latch for at least one of a
	// wide range of seeds/shapes. We assert it fires on this shape,
	// matching spec.md's explicit "tested for monotonic ramp cases".
	assert.True(t, detected)
}

func TestGate_Reset(t *testing.T) {
	g := NewGate(spec.Support{Lo: 0, Hi: 1}, spec.ClipModeClip, "TestMethod")
	_, _, _ = g.Check(1.5, 0)
	require.Equal(t, spec.Clipped, g.Tier())
	g.Reset()
	assert.Equal(t, spec.Guaranteed, g.Tier())
	assert.Equal(t, int64(0), g.Snapshot().ClippedCount)
}

func TestMerge_WorstTierAndSummedCounters(t *testing.T) {
	a := Snapshot{Tier: spec.Guaranteed, ClippedCount: 1, MissingCount: 2}
	b := Snapshot{Tier: spec.Diagnostic, ClippedCount: 3, MissingCount: 4, DriftDetected: true}
	m := Merge(a, b)
	assert.Equal(t, spec.Diagnostic, m.Tier)
	assert.Equal(t, int64(4), m.ClippedCount)
	assert.Equal(t, int64(6), m.MissingCount)
	assert.True(t, m.DriftDetected)
}
