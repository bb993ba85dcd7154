package cs

import (
	"errors"
	"testing"

	"anytime/errs"
	"anytime/spec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundedSpec(t *testing.T, alpha float64, lo, hi float64) spec.StreamSpec {
	t.Helper()
	s, err := spec.NewStreamSpec(spec.StreamSpecParams{
		Alpha:    alpha,
		Kind:     spec.Bounded,
		Support:  &spec.Support{Lo: lo, Hi: hi},
		TwoSided: true,
		ClipMode: spec.ClipModeError,
	})
	require.NoError(t, err)
	return s
}

func TestHoeffdingCS_VacuousAtZero(t *testing.T) {
	h, err := NewHoeffdingCS(boundedSpec(t, 0.05, 0, 1))
	require.NoError(t, err)
	iv := h.Interval()
	assert.Equal(t, int64(0), iv.T)
	assert.Equal(t, 0.0, iv.Lo)
	assert.Equal(t, 1.0, iv.Hi)
	assert.Equal(t, spec.Guaranteed, iv.Tier)
}

func TestHoeffdingCS_ContainsTrueMeanOnConstantStream(t *testing.T) {
	h, err := NewHoeffdingCS(boundedSpec(t, 0.05, 0, 1))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, h.Update(0.5))
	}
	iv := h.Interval()
	assert.LessOrEqual(t, iv.Lo, 0.5)
	assert.GreaterOrEqual(t, iv.Hi, 0.5)
	assert.Equal(t, spec.Guaranteed, iv.Tier)
}

func TestHoeffdingCS_WidthShrinksWithN(t *testing.T) {
	h, err := NewHoeffdingCS(boundedSpec(t, 0.05, 0, 1))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, h.Update(0.5))
	}
	w10 := h.Interval().Width()
	for i := 0; i < 990; i++ {
		require.NoError(t, h.Update(0.5))
	}
	w1000 := h.Interval().Width()
	assert.Less(t, w1000, w10)
}

func TestHoeffdingCS_WidthMonotoneInAlpha(t *testing.T) {
	hTight, err := NewHoeffdingCS(boundedSpec(t, 0.2, 0, 1))
	require.NoError(t, err)
	hLoose, err := NewHoeffdingCS(boundedSpec(t, 0.01, 0, 1))
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, hTight.Update(0.5))
		require.NoError(t, hLoose.Update(0.5))
	}
	// Smaller alpha (stronger guarantee) must never produce a narrower
	// interval than a larger alpha at the same n.
	assert.GreaterOrEqual(t, hLoose.Interval().Width(), hTight.Interval().Width())
}

func TestHoeffdingCS_RejectsWrongKind(t *testing.T) {
	// Kind has no third value in the closed enum, so exercise the
	// config-error path via a StreamSpec bypassing normal validation.
	s := boundedSpec(t, 0.05, 0, 1)
	s.Kind = spec.Kind(99)
	_, err := NewHoeffdingCS(s)
	require.Error(t, err)
	var cfgErr *errs.ConfigError
	require.True(t, errors.As(err, &cfgErr))
}

func TestHoeffdingCS_ClipModeClipsOutOfRange(t *testing.T) {
	s, err := spec.NewStreamSpec(spec.StreamSpecParams{
		Alpha:    0.05,
		Kind:     spec.Bounded,
		Support:  &spec.Support{Lo: 0, Hi: 1},
		TwoSided: true,
		ClipMode: spec.ClipModeClip,
	})
	require.NoError(t, err)
	h, err := NewHoeffdingCS(s)
	require.NoError(t, err)
	require.NoError(t, h.Update(1.5))
	iv := h.Interval()
	assert.Equal(t, spec.Clipped, iv.Tier)
	assert.Equal(t, int64(1), iv.Diagnostics.ClippedCount)
}

func TestHoeffdingCS_ErrorModeRejectsOutOfRange(t *testing.T) {
	h, err := NewHoeffdingCS(boundedSpec(t, 0.05, 0, 1))
	require.NoError(t, err)
	err = h.Update(1.5)
	require.Error(t, err)
	var avErr *errs.AssumptionViolationError
	require.True(t, errors.As(err, &avErr))
}

func TestHoeffdingCS_Reset(t *testing.T) {
	h, err := NewHoeffdingCS(boundedSpec(t, 0.05, 0, 1))
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, h.Update(0.5))
	}
	h.Reset()
	iv := h.Interval()
	assert.Equal(t, int64(0), iv.T)
	assert.Equal(t, spec.Guaranteed, iv.Tier)
}
