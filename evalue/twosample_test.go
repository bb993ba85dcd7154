package evalue

import (
	"testing"

	"anytime/spec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundedABSpecE(t *testing.T, alpha float64) spec.ABSpec {
	t.Helper()
	s, err := spec.NewABSpec(spec.ABSpecParams{
		Alpha:    alpha,
		Kind:     spec.Bounded,
		Support:  &spec.Support{Lo: 0, Hi: 1},
		TwoSided: true,
		ClipMode: spec.ClipModeError,
	})
	require.NoError(t, err)
	return s
}

// updatePair feeds one A observation and one B observation, in that
// order, as most tests here don't care about interleaving.
func updatePair(t *testing.T, e *TwoSamplePairedE, a, b float64) {
	t.Helper()
	require.NoError(t, e.UpdateA(a))
	require.NoError(t, e.UpdateB(b))
}

func TestTwoSamplePairedE_StartsAtOne(t *testing.T) {
	e, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideGE, 0)
	require.NoError(t, err)
	snap := e.Snapshot()
	assert.InDelta(t, 1.0, snap.E, 1e-9)
	assert.Equal(t, Pending, snap.Decision)
}

func TestTwoSamplePairedE_RejectsOnStrongPairedDifference(t *testing.T) {
	e, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideGE, 0)
	require.NoError(t, err)
	rejected := false
	for i := 0; i < 500; i++ {
		updatePair(t, e, 0.1, 0.9)
		if e.Snapshot().Decision == Reject {
			rejected = true
			break
		}
	}
	assert.True(t, rejected)
}

func TestTwoSamplePairedE_LatchesDecision(t *testing.T) {
	e, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideGE, 0)
	require.NoError(t, err)
	for i := 0; i < 500 && e.Snapshot().Decision != Reject; i++ {
		updatePair(t, e, 0.1, 0.9)
	}
	require.Equal(t, Reject, e.Snapshot().Decision)
	for i := 0; i < 50; i++ {
		updatePair(t, e, 0.5, 0.5)
	}
	assert.Equal(t, Reject, e.Snapshot().Decision)
}

func TestTwoSamplePairedE_DoesNotRejectUnderNull(t *testing.T) {
	e, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.01), SideGE, 0)
	require.NoError(t, err)
	xs := []float64{0.2, 0.8, 0.5, 0.3, 0.7}
	for i := 0; i < 200; i++ {
		v := xs[i%len(xs)]
		updatePair(t, e, v, v) // identical pairs: true delta is 0
	}
	assert.Equal(t, Pending, e.Snapshot().Decision)
}

func TestTwoSamplePairedE_SideGEDoesNotRejectOnOppositeEvidence(t *testing.T) {
	// H0: Delta <= 0. A stream where B is consistently smaller than A
	// (Delta strongly negative) is evidence for H0, not against it, so
	// SideGE must never latch Reject here.
	e, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideGE, 0)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		updatePair(t, e, 0.9, 0.1)
	}
	assert.Equal(t, Pending, e.Snapshot().Decision)
}

func TestTwoSamplePairedE_SideLERejectsOnNegativeDifference(t *testing.T) {
	// H0: Delta >= 0. Mirror image of the SideGE case: B consistently
	// smaller than A is now evidence against H0.
	e, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideLE, 0)
	require.NoError(t, err)
	rejected := false
	for i := 0; i < 500; i++ {
		updatePair(t, e, 0.9, 0.1)
		if e.Snapshot().Decision == Reject {
			rejected = true
			break
		}
	}
	assert.True(t, rejected)
}

func TestTwoSamplePairedE_SideTwoRejectsEitherDirection(t *testing.T) {
	pos, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideTwo, 0)
	require.NoError(t, err)
	neg, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideTwo, 0)
	require.NoError(t, err)

	posRejected, negRejected := false, false
	for i := 0; i < 500; i++ {
		updatePair(t, pos, 0.1, 0.9)
		updatePair(t, neg, 0.9, 0.1)
		if pos.Snapshot().Decision == Reject {
			posRejected = true
		}
		if neg.Snapshot().Decision == Reject {
			negRejected = true
		}
	}
	assert.True(t, posRejected)
	assert.True(t, negRejected)
}

func TestTwoSamplePairedE_ArmsCanArriveOutOfOrder(t *testing.T) {
	// The original forms pairs off independent FIFO queues, so a run of
	// arm-A observations followed by a run of arm-B observations must
	// pair up identically to interleaved arrivals.
	batched, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideGE, 0)
	require.NoError(t, err)
	interleaved, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideGE, 0)
	require.NoError(t, err)

	as := []float64{0.1, 0.2, 0.3, 0.4}
	bs := []float64{0.9, 0.8, 0.7, 0.6}

	for _, a := range as {
		require.NoError(t, batched.UpdateA(a))
	}
	for _, b := range bs {
		require.NoError(t, batched.UpdateB(b))
	}
	for i := range as {
		updatePair(t, interleaved, as[i], bs[i])
	}

	assert.Equal(t, interleaved.Snapshot().T, batched.Snapshot().T)
	assert.InDelta(t, interleaved.Snapshot().LogE, batched.Snapshot().LogE, 1e-9)
}

func TestTwoSamplePairedE_UnpairedTailDoesNotCountAsAPair(t *testing.T) {
	e, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideGE, 0)
	require.NoError(t, err)
	require.NoError(t, e.UpdateA(0.5))
	require.NoError(t, e.UpdateA(0.5))
	require.NoError(t, e.UpdateB(0.5))
	assert.Equal(t, int64(1), e.Snapshot().T)
}

func TestTwoSamplePairedE_Reset(t *testing.T) {
	e, err := NewTwoSamplePairedE(boundedABSpecE(t, 0.05), SideGE, 0)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		updatePair(t, e, 0.1, 0.9)
	}
	e.Reset()
	snap := e.Snapshot()
	assert.Equal(t, int64(0), snap.T)
	assert.InDelta(t, 1.0, snap.E, 1e-9)
}
