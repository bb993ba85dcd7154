package evalue

import (
	"math"

	"anytime/diagnostics"
	"anytime/spec"
)

// TwoSamplePairedE is a two-sample e-process for testing the paired
// mean difference Delta = mu_B - mu_A against a fixed null delta0
// (spec.md §4.5.2: "Tests H0: Delta <= 0 (or >= 0, or = 0)"). It applies
// a closed-form bounded-difference mixture martingale to the paired
// deviations d_i = x_B,i - x_A,i - delta0, following
// original_source/anytime/evalues/twosample.py's TwoSampleMeanMixtureE:
// SideGE and SideLE are genuinely asymmetric one-sided martingales built
// from the error function, and SideTwo averages the two.
//
// Observations arrive one arm at a time via UpdateA/UpdateB, exactly as
// twosample.CS does, rather than as a matched pair — the original forms
// pairs from two independent FIFO queues (deque-based in Python) as
// each arm's stream advances, which is the shape spec.md §6 and the
// atlas/CLI streaming readers assume.
type TwoSamplePairedE struct {
	abSpec spec.ABSpec
	side   Side
	delta0 float64
	c      float64 // width^2 / 8, the sub-Gaussian variance proxy per pair
	tau    float64 // mixture scale, 1/width

	gateA, gateB *diagnostics.Gate
	nA, nB       int64     // raw observations seen per arm, for gate timestamps
	queueA       []float64 // arm A values not yet paired with a B value
	queueB       []float64 // arm B values not yet paired with an A value
	n            int64     // completed pairs
	sum          float64   // sum_i d_i over completed pairs
	latched      bool
}

// NewTwoSamplePairedE constructs a paired two-sample e-process over s,
// testing delta0 against the side's alternative.
func NewTwoSamplePairedE(s spec.ABSpec, side Side, delta0 float64) (*TwoSamplePairedE, error) {
	width := 2 * s.Support.Width()
	return &TwoSamplePairedE{
		abSpec: s,
		side:   side,
		delta0: delta0,
		c:      (width * width) / 8,
		tau:    1 / width,
		gateA:  diagnostics.NewGate(s.Support, s.ClipMode, "TwoSamplePairedE.A"),
		gateB:  diagnostics.NewGate(s.Support, s.ClipMode, "TwoSamplePairedE.B"),
	}, nil
}

// UpdateA folds one arm-A observation into the e-process, pairing it
// with the oldest unpaired arm-B observation if one is already queued.
func (e *TwoSamplePairedE) UpdateA(x float64) error {
	checked, applied, err := e.gateA.Check(x, e.nA)
	if err != nil {
		return err
	}
	e.nA++
	if applied {
		e.queueA = append(e.queueA, checked)
		e.drainPairs()
	}
	if e.snapshot().Decision == Reject {
		e.latched = true
	}
	return nil
}

// UpdateB folds one arm-B observation into the e-process, pairing it
// with the oldest unpaired arm-A observation if one is already queued.
func (e *TwoSamplePairedE) UpdateB(x float64) error {
	checked, applied, err := e.gateB.Check(x, e.nB)
	if err != nil {
		return err
	}
	e.nB++
	if applied {
		e.queueB = append(e.queueB, checked)
		e.drainPairs()
	}
	if e.snapshot().Decision == Reject {
		e.latched = true
	}
	return nil
}

// drainPairs consumes matched (A, B) pairs off the two FIFO queues in
// arrival order, mirroring TwoSampleMeanMixtureE.update's
// while-both-queues-nonempty loop.
func (e *TwoSamplePairedE) drainPairs() {
	for len(e.queueA) > 0 && len(e.queueB) > 0 {
		a := e.queueA[0]
		b := e.queueB[0]
		e.queueA = e.queueA[1:]
		e.queueB = e.queueB[1:]
		e.sum += b - a - e.delta0
		e.n++
	}
}

func (e *TwoSamplePairedE) Snapshot() EValue {
	return e.snapshot()
}

func (e *TwoSamplePairedE) Reset() {
	e.gateA.Reset()
	e.gateB.Reset()
	e.nA, e.nB = 0, 0
	e.queueA, e.queueB = nil, nil
	e.n = 0
	e.sum = 0
	e.latched = false
}

func (e *TwoSamplePairedE) snapshot() EValue {
	logE := 0.0
	if e.n > 0 {
		logE = e.logMixtureEValue()
	}
	diag := diagnostics.Merge(e.gateA.Snapshot(), e.gateB.Snapshot())
	tier := e.gateA.Tier().Worst(e.gateB.Tier())
	return snapshotFromLogE(e.n, logE, e.abSpec.Alpha, e.latched, tier, diag)
}

func (e *TwoSamplePairedE) logMixtureEValue() float64 {
	switch e.side {
	case SideGE:
		return e.logEFromSum(e.sum)
	case SideLE:
		return e.logEFromSum(-e.sum)
	case SideTwo:
		return logSumExp([]float64{e.logEFromSum(e.sum), e.logEFromSum(-e.sum)}) - math.Log(2)
	default:
		panic("evalue: unhandled Side")
	}
}

// logEFromSum evaluates the one-sided (SideGE) log e-value for a
// completed-pair sum s over e.n pairs, per
// TwoSampleMeanMixtureE._e_from_sum:
//
//	a = c*n + 1/(2*tau^2)
//	e = exp(s^2/(4a)) * (1+erf(s/(2*sqrt(a)))) / (tau*sqrt(2a))
func (e *TwoSamplePairedE) logEFromSum(s float64) float64 {
	n := float64(e.n)
	a := e.c*n + 1/(2*e.tau*e.tau)
	sqrtA := math.Sqrt(a)
	z := s / (2 * sqrtA)

	logExpTerm := (s * s) / (4 * a)

	return logExpTerm + math.Log1p(math.Erf(z)) - math.Log(e.tau) - 0.5*math.Log(2*a)
}
