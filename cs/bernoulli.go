package cs

import (
	"math"

	"anytime/diagnostics"
	"anytime/errs"
	"anytime/estimator"
	"anytime/spec"
)

// betaPriorA, betaPriorB are the conjugate Beta(1/2,1/2) (Jeffreys)
// prior parameters spec.md §4.3.3 fixes as the default.
const (
	betaPriorA = 0.5
	betaPriorB = 0.5
)

// BernoulliMixtureCS is a time-uniform confidence sequence for a
// Bernoulli (0/1) rate, using a beta-binomial mixture martingale
// (spec.md §4.3.3). Strictly tighter than HoeffdingCS/
// EmpiricalBernsteinCS on Bernoulli regimes. Both endpoints are found
// by 1-D bisection on the monotone test statistic.
type BernoulliMixtureCS struct {
	streamSpec spec.StreamSpec
	a, b       float64 // beta prior parameters
	estimator  *estimator.OnlineMean
	sum        float64 // number of successes observed
	gate       *diagnostics.Gate
}

// NewBernoulliMixtureCS constructs a Bernoulli mixture CS over s, which
// must declare Kind=Bernoulli and Support=(0,1).
func NewBernoulliMixtureCS(s spec.StreamSpec) (*BernoulliMixtureCS, error) {
	return NewBernoulliMixtureCSWithPrior(s, betaPriorA, betaPriorB)
}

// NewBernoulliMixtureCSWithPrior is NewBernoulliMixtureCS with an
// explicit Beta(a,b) prior, a feature the distilled spec.md is silent
// on but the original Python implementation exposes as a constructor
// parameter (see SPEC_FULL.md §4 "supplemented features").
func NewBernoulliMixtureCSWithPrior(s spec.StreamSpec, a, b float64) (*BernoulliMixtureCS, error) {
	if s.Kind != spec.Bernoulli {
		return nil, errs.NewConfigError("BernoulliMixtureCS", "kind", "requires kind=bernoulli, got %v", s.Kind)
	}
	if s.Support != spec.DefaultBernoulliSupport {
		return nil, errs.NewConfigError("BernoulliMixtureCS", "support", "requires support=(0.0, 1.0)")
	}
	if a <= 0 || b <= 0 {
		return nil, errs.NewConfigError("BernoulliMixtureCS", "prior", "beta prior parameters must be positive")
	}
	return &BernoulliMixtureCS{
		streamSpec: s,
		a:          a,
		b:          b,
		estimator:  estimator.NewOnlineMean(),
		gate:       diagnostics.NewGate(s.Support, s.ClipMode, "BernoulliMixtureCS"),
	}, nil
}

func (m *BernoulliMixtureCS) Update(x float64) error {
	checked, applied, err := m.gate.Check(x, m.estimator.N())
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	if checked != 0 && checked != 1 {
		return errs.NewAssumptionViolationError("BernoulliMixtureCS", m.estimator.N(), checked,
			"bernoulli data must be 0 or 1")
	}
	m.sum += checked
	m.estimator.Update(checked)
	return nil
}

func (m *BernoulliMixtureCS) Interval() Interval {
	n := m.estimator.N()
	if n == 0 {
		return Interval{
			T:           0,
			Estimate:    0.5,
			Lo:          0,
			Hi:          1,
			Alpha:       m.streamSpec.Alpha,
			Tier:        m.gate.Tier(),
			Diagnostics: m.gate.Snapshot("n=0: full-support interval"),
		}
	}

	mean := m.estimator.Mean()
	// One-sided intervals use 2*alpha in the e-value threshold, giving a
	// tighter bound; two-sided intervals use alpha directly.
	alphaThreshold := 2 * m.streamSpec.Alpha
	if m.streamSpec.TwoSided {
		alphaThreshold = m.streamSpec.Alpha
	}
	target := math.Log(1 / alphaThreshold)
	f := func(p float64) float64 {
		return logBetaBinomialTestStat(m.sum, float64(n), m.a, m.b, p) - target
	}

	const eps = 1e-12
	var lo, hi float64
	switch {
	case m.sum == 0:
		lo = 0
		hi = findUpperRoot(f, eps, 1-eps, mean)
	case m.sum == float64(n):
		hi = 1
		lo = findLowerRoot(f, eps, mean)
	default:
		lo = findLowerRoot(f, eps, mean)
		hi = findUpperRoot(f, eps, 1-eps, mean)
	}

	return Interval{
		T:           n,
		Estimate:    mean,
		Lo:          lo,
		Hi:          hi,
		Alpha:       m.streamSpec.Alpha,
		Tier:        m.gate.Tier(),
		Diagnostics: m.gate.Snapshot(),
	}
}

func (m *BernoulliMixtureCS) Reset() {
	m.estimator.Reset()
	m.gate.Reset()
	m.sum = 0
}

// logBetaBinomialTestStat computes
//
//	log BetaBin(s,n;a,b) - s*log(p) - f*log(1-p)
//
// per spec.md §4.3.3, where the Beta-Binomial marginal's binomial
// coefficient term cancels out of the CS boundary condition (it does
// not depend on p), leaving the Beta-function ratio.
func logBetaBinomialTestStat(s, n, a, b, p float64) float64 {
	if p <= 0 || p >= 1 {
		return math.Inf(1)
	}
	f := n - s
	return logBetaFunc(s+a, f+b) - logBetaFunc(a, b) - s*math.Log(p) - f*math.Log1p(-p)
}

func logBetaFunc(a, b float64) float64 {
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)
	return la + lb - lab
}

// findLowerRoot and findUpperRoot bisect the monotone test statistic to
// locate the CS boundary below/above the point estimate, mirroring the
// bracket logic of the original Python implementation's brentq calls
// but using a self-contained bisection (no external root finder is
// wired here: the pack carries no numerical-optimization library, and a
// hand-rolled 80-iteration bisection on a function this well-behaved
// converges to well under 1e-15 absolute p-error, comfortably inside
// any interval-endpoint tolerance this spec needs).
func findLowerRoot(f func(float64) float64, eps, mean float64) float64 {
	if mean <= eps {
		return 0
	}
	left, right := eps, mean
	if f(left) <= 0 {
		return 0
	}
	if f(right) >= 0 {
		return right
	}
	return bisect(f, left, right)
}

func findUpperRoot(f func(float64) float64, eps, hi, mean float64) float64 {
	if mean >= hi {
		return 1
	}
	left, right := mean, hi
	if f(right) <= 0 {
		return 1
	}
	if f(left) >= 0 {
		return left
	}
	return bisect(f, left, right)
}

// bisect finds a root of f in [lo,hi] assuming f(lo) and f(hi) have
// opposite signs. 80 iterations gets well under 1e-20 relative bracket
// width, far tighter than any interval endpoint needs to be.
func bisect(f func(float64) float64, lo, hi float64) float64 {
	flo := f(lo)
	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if fm == 0 {
			return mid
		}
		if (fm < 0) == (flo < 0) {
			lo = mid
			flo = fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
