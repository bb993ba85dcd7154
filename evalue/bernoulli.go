package evalue

import (
	"math"

	"anytime/diagnostics"
	"anytime/errs"
	"anytime/spec"
)

// betaPriorA, betaPriorB mirror the CS package's default Jeffreys prior
// (Beta(1/2,1/2)).
const (
	betaPriorA = 0.5
	betaPriorB = 0.5
)

// BernoulliMixtureE is a one-sample e-process for testing a Bernoulli
// rate against a fixed null theta0, using a beta-binomial mixture
// martingale evaluated at theta0 (spec.md §4.5). For Side=SideTwo the
// mixture integrates the full Beta(a,b) prior over (0,1), which is
// exactly the marginal likelihood used by BernoulliMixtureCS, so the
// closed-form log-Beta-function difference (spec.md §4.5.1) applies
// directly. For the one-sided sides the prior is truncated to the
// alternative's half of (0,1) and renormalized, following
// original_source/anytime/evalues/bernoulli.py's use of the regularized
// incomplete beta function (scipy.special.betainc) to express the
// truncated mass exactly, rather than by quadrature.
type BernoulliMixtureE struct {
	streamSpec spec.StreamSpec
	side       Side
	theta0     float64
	a, b       float64

	gate    *diagnostics.Gate
	n       int64
	sum     float64
	latched bool
}

// NewBernoulliMixtureE constructs a one-sample Bernoulli e-process.
// theta0 must lie strictly inside (0,1).
func NewBernoulliMixtureE(s spec.StreamSpec, side Side, theta0 float64) (*BernoulliMixtureE, error) {
	return NewBernoulliMixtureEWithPrior(s, side, theta0, betaPriorA, betaPriorB)
}

// NewBernoulliMixtureEWithPrior is NewBernoulliMixtureE with an
// explicit Beta(a,b) prior (see SPEC_FULL.md §4 supplemented features).
func NewBernoulliMixtureEWithPrior(s spec.StreamSpec, side Side, theta0, a, b float64) (*BernoulliMixtureE, error) {
	if s.Kind != spec.Bernoulli {
		return nil, errs.NewConfigError("BernoulliMixtureE", "kind", "requires kind=bernoulli, got %v", s.Kind)
	}
	if !(theta0 > 0 && theta0 < 1) {
		return nil, errs.NewConfigError("BernoulliMixtureE", "theta0", "must be in (0,1), got %v", theta0)
	}
	if a <= 0 || b <= 0 {
		return nil, errs.NewConfigError("BernoulliMixtureE", "prior", "beta prior parameters must be positive")
	}
	return &BernoulliMixtureE{
		streamSpec: s,
		side:       side,
		theta0:     theta0,
		a:          a,
		b:          b,
		gate:       diagnostics.NewGate(s.Support, s.ClipMode, "BernoulliMixtureE"),
	}, nil
}

func (e *BernoulliMixtureE) Update(x float64) error {
	checked, applied, err := e.gate.Check(x, e.n)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	if checked != 0 && checked != 1 {
		return errs.NewAssumptionViolationError("BernoulliMixtureE", e.n, checked, "bernoulli data must be 0 or 1")
	}
	e.sum += checked
	e.n++
	if snap := e.snapshot(); snap.Decision == Reject {
		e.latched = true
	}
	return nil
}

func (e *BernoulliMixtureE) Snapshot() EValue {
	return e.snapshot()
}

func (e *BernoulliMixtureE) Reset() {
	e.gate.Reset()
	e.n = 0
	e.sum = 0
	e.latched = false
}

func (e *BernoulliMixtureE) snapshot() EValue {
	logE := 0.0
	if e.n > 0 {
		logE = e.logMixtureEValue()
	}
	return snapshotFromLogE(e.n, logE, e.streamSpec.Alpha, e.latched, e.gate.Tier(), e.gate.Snapshot())
}

// logMixtureEValue follows BernoulliMixtureE.evalue in
// original_source/anytime/evalues/bernoulli.py exactly: the binomial
// coefficient C(n,s) cancels between the mixture marginal and the null
// sequence likelihood and so never appears; the posterior Beta(s+a,f+b)
// vs. prior Beta(a,b) ratio is the closed-form log-Beta-function
// difference spec.md §4.5.1 requires, and the one-sided sides restate it
// as a tail-mass ratio via the regularized incomplete beta function.
func (e *BernoulliMixtureE) logMixtureEValue() float64 {
	s, n := e.sum, float64(e.n)
	f := n - s

	logBetaRatio := logBetaFunc(s+e.a, f+e.b) - logBetaFunc(e.a, e.b)
	logNullLikelihood := s*math.Log(e.theta0) + f*math.Log1p(-e.theta0)

	var logTail, logMass float64
	switch e.side {
	case SideTwo:
		logTail, logMass = 0, 0
	case SideGE:
		incDen := regularizedIncompleteBeta(e.a, e.b, e.theta0)
		incNum := regularizedIncompleteBeta(s+e.a, f+e.b, e.theta0)
		logTail = math.Log1p(-incNum)
		logMass = math.Log1p(-incDen)
	case SideLE:
		incDen := regularizedIncompleteBeta(e.a, e.b, e.theta0)
		incNum := regularizedIncompleteBeta(s+e.a, f+e.b, e.theta0)
		logTail = math.Log(incNum)
		logMass = math.Log(incDen)
	default:
		panic("evalue: unhandled Side")
	}

	return logBetaRatio + logTail - logMass - logNullLikelihood
}

// logBetaFunc is the exact closed-form log of the Beta function,
// matching cs.logBetaFunc (kept package-local since evalue and cs share
// no internal package for it).
func logBetaFunc(a, b float64) float64 {
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)
	return la + lb - lab
}

// regularizedIncompleteBeta computes I_x(a, b), the CDF of Beta(a, b)
// at x, via the continued-fraction expansion (Numerical Recipes
// §6.4), matching what scipy.special.betainc computes in
// original_source/anytime/evalues/bernoulli.py.
func regularizedIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lgA, _ := math.Lgamma(a)
	lgB, _ := math.Lgamma(b)
	lgAB, _ := math.Lgamma(a + b)
	logFront := lgAB - lgA - lgB + a*math.Log(x) + b*math.Log1p(-x)
	front := math.Exp(logFront)

	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

// betaContinuedFraction evaluates the Lentz continued fraction behind
// the incomplete beta function, as in Numerical Recipes' betacf.
func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIter = 200
		epsTol  = 3e-14
		fpMin   = 1e-300
	)
	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < fpMin {
		d = fpMin
	}
	d = 1 / d
	h := d
	for m := 1; m <= maxIter; m++ {
		m2 := float64(2 * m)
		aa := float64(m) * (b - float64(m)) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpMin {
			d = fpMin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpMin {
			c = fpMin
		}
		d = 1 / d
		h *= d * c

		aa = -(a + float64(m)) * (qab + float64(m)) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpMin {
			d = fpMin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpMin {
			c = fpMin
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < epsTol {
			break
		}
	}
	return h
}

func logSumExp(xs []float64) float64 {
	max := math.Inf(-1)
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}
