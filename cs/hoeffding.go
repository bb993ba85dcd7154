package cs

import (
	"math"

	"anytime/diagnostics"
	"anytime/errs"
	"anytime/estimator"
	"anytime/spec"
)

// hoeffdingRho is the stitching tuning parameter in the time-uniform
// Hoeffding bound (spec.md §4.3.1). Fixed per spec at 1.0. The
// stitching-function family this formula belongs to is due to Howard,
// Ramdas, McAuliffe & Sekhon (2021), "Time-uniform, nonparametric,
// nonasymptotic confidence sequences", Annals of Statistics 49(2).
const hoeffdingRho = 1.0

// HoeffdingCS is a time-uniform confidence sequence for the mean of a
// bounded stream, using the sub-Gaussian stitched bound. Conservative
// but valid for any independent observations in [a,b]; does not adapt
// to variance the way EmpiricalBernsteinCS does.
type HoeffdingCS struct {
	streamSpec spec.StreamSpec
	estimator  *estimator.OnlineMean
	gate       *diagnostics.Gate
}

// NewHoeffdingCS constructs a Hoeffding CS over s. Fails with
// *errs.ConfigError if s.Kind is neither Bounded nor Bernoulli.
func NewHoeffdingCS(s spec.StreamSpec) (*HoeffdingCS, error) {
	if s.Kind != spec.Bounded && s.Kind != spec.Bernoulli {
		return nil, errs.NewConfigError("HoeffdingCS", "kind", "requires bounded or bernoulli data, got %v", s.Kind)
	}
	return &HoeffdingCS{
		streamSpec: s,
		estimator:  estimator.NewOnlineMean(),
		gate:       diagnostics.NewGate(s.Support, s.ClipMode, "HoeffdingCS"),
	}, nil
}

// Update folds one observation into the estimator, after passing it
// through the diagnostics gates.
func (h *HoeffdingCS) Update(x float64) error {
	checked, applied, err := h.gate.Check(x, h.estimator.N())
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	h.estimator.Update(checked)
	return nil
}

// Interval returns the current confidence interval for the mean.
func (h *HoeffdingCS) Interval() Interval {
	n := h.estimator.N()
	support := h.streamSpec.Support
	if n == 0 {
		return Interval{
			T:           0,
			Estimate:    support.Lo + support.Width()/2,
			Lo:          support.Lo,
			Hi:          support.Hi,
			Alpha:       h.streamSpec.Alpha,
			Tier:        h.gate.Tier(),
			Diagnostics: h.gate.Snapshot("n=0: vacuous interval"),
		}
	}

	mean := h.estimator.Mean()
	margin := hoeffdingMargin(support.Width(), h.streamSpec.Alpha, h.streamSpec.TwoSided, n)

	lo := math.Max(support.Lo, mean-margin)
	hi := math.Min(support.Hi, mean+margin)
	if lo > hi {
		// Numerically-degenerate margins clamp to a point at the mean;
		// this can only happen if mean itself sits outside [lo,hi] due
		// to floating point, which cannot happen since mean is a convex
		// combination of already-clipped values. Guard defensively.
		lo, hi = math.Min(lo, hi), math.Max(lo, hi)
	}

	return Interval{
		T:           n,
		Estimate:    mean,
		Lo:          lo,
		Hi:          hi,
		Alpha:       h.streamSpec.Alpha,
		Tier:        h.gate.Tier(),
		Diagnostics: h.gate.Snapshot(),
	}
}

// Reset clears estimator and diagnostics state.
func (h *HoeffdingCS) Reset() {
	h.estimator.Reset()
	h.gate.Reset()
}

// hoeffdingMargin implements spec.md §4.3.1's stitched bound:
//
//	hw(n) = (b-a) * sqrt( (1 + 1/(n*rho^2)) * log( sqrt(n*rho^2+1) / alpha ) / (2*n) )
//
// where alpha is replaced by alpha/2 for two-sided specs (split across
// the two sides) and used as given for one-sided specs. Interval applies
// the resulting margin on both sides of the mean in either case; for a
// one-sided spec the other side is not widened to the support bound.
func hoeffdingMargin(width, alpha float64, twoSided bool, n int64) float64 {
	nf := float64(n)
	rho2 := hoeffdingRho * hoeffdingRho
	effAlpha := alpha
	if twoSided {
		effAlpha = alpha / 2
	}
	logTerm := math.Log(math.Sqrt(nf*rho2+1) / effAlpha)
	inner := (1 + 1/(nf*rho2)) * logTerm / (2 * nf)
	if inner < 0 {
		inner = 0
	}
	return width * math.Sqrt(inner)
}
