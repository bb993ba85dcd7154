// Package recommend implements the deterministic method-selection table
// of spec.md §4.6: given a stream's declared kind (and, for a running
// stream, its current diagnostics), recommend which concrete
// confidence-sequence or e-process construction to use.
package recommend

import (
	"anytime/diagnostics"
	"anytime/spec"
)

// Method names the concrete construction a Recommendation points to.
// These match the exported constructor names in cs/twosample/evalue 1:1
// so callers can dispatch without a second lookup table.
type Method string

const (
	MethodHoeffdingCS               Method = "HoeffdingCS"
	MethodEmpiricalBernsteinCS      Method = "EmpiricalBernsteinCS"
	MethodBernoulliMixtureCS        Method = "BernoulliMixtureCS"
	MethodTwoSampleHoeffdingCS      Method = "TwoSampleHoeffdingCS"
	MethodTwoSampleEmpiricalBernstein Method = "TwoSampleEmpiricalBernsteinCS"
)

// Recommendation is the result of a recommend call: which method to
// use, why, and the guarantee tier a caller should expect if nothing
// goes wrong.
type Recommendation struct {
	Method       Method
	Reason       string
	TierExpected spec.GuaranteeTier
}

// RecommendCS picks a one-sample confidence sequence construction for a
// freshly-declared StreamSpec, before any data has been observed.
func RecommendCS(s spec.StreamSpec) Recommendation {
	if s.Kind == spec.Bernoulli {
		return Recommendation{
			Method:       MethodBernoulliMixtureCS,
			Reason:       "bernoulli kind: the beta-binomial mixture is uniformly tighter than the bounded-data bounds",
			TierExpected: spec.Guaranteed,
		}
	}
	return Recommendation{
		Method:       MethodEmpiricalBernsteinCS,
		Reason:       "bounded kind: empirical-bernstein adapts to observed variance and is never wider than hoeffding asymptotically",
		TierExpected: spec.Guaranteed,
	}
}

// RecommendCSWithDiagnostics re-evaluates the recommendation for a
// stream already in flight, given its current diagnostics snapshot. Per
// spec.md §4.6, a bounded stream that has tripped the drift heuristic
// should fall back from EmpiricalBernsteinCS to HoeffdingCS: the
// variance-adaptive bound's advantage assumes a roughly stationary
// variance, which a detected drift calls into question.
func RecommendCSWithDiagnostics(s spec.StreamSpec, diag diagnostics.Snapshot) Recommendation {
	base := RecommendCS(s)
	if s.Kind == spec.Bounded && diag.DriftDetected {
		return Recommendation{
			Method:       MethodHoeffdingCS,
			Reason:       "bounded kind with drift detected: falling back to the variance-agnostic hoeffding bound",
			TierExpected: diag.Tier,
		}
	}
	base.TierExpected = diag.Tier
	return base
}

// RecommendAB picks a two-sample confidence sequence construction for a
// freshly-declared ABSpec.
func RecommendAB(s spec.ABSpec) Recommendation {
	if s.Kind == spec.Bernoulli {
		return Recommendation{
			Method:       MethodTwoSampleHoeffdingCS,
			Reason:       "bernoulli two-sample: BernoulliMixtureCS has no direct Minkowski-difference generalization, so both arms use hoeffding",
			TierExpected: spec.Guaranteed,
		}
	}
	return Recommendation{
		Method:       MethodTwoSampleEmpiricalBernstein,
		Reason:       "bounded two-sample: empirical-bernstein arms adapt to per-arm variance",
		TierExpected: spec.Guaranteed,
	}
}

// RecommendABWithDiagnostics is RecommendAB's runtime counterpart,
// mirroring RecommendCSWithDiagnostics's drift fallback.
func RecommendABWithDiagnostics(s spec.ABSpec, diag diagnostics.Snapshot) Recommendation {
	base := RecommendAB(s)
	if s.Kind == spec.Bounded && diag.DriftDetected {
		return Recommendation{
			Method:       MethodTwoSampleHoeffdingCS,
			Reason:       "bounded two-sample with drift detected: falling back to the variance-agnostic hoeffding bound",
			TierExpected: diag.Tier,
		}
	}
	base.TierExpected = diag.Tier
	return base
}
