package cli

import (
	"fmt"

	"anytime/cs"
	"anytime/errs"
	"anytime/recommend"
	"anytime/spec"
	"anytime/twosample"
)

// resolveCSMethod maps a config method name ("auto", "hoeffding",
// "empirical_bernstein", "bernoulli") to a concrete one-sample
// constructor, using recommend.RecommendCS for "auto". It also returns
// the resolved method name, for logging and manifest purposes, and a
// human-readable reason when the method was auto-selected.
func resolveCSMethod(methodName string, s spec.StreamSpec) (method cs.CS, resolvedName, reason string, err error) {
	name := methodName
	if name == "" || name == "auto" {
		rec := recommend.RecommendCS(s)
		name = string(rec.Method)
		reason = rec.Reason
	}

	switch name {
	case string(recommend.MethodHoeffdingCS), "hoeffding":
		c, err := cs.NewHoeffdingCS(s)
		return c, name, reason, err
	case string(recommend.MethodEmpiricalBernsteinCS), "empirical_bernstein":
		c, err := cs.NewEmpiricalBernsteinCS(s)
		return c, name, reason, err
	case string(recommend.MethodBernoulliMixtureCS), "bernoulli":
		c, err := cs.NewBernoulliMixtureCS(s)
		return c, name, reason, err
	default:
		return nil, "", "", errs.NewConfigError("mean", "method", "unknown method: %s", methodName)
	}
}

// resolveTwoSampleMethod maps a config method name to a concrete
// two-sample constructor, also returning the resolved method name.
func resolveTwoSampleMethod(methodName string, s spec.ABSpec) (method twosample.CS, resolvedName, reason string, err error) {
	name := methodName
	if name == "" || name == "auto" {
		rec := recommend.RecommendAB(s)
		name = string(rec.Method)
		reason = rec.Reason
	}

	switch name {
	case string(recommend.MethodTwoSampleHoeffdingCS), "hoeffding":
		c, err := twosample.NewTwoSampleHoeffdingCS(s)
		return c, name, reason, err
	case string(recommend.MethodTwoSampleEmpiricalBernstein), "empirical_bernstein":
		c, err := twosample.NewTwoSampleEmpiricalBernsteinCS(s)
		return c, name, reason, err
	default:
		return nil, "", "", errs.NewConfigError("abtest", "method", "unknown method: %s", methodName)
	}
}

func diagnosticsSummary(diag diagnosticsView) string {
	if !diag.present {
		return ""
	}
	return fmt.Sprintf("tier=%s, missing=%d, out_of_range=%d, clipped=%d, drift=%v",
		diag.tier, diag.missing, diag.outOfRange, diag.clipped, diag.drift)
}

// diagnosticsView is a rendering-friendly projection of a
// diagnostics.Snapshot, decoupling the CLI's formatting from the
// snapshot's internal field names.
type diagnosticsView struct {
	present    bool
	tier       string
	missing    int64
	outOfRange int64
	clipped    int64
	drift      bool
}
