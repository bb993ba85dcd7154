// Package evalue implements time-uniform e-processes for testing point
// and composite hypotheses under optional stopping (spec.md §4.5): a
// one-sample Bernoulli mixture e-process and a two-sample paired
// bounded-mixture e-process. Both accumulate in log-space and latch
// their rejection decision once triggered, since an e-process is only
// guaranteed valid up to (and including) the first crossing of 1/alpha.
package evalue

import (
	"math"

	"anytime/diagnostics"
	"anytime/spec"
)

// logEValueCeiling caps the exponentiated e-value reported to callers.
// The underlying log-value is never clamped internally (so the
// crossing test itself stays exact); this ceiling only prevents E from
// overflowing to +Inf in the public snapshot once evidence against the
// null becomes astronomically large.
const logEValueCeiling = 700 // exp(700) is close to float64's max exponent

// Decision is the closed set of e-process test outcomes.
type Decision int

const (
	Pending Decision = iota
	Reject
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Reject:
		return "reject"
	default:
		panic("evalue: unhandled Decision")
	}
}

// Side selects which composite alternative a one-sample e-process
// targets.
type Side int

const (
	// SideGE tests H0: theta <= theta0 against theta > theta0.
	SideGE Side = iota
	// SideLE tests H0: theta >= theta0 against theta < theta0.
	SideLE
	// SideTwo tests H0: theta == theta0 against theta != theta0.
	SideTwo
)

func (s Side) String() string {
	switch s {
	case SideGE:
		return "ge"
	case SideLE:
		return "le"
	case SideTwo:
		return "two"
	default:
		panic("evalue: unhandled Side")
	}
}

// EValue is an immutable e-process snapshot. E is always >= 0 and
// E==1 at t==0 (a fair process has not yet accumulated any evidence).
// Once Decision==Reject it stays Reject forever, even if a later
// observation would otherwise pull E back under 1/alpha (spec.md §4.5:
// "the rejection decision latches").
type EValue struct {
	T           int64
	LogE        float64
	E           float64
	Decision    Decision
	Alpha       float64
	Tier        spec.GuaranteeTier
	Diagnostics diagnostics.Snapshot
}

// snapshotFromLogE exponentiates a log-e-value into the public E field,
// clamped at logEValueCeiling to keep E finite and comparable.
func snapshotFromLogE(t int64, logE, alpha float64, latched bool, tier spec.GuaranteeTier, diag diagnostics.Snapshot) EValue {
	threshold := math.Log(1 / alpha)
	decision := Pending
	if latched || logE >= threshold {
		decision = Reject
	}
	reportLogE := logE
	if reportLogE > logEValueCeiling {
		reportLogE = logEValueCeiling
	}
	return EValue{
		T:           t,
		LogE:        logE,
		E:           math.Exp(reportLogE),
		Decision:    decision,
		Alpha:       alpha,
		Tier:        tier,
		Diagnostics: diag,
	}
}
