// Package cs implements the one-sample time-uniform confidence
// sequences: Hoeffding, Empirical-Bernstein, and Bernoulli mixture
// (spec.md §4.3). All three share the same {Update, Interval, Reset}
// capability set so twosample and recommend can depend on the
// interface, not the concrete construction (spec.md §9 design notes).
package cs

import "anytime/diagnostics"
import "anytime/spec"

// Interval is an immutable confidence-sequence snapshot, valid
// uniformly over all prior time steps with probability >= 1-alpha under
// the method's stated assumptions. Once returned it is never mutated.
type Interval struct {
	T           int64
	Estimate    float64
	Lo          float64
	Hi          float64
	Alpha       float64
	Tier        spec.GuaranteeTier
	Diagnostics diagnostics.Snapshot
}

// Width returns Hi - Lo.
func (iv Interval) Width() float64 { return iv.Hi - iv.Lo }

// CS is the capability set shared by all one-sample confidence
// sequence constructions. Two-sample CS and the recommender depend
// only on this interface.
type CS interface {
	Update(x float64) error
	Interval() Interval
	Reset()
}
