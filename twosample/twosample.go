// Package twosample implements time-uniform confidence sequences for
// the mean difference Delta = mu_B - mu_A between two independent
// streams (spec.md §4.4), built by taking the Minkowski difference of
// two per-arm one-sample confidence sequences from the cs package, each
// running at level alpha/2 so the union bound recovers the overall
// alpha guarantee.
package twosample

import (
	"anytime/cs"
	"anytime/diagnostics"
	"anytime/spec"
)

// Interval is an immutable two-sample confidence-sequence snapshot for
// Delta = mu_B - mu_A.
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

// CS is the capability set shared by all two-sample confidence sequence
// constructions.
type CS interface {
	UpdateA(x float64) error
	UpdateB(x float64) error
	Interval() Interval
	Reset()
}

// armFactory constructs the per-arm one-sample CS a two-sample CS is
// built from. Both arms use the identical construction at the identical
// per-arm alpha, so B and A are exchangeable (spec.md §4.4: "swapping
// arm labels A and B must produce an interval that is the exact
// negation-and-swap of the original").
type armFactory func(spec.StreamSpec) (cs.CS, error)

// base implements the shared Minkowski-difference machinery. Concrete
// two-sample constructions (TwoSampleHoeffdingCS,
// TwoSampleEmpiricalBernsteinCS) embed it and supply only the arm
// factory.
type base struct {
	abSpec spec.ABSpec
	armA   cs.CS
	armB   cs.CS
}

func newBase(s spec.ABSpec, factory armFactory) (*base, error) {
	// Split alpha across the two arms (spec.md §4.4 "alpha-split union
	// bound"): each one-sample CS runs at alpha/2, so a union bound over
	// both arms' simultaneous failure events recovers overall level
	// alpha for the Minkowski difference.
	armAlpha := s.Alpha / 2

	armA, err := factory(s.AsStreamSpec(armAlpha))
	if err != nil {
		return nil, err
	}
	armB, err := factory(s.AsStreamSpec(armAlpha))
	if err != nil {
		return nil, err
	}
	return &base{abSpec: s, armA: armA, armB: armB}, nil
}

func (b *base) UpdateA(x float64) error { return b.armA.Update(x) }
func (b *base) UpdateB(x float64) error { return b.armB.Update(x) }

func (b *base) Reset() {
	b.armA.Reset()
	b.armB.Reset()
}

func (b *base) Interval() Interval {
	ivA := b.armA.Interval()
	ivB := b.armB.Interval()

	tier := ivA.Tier.Worst(ivB.Tier)
	notes := []string(nil)
	if ivA.T == 0 || ivB.T == 0 {
		// spec.md §4.4: an empty arm makes Delta unidentified; the
		// interval is still well-defined (the empty arm contributes its
		// full support range) but is reported at worst DIAGNOSTIC.
		tier = tier.Worst(spec.Diagnostic)
		notes = append(notes, "one or both arms have n=0: interval is vacuous")
	}

	merged := diagnostics.Merge(ivA.Diagnostics, ivB.Diagnostics)
	merged.Tier = tier
	merged.Notes = append(append([]string{}, merged.Notes...), notes...)

	return Interval{
		T:           minInt64(ivA.T, ivB.T),
		Estimate:    ivB.Estimate - ivA.Estimate,
		Lo:          ivB.Lo - ivA.Hi,
		Hi:          ivB.Hi - ivA.Lo,
		Alpha:       b.abSpec.Alpha,
		Tier:        tier,
		Diagnostics: merged,
	}
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
