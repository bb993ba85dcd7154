package twosample

import (
	"anytime/cs"
	"anytime/spec"
)

// TwoSampleEmpiricalBernsteinCS is the Minkowski-difference two-sample
// CS built from two EmpiricalBernsteinCS arms. Narrower than
// TwoSampleHoeffdingCS whenever both arms have low empirical variance,
// at the cost of the n<2 vacuous guard on each arm (spec.md §4.4).
type TwoSampleEmpiricalBernsteinCS struct {
	*base
}

// NewTwoSampleEmpiricalBernsteinCS constructs a two-sample
// Empirical-Bernstein CS over s.
func NewTwoSampleEmpiricalBernsteinCS(s spec.ABSpec) (*TwoSampleEmpiricalBernsteinCS, error) {
	b, err := newBase(s, func(ss spec.StreamSpec) (cs.CS, error) {
		return cs.NewEmpiricalBernsteinCS(ss)
	})
	if err != nil {
		return nil, err
	}
	return &TwoSampleEmpiricalBernsteinCS{base: b}, nil
}
