package twosample

import (
	"anytime/cs"
	"anytime/spec"
)

// TwoSampleHoeffdingCS is the Minkowski-difference two-sample CS built
// from two HoeffdingCS arms. Valid for both bounded and bernoulli
// kinds; the recommender (recommend package) selects this for bernoulli
// two-sample specs since BernoulliMixtureCS has no direct two-sample
// generalization (spec.md §4.6).
type TwoSampleHoeffdingCS struct {
	*base
}

// NewTwoSampleHoeffdingCS constructs a two-sample Hoeffding CS over s.
func NewTwoSampleHoeffdingCS(s spec.ABSpec) (*TwoSampleHoeffdingCS, error) {
	b, err := newBase(s, func(ss spec.StreamSpec) (cs.CS, error) {
		return cs.NewHoeffdingCS(ss)
	})
	if err != nil {
		return nil, err
	}
	return &TwoSampleHoeffdingCS{base: b}, nil
}
