package atlas

import "fmt"

// StoppingIntervalView is the subset of a CS/twosample Interval a
// StoppingRule needs to decide whether to stop, kept narrow so the
// same rule works for one-sample and two-sample runs.
type StoppingIntervalView struct {
	Lo, Hi float64
}

// StoppingRule decides whether a benchmark replicate should stop at
// step t, given the interval observed so far. A nil StoppingRule means
// run to the scenario's horizon (fixed_horizon in the original
// terminology).
type StoppingRule struct {
	Name string
	Fn   func(iv StoppingIntervalView, t int64) bool
}

// ExcludeThresholdRule stops the first time the interval excludes
// threshold, in the given direction.
func ExcludeThresholdRule(threshold float64, direction ExcludeDirection) StoppingRule {
	return StoppingRule{
		Name: fmt.Sprintf("exclude_%s_%v", direction, threshold),
		Fn: func(iv StoppingIntervalView, _ int64) bool {
			switch direction {
			case DirectionLower:
				return iv.Lo > threshold
			case DirectionUpper:
				return iv.Hi < threshold
			default:
				return iv.Lo > threshold || iv.Hi < threshold
			}
		},
	}
}

// ExcludeDirection selects which side of an ExcludeThresholdRule must
// clear the threshold to stop.
type ExcludeDirection int

const (
	DirectionBoth ExcludeDirection = iota
	DirectionLower
	DirectionUpper
)

func (d ExcludeDirection) String() string {
	switch d {
	case DirectionBoth:
		return "both"
	case DirectionLower:
		return "lower"
	case DirectionUpper:
		return "upper"
	default:
		panic("atlas: unhandled ExcludeDirection")
	}
}

// PeriodicRule wraps inner so it only fires on steps that are
// multiples of every, modeling a sequential test that only looks at
// the data on a fixed cadence.
func PeriodicRule(every int64, inner StoppingRule) StoppingRule {
	return StoppingRule{
		Name: fmt.Sprintf("periodic_%d_%s", every, inner.Name),
		Fn: func(iv StoppingIntervalView, t int64) bool {
			return t%every == 0 && inner.Fn(iv, t)
		},
	}
}
