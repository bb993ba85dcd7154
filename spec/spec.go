// Package spec defines the immutable configuration records for anytime
// inference: StreamSpec for one-sample streams and ABSpec for two-sample
// A/B streams. Both validate at construction and fail with
// errs.ConfigError on any violation; neither ever arises from data.
package spec

import "anytime/errs"

// StreamSpec is the immutable configuration for one-sample streaming
// inference. Construct with NewStreamSpec, never as a bare struct
// literal outside this package's tests, so validation always runs.
type StreamSpec struct {
	Alpha     float64
	Kind      Kind
	Support   Support
	TwoSided  bool
	ClipMode  ClipMode
	Name      string
}

// StreamSpecParams mirrors StreamSpec's fields but leaves Support as a
// pointer so callers can omit it for Bernoulli streams, matching
// spec.md §3: "support = (a,b) ... for bernoulli, must be (0,1) or
// omitted and treated as (0,1)".
type StreamSpecParams struct {
	Alpha    float64
	Kind     Kind
	Support  *Support
	TwoSided bool
	ClipMode ClipMode
	Name     string
}

// NewStreamSpec validates params and returns an immutable StreamSpec, or
// an *errs.ConfigError describing the first violation found.
func NewStreamSpec(p StreamSpecParams) (StreamSpec, error) {
	if err := validateAlpha("StreamSpec", p.Alpha); err != nil {
		return StreamSpec{}, err
	}

	support, err := resolveSupport("StreamSpec", p.Kind, p.Support)
	if err != nil {
		return StreamSpec{}, err
	}

	if err := validateClipMode("StreamSpec", p.ClipMode); err != nil {
		return StreamSpec{}, err
	}

	return StreamSpec{
		Alpha:    p.Alpha,
		Kind:     p.Kind,
		Support:  support,
		TwoSided: p.TwoSided,
		ClipMode: p.ClipMode,
		Name:     p.Name,
	}, nil
}

// ABSpec is the immutable configuration for two-sample A/B streaming
// inference, governed by the mean difference Delta = mu_B - mu_A.
type ABSpec struct {
	Alpha    float64
	Kind     Kind
	Support  Support
	TwoSided bool
	ClipMode ClipMode
	Name     string
}

type ABSpecParams struct {
	Alpha    float64
	Kind     Kind
	Support  *Support
	TwoSided bool
	ClipMode ClipMode
	Name     string
}

// NewABSpec validates params and returns an immutable ABSpec. Per
// spec.md §3, two-sample CS in v1 requires TwoSided=true; one-sided
// two-sample constructions are permitted only via the e-process side
// parameter (evalue package), not via ABSpec itself.
func NewABSpec(p ABSpecParams) (ABSpec, error) {
	if err := validateAlpha("ABSpec", p.Alpha); err != nil {
		return ABSpec{}, err
	}

	support, err := resolveSupport("ABSpec", p.Kind, p.Support)
	if err != nil {
		return ABSpec{}, err
	}

	if err := validateClipMode("ABSpec", p.ClipMode); err != nil {
		return ABSpec{}, err
	}

	if !p.TwoSided {
		return ABSpec{}, errs.NewConfigError("ABSpec", "two_sided",
			"two-sample confidence sequences require two_sided=true in v1")
	}

	return ABSpec{
		Alpha:    p.Alpha,
		Kind:     p.Kind,
		Support:  support,
		TwoSided: p.TwoSided,
		ClipMode: p.ClipMode,
		Name:     p.Name,
	}, nil
}

// AsStreamSpec projects an ABSpec's shared fields into a StreamSpec at a
// caller-chosen alpha, for constructing the per-arm one-sample CS a
// two-sample CS is built from (spec.md §4.4).
func (s ABSpec) AsStreamSpec(alpha float64) StreamSpec {
	return StreamSpec{
		Alpha:    alpha,
		Kind:     s.Kind,
		Support:  s.Support,
		TwoSided: s.TwoSided,
		ClipMode: s.ClipMode,
		Name:     s.Name,
	}
}

func validateAlpha(method string, alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return errs.NewConfigError(method, "alpha", "must be in (0,1), got %v", alpha)
	}
	return nil
}

func validateClipMode(method string, mode ClipMode) error {
	switch mode {
	case ClipModeError, ClipModeClip:
		return nil
	default:
		return errs.NewConfigError(method, "clip_mode", "must be 'error' or 'clip', got %v", int(mode))
	}
}

func resolveSupport(method string, kind Kind, support *Support) (Support, error) {
	switch kind {
	case Bounded:
		if support == nil {
			return Support{}, errs.NewConfigError(method, "support",
				"bounded kind requires support=(lo, hi) with finite bounds")
		}
		if !(support.Lo < support.Hi) {
			return Support{}, errs.NewConfigError(method, "support",
				"support lower >= upper: (%v, %v)", support.Lo, support.Hi)
		}
		return *support, nil
	case Bernoulli:
		if support == nil {
			return DefaultBernoulliSupport, nil
		}
		if *support != DefaultBernoulliSupport {
			return Support{}, errs.NewConfigError(method, "support",
				"bernoulli kind requires support=(0.0, 1.0), got (%v, %v)", support.Lo, support.Hi)
		}
		return *support, nil
	default:
		return Support{}, errs.NewConfigError(method, "kind", "unsupported kind %v", int(kind))
	}
}
