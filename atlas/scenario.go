// Package atlas runs Monte Carlo benchmarks over the cs, twosample, and
// evalue methods: it generates synthetic streams from a declared
// Scenario, drives a method across n_sim replicates, and aggregates
// coverage, Type-I error, power, and width into Metrics.
package atlas

import (
	"math"
	"math/rand"

	"anytime/errs"
)

// Distribution is the closed set of stream generators a Scenario can
// draw from.
type Distribution int

const (
	Bernoulli Distribution = iota
	Uniform
	BetaScaled
	BimodalMixture
	DriftBernoulli
)

func (d Distribution) String() string {
	switch d {
	case Bernoulli:
		return "bernoulli"
	case Uniform:
		return "uniform"
	case BetaScaled:
		return "beta_scaled"
	case BimodalMixture:
		return "bimodal_mixture"
	case DriftBernoulli:
		return "drift_bernoulli"
	default:
		panic("atlas: unhandled Distribution")
	}
}

// Scenario is a single benchmark configuration: a data-generating
// process plus the ground truth a run's coverage and power are judged
// against.
type Scenario struct {
	Name         string
	Distribution Distribution
	TrueMean     float64 // one-sample ground truth
	TrueLift     float64 // two-sample ground truth: mean_B - mean_A
	Lo, Hi       float64 // support bounds for Uniform; BetaScaled draws on [0,1] and ignores them
	BetaAlpha    float64 // BetaScaled shape
	BetaBeta     float64
	DriftFrom    float64 // DriftBernoulli start probability
	DriftTo      float64 // DriftBernoulli end probability
	NMax         int64
	Seed         int64
	IsNull       bool // true when TrueMean/TrueLift represents the null hypothesis
}

// Validate checks that a Scenario's parameters are internally
// consistent, in particular that Bernoulli scenarios use the unit
// support.
func (s Scenario) Validate() error {
	if s.NMax <= 0 {
		return errs.NewConfigError("Scenario", "n_max", "must be positive, got %d", s.NMax)
	}
	if s.Distribution == Bernoulli || s.Distribution == DriftBernoulli {
		if s.Lo != 0 || s.Hi != 0 {
			if s.Lo != 0.0 || s.Hi != 1.0 {
				return errs.NewConfigError("Scenario", "support", "bernoulli distributions require support (0,1)")
			}
		}
	}
	return nil
}

// GenerateOneSample draws n_max observations for a one-sample
// scenario, offset by replicate so repeated calls across replicates of
// the same Monte Carlo run draw independent streams.
func (s Scenario) GenerateOneSample(replicate int64) []float64 {
	rng := rand.New(rand.NewSource(s.Seed + replicate))
	n := int(s.NMax)
	out := make([]float64, n)
	switch s.Distribution {
	case Bernoulli:
		for i := range out {
			out[i] = bernoulliSample(rng, s.TrueMean)
		}
	case Uniform:
		for i := range out {
			out[i] = s.Lo + (s.Hi-s.Lo)*rng.Float64()
		}
	case BetaScaled:
		for i := range out {
			out[i] = betaSample(rng, s.BetaAlpha, s.BetaBeta)
		}
	case BimodalMixture:
		alpha1, beta1 := betaParamsFromMean(0.2, 50.0)
		alpha2, beta2 := betaParamsFromMean(0.8, 50.0)
		for i := range out {
			if rng.Float64() < 0.9 {
				out[i] = betaSample(rng, alpha1, beta1)
			} else {
				out[i] = betaSample(rng, alpha2, beta2)
			}
		}
	case DriftBernoulli:
		for i := range out {
			t := float64(i) / math.Max(1, float64(n-1))
			p := s.DriftFrom + t*(s.DriftTo-s.DriftFrom)
			out[i] = bernoulliSample(rng, p)
		}
	default:
		panic("atlas: unhandled Distribution")
	}
	return out
}

// TwoSampleObservation is one paired (arm, value) draw in an A/B
// stream, alternating arms for fair pairing.
type TwoSampleObservation struct {
	Arm   string // "A" or "B"
	Value float64
}

// GenerateTwoSample draws n_max paired observations for a two-sample
// scenario, alternating arms A/B.
func (s Scenario) GenerateTwoSample(replicate int64) []TwoSampleObservation {
	rng := rand.New(rand.NewSource(s.Seed + replicate))
	n := int(s.NMax)
	pA := s.TrueMean - s.TrueLift/2
	pB := s.TrueMean + s.TrueLift/2
	out := make([]TwoSampleObservation, n)

	switch s.Distribution {
	case Bernoulli:
		for i := range out {
			if i%2 == 0 {
				out[i] = TwoSampleObservation{Arm: "A", Value: bernoulliSample(rng, pA)}
			} else {
				out[i] = TwoSampleObservation{Arm: "B", Value: bernoulliSample(rng, pB)}
			}
		}
	default:
		alphaA, betaA := betaParamsFromMean(pA, 12.0)
		alphaB, betaB := betaParamsFromMean(pB, 12.0)
		for i := range out {
			if i%2 == 0 {
				out[i] = TwoSampleObservation{Arm: "A", Value: betaSample(rng, alphaA, betaA)}
			} else {
				out[i] = TwoSampleObservation{Arm: "B", Value: betaSample(rng, alphaB, betaB)}
			}
		}
	}
	return out
}

func bernoulliSample(rng *rand.Rand, p float64) float64 {
	if rng.Float64() < p {
		return 1.0
	}
	return 0.0
}

// betaSample draws from Beta(alpha, beta) via two Gamma draws, since
// math/rand has no native Beta distribution.
func betaSample(rng *rand.Rand, alpha, beta float64) float64 {
	x := gammaSample(rng, alpha)
	y := gammaSample(rng, beta)
	return x / (x + y)
}

// gammaSample draws from Gamma(shape, 1) via Marsaglia-Tsang, the
// standard rejection method for shape >= 1; shape < 1 is boosted via
// the shape+1 identity.
func gammaSample(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return gammaSample(rng, shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

func betaParamsFromMean(mean, concentration float64) (float64, float64) {
	return mean * concentration, (1 - mean) * concentration
}
