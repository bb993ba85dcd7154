package atlas

import (
	"fmt"
	"time"

	"anytime/cs"
	"anytime/evalue"
	"anytime/twosample"

	"github.com/dgraph-io/ristretto"
)

// CSFactory builds a fresh one-sample confidence sequence for one
// replicate. Runner calls it once per replicate so state never leaks
// across simulations.
type CSFactory func() (cs.CS, error)

// TwoSampleFactory builds a fresh two-sample confidence sequence for
// one replicate.
type TwoSampleFactory func() (twosample.CS, error)

// EValueFactory builds a fresh one-sample e-process for one replicate.
// Runner tracks the replicate-level decision rate but does not affect
// stopping.
type EValueFactory func() (EValueTracker, error)

// EValueTracker is the subset of evalue.BernoulliMixtureE (or any
// one-sample e-process) the runner needs to track decisions.
type EValueTracker interface {
	Update(x float64) error
	Snapshot() evalue.EValue
}

// TwoSampleEValueFactory builds a fresh two-sample e-process for one
// replicate. Runner tracks the replicate-level decision rate but does
// not affect stopping.
type TwoSampleEValueFactory func() (TwoSampleEValueTracker, error)

// TwoSampleEValueTracker is the subset of evalue.TwoSamplePairedE the
// runner needs to track decisions, arm-tagged like twosample.CS.
type TwoSampleEValueTracker interface {
	UpdateA(x float64) error
	UpdateB(x float64) error
	Snapshot() evalue.EValue
}

// Runner drives Monte Carlo benchmarks over cs/twosample/evalue
// constructions. It memoizes generated scenario data across methods
// sharing a run, via a ristretto cache, so different methods being
// compared on the same scenario see identical draws.
type Runner struct {
	nSim   int
	worstK int
	cache  *ristretto.Cache
}

// NewRunner builds a Runner that simulates nSim replicates per
// scenario and retains the worstK replicates by coverage margin.
func NewRunner(nSim, worstK int) (*Runner, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("atlas: building data cache: %w", err)
	}
	return &Runner{nSim: nSim, worstK: worstK, cache: cache}, nil
}

func (r *Runner) oneSampleData(scenario Scenario, replicate int64) []float64 {
	key := fmt.Sprintf("1s/%s/%d", scenario.Name, replicate)
	if cached, found := r.cache.Get(key); found {
		return cached.([]float64)
	}
	data := scenario.GenerateOneSample(replicate)
	r.cache.Set(key, data, int64(len(data)*8))
	return data
}

func (r *Runner) twoSampleData(scenario Scenario, replicate int64) []TwoSampleObservation {
	key := fmt.Sprintf("2s/%s/%d", scenario.Name, replicate)
	if cached, found := r.cache.Get(key); found {
		return cached.([]TwoSampleObservation)
	}
	data := scenario.GenerateTwoSample(replicate)
	r.cache.Set(key, data, int64(len(data)*16))
	return data
}

// RunOneSample benchmarks a one-sample method against scenario across
// r.nSim replicates. rule, if non-nil, stops a replicate early; ef, if
// non-nil, tracks e-process decisions alongside the confidence
// sequence.
func (r *Runner) RunOneSample(scenario Scenario, factory CSFactory, rule *StoppingRule, ef EValueFactory) (Metrics, error) {
	if err := scenario.Validate(); err != nil {
		return Metrics{}, err
	}

	var (
		anytimeCovered, finalCovered, stopped, decided int
		widths                                         []float64
		stopTimes                                      []int64
		runtimes                                       []float64
	)
	tracker := newWorstKTracker(r.worstK)

	for i := int64(0); i < int64(r.nSim); i++ {
		t0 := time.Now()
		data := r.oneSampleData(scenario, i)

		method, err := factory()
		if err != nil {
			return Metrics{}, err
		}
		var eTracker EValueTracker
		if ef != nil {
			eTracker, err = ef()
			if err != nil {
				return Metrics{}, err
			}
		}

		coveredAll := true
		replicateStopped := false
		replicateDecided := false
		var finalIv cs.Interval

		for t, x := range data {
			if err := method.Update(x); err != nil {
				return Metrics{}, err
			}
			iv := method.Interval()
			finalIv = iv

			if !(iv.Lo <= scenario.TrueMean && scenario.TrueMean <= iv.Hi) {
				coveredAll = false
			}

			if eTracker != nil && !replicateDecided {
				if err := eTracker.Update(x); err != nil {
					return Metrics{}, err
				}
				if eTracker.Snapshot().Decision == evalue.Reject {
					decided++
					replicateDecided = true
				}
			}

			if rule != nil && !replicateStopped {
				if rule.Fn(StoppingIntervalView{Lo: iv.Lo, Hi: iv.Hi}, int64(t+1)) {
					stopTimes = append(stopTimes, int64(t+1))
					stopped++
					replicateStopped = true
					break
				}
			}
		}

		if !replicateStopped {
			stopTimes = append(stopTimes, scenario.NMax)
		}

		if coveredAll {
			anytimeCovered++
		}
		if finalIv.Lo <= scenario.TrueMean && scenario.TrueMean <= finalIv.Hi {
			finalCovered++
		}
		margin := minFloat(finalIv.Hi-scenario.TrueMean, scenario.TrueMean-finalIv.Lo)
		tracker.observe(i, margin)

		widths = append(widths, finalIv.Width())
		runtimes = append(runtimes, time.Since(t0).Seconds())
	}

	m := Metrics{
		Coverage:          float64(anytimeCovered) / float64(r.nSim),
		FinalCoverage:     float64(finalCovered) / float64(r.nSim),
		AvgWidth:          mean(widths),
		MedianStopTime:    median(stopTimes),
		AvgRuntimeSeconds: mean(runtimes),
		WorstReplicates:   tracker.worst(),
	}
	if scenario.IsNull {
		m.TypeIError = float64(stopped) / float64(r.nSim)
	} else {
		m.Power = float64(stopped) / float64(r.nSim)
	}
	if ef != nil {
		m.EValueDecisionRate = float64(decided) / float64(r.nSim)
	}
	return m, nil
}

// RunTwoSample benchmarks a two-sample method against scenario across
// r.nSim replicates. ef, if non-nil, tracks e-process decisions
// alongside the confidence sequence, exactly as RunOneSample's ef does.
func (r *Runner) RunTwoSample(scenario Scenario, factory TwoSampleFactory, rule *StoppingRule, ef TwoSampleEValueFactory) (Metrics, error) {
	if err := scenario.Validate(); err != nil {
		return Metrics{}, err
	}

	var (
		anytimeCovered, finalCovered, stopped, decided int
		widths                                         []float64
		stopTimes                                       []int64
		runtimes                                        []float64
	)
	tracker := newWorstKTracker(r.worstK)

	for i := int64(0); i < int64(r.nSim); i++ {
		t0 := time.Now()
		data := r.twoSampleData(scenario, i)

		method, err := factory()
		if err != nil {
			return Metrics{}, err
		}
		var eTracker TwoSampleEValueTracker
		if ef != nil {
			eTracker, err = ef()
			if err != nil {
				return Metrics{}, err
			}
		}

		coveredAll := true
		replicateStopped := false
		replicateDecided := false
		var finalIv twosample.Interval

		for t, obs := range data {
			var err error
			if obs.Arm == "A" {
				err = method.UpdateA(obs.Value)
			} else {
				err = method.UpdateB(obs.Value)
			}
			if err != nil {
				return Metrics{}, err
			}
			iv := method.Interval()
			finalIv = iv

			if !(iv.Lo <= scenario.TrueLift && scenario.TrueLift <= iv.Hi) {
				coveredAll = false
			}

			if eTracker != nil && !replicateDecided {
				if obs.Arm == "A" {
					err = eTracker.UpdateA(obs.Value)
				} else {
					err = eTracker.UpdateB(obs.Value)
				}
				if err != nil {
					return Metrics{}, err
				}
				if eTracker.Snapshot().Decision == evalue.Reject {
					decided++
					replicateDecided = true
				}
			}

			if rule != nil && !replicateStopped {
				if rule.Fn(StoppingIntervalView{Lo: iv.Lo, Hi: iv.Hi}, int64(t+1)) {
					stopTimes = append(stopTimes, int64(t+1))
					stopped++
					replicateStopped = true
					break
				}
			}
		}

		if !replicateStopped {
			stopTimes = append(stopTimes, int64(len(data)))
		}

		if coveredAll {
			anytimeCovered++
		}
		if finalIv.Lo <= scenario.TrueLift && scenario.TrueLift <= finalIv.Hi {
			finalCovered++
		}
		margin := minFloat(finalIv.Hi-scenario.TrueLift, scenario.TrueLift-finalIv.Lo)
		tracker.observe(i, margin)

		widths = append(widths, finalIv.Width())
		runtimes = append(runtimes, time.Since(t0).Seconds())
	}

	m := Metrics{
		Coverage:          float64(anytimeCovered) / float64(r.nSim),
		FinalCoverage:     float64(finalCovered) / float64(r.nSim),
		AvgWidth:          mean(widths),
		MedianStopTime:    median(stopTimes),
		AvgRuntimeSeconds: mean(runtimes),
		WorstReplicates:   tracker.worst(),
	}
	if scenario.IsNull {
		m.TypeIError = float64(stopped) / float64(r.nSim)
	} else {
		m.Power = float64(stopped) / float64(r.nSim)
	}
	if ef != nil {
		m.EValueDecisionRate = float64(decided) / float64(r.nSim)
	}
	return m, nil
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
