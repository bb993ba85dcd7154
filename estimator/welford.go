// Package estimator provides O(1) online sufficient-statistic
// estimators for streaming mean and variance, using Welford's
// recurrence. No allocations occur after construction.
package estimator

// OnlineMean is Welford's online mean estimator: n and mean only, for
// callers (like the Hoeffding CS) that never need variance.
type OnlineMean struct {
	n    int64
	mean float64
}

// NewOnlineMean returns a zeroed estimator.
func NewOnlineMean() *OnlineMean {
	return &OnlineMean{}
}

// Update folds one observation into the running mean.
func (e *OnlineMean) Update(x float64) {
	e.n++
	delta := x - e.mean
	e.mean += delta / float64(e.n)
}

// N returns the number of observations folded in so far.
func (e *OnlineMean) N() int64 { return e.n }

// Mean returns the current running mean, or 0 if N()==0.
func (e *OnlineMean) Mean() float64 { return e.mean }

// Reset clears the estimator to its zero state.
func (e *OnlineMean) Reset() {
	e.n = 0
	e.mean = 0
}

// OnlineVariance is Welford's online mean+variance estimator:
// n <- n+1; delta <- x-mean; mean <- mean+delta/n; m2 <- m2+delta*(x-mean).
// Sample variance is m2/(n-1) for n>=2, else 0.
type OnlineVariance struct {
	n    int64
	mean float64
	m2   float64
}

// NewOnlineVariance returns a zeroed estimator.
func NewOnlineVariance() *OnlineVariance {
	return &OnlineVariance{}
}

// Update folds one observation into the running mean and M2.
func (e *OnlineVariance) Update(x float64) {
	e.n++
	delta := x - e.mean
	e.mean += delta / float64(e.n)
	delta2 := x - e.mean
	e.m2 += delta * delta2
}

// N returns the number of observations folded in so far.
func (e *OnlineVariance) N() int64 { return e.n }

// Mean returns the current running mean.
func (e *OnlineVariance) Mean() float64 { return e.mean }

// M2 returns the running sum of squared deviations from the current
// mean (Welford's M2 accumulator).
func (e *OnlineVariance) M2() float64 { return e.m2 }

// SampleVariance returns m2/(n-1) for n>=2, else 0 (spec.md §4.1).
func (e *OnlineVariance) SampleVariance() float64 {
	if e.n < 2 {
		return 0
	}
	return e.m2 / float64(e.n-1)
}

// PopulationVariance returns m2/n for n>=1, else 0.
func (e *OnlineVariance) PopulationVariance() float64 {
	if e.n < 1 {
		return 0
	}
	return e.m2 / float64(e.n)
}

// Reset clears the estimator to its zero state.
func (e *OnlineVariance) Reset() {
	e.n = 0
	e.mean = 0
	e.m2 = 0
}
