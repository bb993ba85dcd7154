// Package diagnostics implements the three assumption gates every
// observation passes through before reaching an estimator: missingness,
// range/clip, and a CUSUM-lite drift heuristic (spec.md §4.2). Each
// inference instance owns one Gate exclusively.
package diagnostics

import (
	"math"

	"anytime/errs"
	"anytime/spec"
)

// Snapshot is the immutable diagnostics metadata attached to every
// Interval/EValue: counters plus the current guarantee tier. Unlike
// Gate, a Snapshot has no owning-instance semantics and may be read
// from any goroutine.
type Snapshot struct {
	Tier            spec.GuaranteeTier
	ClippedCount    int64
	MissingCount    int64
	OutOfRangeCount int64
	DriftDetected   bool
	DriftScore      float64
	Method          string
	Notes           []string
}

// Gate is the mutable per-instance diagnostics state: counters, the
// CUSUM-lite drift state, and the current tier. The drift sums cover
// every applied value since construction or the last Reset; no
// trailing window of recent means is kept. It is created by a CS/e-process constructor, mutated
// only by Check, and reset in lockstep with estimator state by Reset.
type Gate struct {
	support  spec.Support
	clipMode spec.ClipMode
	method   string

	tier            spec.GuaranteeTier
	clippedCount    int64
	missingCount    int64
	outOfRangeCount int64
	seenCount       int64

	driftDetected bool
	driftScore    float64

	// CUSUM-lite state: cumulative positive/negative deviation from the
	// running mean, plus the running mean itself (an independent
	// Welford accumulator so diagnostics stay decoupled from whichever
	// CS-specific estimator consumes the checked value). driftN counts
	// only values that reached this gate (excludes missing values).
	driftN      int64
	runningMean float64
	posCusum    float64
	negCusum    float64
}

// NewGate builds a Gate for the given spec and method name (used only
// for error messages and the Method field of snapshots).
func NewGate(s spec.Support, clipMode spec.ClipMode, method string) *Gate {
	return &Gate{support: s, clipMode: clipMode, method: method, tier: spec.Guaranteed}
}

// Reset clears all gate state back to GUARANTEED, as if newly
// constructed.
func (g *Gate) Reset() {
	g.tier = spec.Guaranteed
	g.clippedCount = 0
	g.missingCount = 0
	g.outOfRangeCount = 0
	g.seenCount = 0
	g.driftDetected = false
	g.driftScore = 0
	g.driftN = 0
	g.runningMean = 0
	g.posCusum = 0
	g.negCusum = 0
}

// downgrade moves the tier down the lattice; it never upgrades it back
// up (spec.md §4.2: "degrade the tier ... never upgrade back").
func (g *Gate) downgrade(t spec.GuaranteeTier) {
	g.tier = g.tier.Worst(t)
}

// Check runs x through the missingness, range/clip, and drift gates in
// order. It returns (value, applied, err): applied is false when x was
// missing and must not reach the estimator (no error, just skipped);
// err is non-nil only when clip_mode=error and x is out of range, in
// which case value/applied are meaningless and t was not incremented.
func (g *Gate) Check(x float64, t int64) (value float64, applied bool, err error) {
	// 1. Missingness gate.
	if math.IsNaN(x) {
		g.missingCount++
		g.seenCount++
		if g.seenCount >= 20 {
			rate := float64(g.missingCount) / float64(g.seenCount)
			if rate > 0.2 {
				g.downgrade(spec.Diagnostic)
			}
		}
		return 0, false, nil
	}
	g.seenCount++

	// 2. Range/clip gate.
	checked := x
	if !g.support.Contains(x) {
		g.outOfRangeCount++
		switch g.clipMode {
		case spec.ClipModeClip:
			checked = g.support.Clip(x)
			g.clippedCount++
			g.downgrade(spec.Clipped)
		case spec.ClipModeError:
			g.downgrade(spec.Diagnostic)
			return 0, false, errs.NewAssumptionViolationError(
				g.method, t, x, "value out of range [%v, %v]", g.support.Lo, g.support.Hi)
		default:
			panic("diagnostics: unhandled ClipMode")
		}
	}

	// 3. Drift gate: CUSUM-lite on cumulative deviation from the
	// running mean, threshold scaled to (b-a)*sqrt(n).
	g.driftN++
	delta := checked - g.runningMean
	g.runningMean += delta / float64(g.driftN)

	dev := checked - g.runningMean
	g.posCusum = math.Max(0, g.posCusum+dev)
	g.negCusum = math.Min(0, g.negCusum+dev)

	width := g.support.Width()
	threshold := width * math.Sqrt(float64(g.driftN))
	if threshold > 0 {
		g.driftScore = math.Max(g.posCusum, -g.negCusum) / threshold
	}
	if threshold > 0 && (g.posCusum > threshold || -g.negCusum > threshold) {
		g.driftDetected = true
		g.downgrade(spec.Diagnostic)
	}

	return checked, true, nil
}

// Tier returns the current tier.
func (g *Gate) Tier() spec.GuaranteeTier { return g.tier }

// Snapshot returns an immutable copy of the current diagnostics state,
// tagged with method and any assumption notes.
func (g *Gate) Snapshot(notes ...string) Snapshot {
	return Snapshot{
		Tier:            g.tier,
		ClippedCount:    g.clippedCount,
		MissingCount:    g.missingCount,
		OutOfRangeCount: g.outOfRangeCount,
		DriftDetected:   g.driftDetected,
		DriftScore:      g.driftScore,
		Method:          g.method,
		Notes:           notes,
	}
}

// Merge combines two snapshots (e.g. both arms of a two-sample CS) by
// summing counters, OR-ing drift, and taking the worse tier. Per
// spec.md §4.4: "if either arm is empty the tier is at worst
// DIAGNOSTIC" is enforced by the caller (twosample package), not here.
func Merge(a, b Snapshot) Snapshot {
	return Snapshot{
		Tier:            a.Tier.Worst(b.Tier),
		ClippedCount:    a.ClippedCount + b.ClippedCount,
		MissingCount:    a.MissingCount + b.MissingCount,
		OutOfRangeCount: a.OutOfRangeCount + b.OutOfRangeCount,
		DriftDetected:   a.DriftDetected || b.DriftDetected,
		DriftScore:      math.Max(a.DriftScore, b.DriftScore),
		Method:          a.Method,
	}
}
