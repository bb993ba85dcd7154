package spec

// GuaranteeTier tags whether an Interval/EValue's validity guarantee can
// be relied upon. It is a closed, three-level lattice:
// GUARANTEED > CLIPPED > DIAGNOSTIC. Tiers only move down over a
// stream's lifetime; reset() restores GUARANTEED.
type GuaranteeTier int

const (
	Guaranteed GuaranteeTier = iota
	Clipped
	Diagnostic
)

func (t GuaranteeTier) String() string {
	switch t {
	case Guaranteed:
		return "GUARANTEED"
	case Clipped:
		return "CLIPPED"
	case Diagnostic:
		return "DIAGNOSTIC"
	default:
		panic("spec: unhandled GuaranteeTier")
	}
}

// rank orders the lattice so lower is better: Guaranteed=0, Clipped=1,
// Diagnostic=2. Worst returns the worse (numerically larger-rank) of two
// tiers, which is how tiers combine across arms and across gates.
func (t GuaranteeTier) rank() int {
	switch t {
	case Guaranteed:
		return 0
	case Clipped:
		return 1
	case Diagnostic:
		return 2
	default:
		panic("spec: unhandled GuaranteeTier")
	}
}

// Worst returns the numerically worse (lower-guarantee) of t and other.
func (t GuaranteeTier) Worst(other GuaranteeTier) GuaranteeTier {
	if other.rank() > t.rank() {
		return other
	}
	return t
}
