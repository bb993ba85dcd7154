package spec

// Kind identifies the declared shape of a stream's values.
type Kind int

const (
	Bounded Kind = iota
	Bernoulli
)

func (k Kind) String() string {
	switch k {
	case Bounded:
		return "bounded"
	case Bernoulli:
		return "bernoulli"
	default:
		panic("spec: unhandled Kind")
	}
}

// ClipMode governs how an out-of-support observation is handled.
type ClipMode int

const (
	ClipModeError ClipMode = iota
	ClipModeClip
)

func (c ClipMode) String() string {
	switch c {
	case ClipModeError:
		return "error"
	case ClipModeClip:
		return "clip"
	default:
		panic("spec: unhandled ClipMode")
	}
}

// Support is a declared bounded interval [Lo, Hi] within which all
// observations must lie for the validity guarantees to hold.
type Support struct {
	Lo float64
	Hi float64
}

// Width returns Hi - Lo.
func (s Support) Width() float64 { return s.Hi - s.Lo }

// Clip clamps x into [Lo, Hi].
func (s Support) Clip(x float64) float64 {
	if x < s.Lo {
		return s.Lo
	}
	if x > s.Hi {
		return s.Hi
	}
	return x
}

// Contains reports whether x lies within [Lo, Hi].
func (s Support) Contains(x float64) bool {
	return x >= s.Lo && x <= s.Hi
}

// DefaultBernoulliSupport is the support implied when a Bernoulli spec
// omits one, per spec.md §3: "for bernoulli, must be (0,1) or omitted
// and treated as (0,1)".
var DefaultBernoulliSupport = Support{Lo: 0, Hi: 1}
