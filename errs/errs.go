// Package errs defines the two closed error kinds anytime inference can
// raise: configuration failures at construction time and assumption
// violations at update time. Both are struct types rather than bare
// errors.New strings so operators can recover the method name and the
// running observation count that produced them, and so callers can use
// errors.As instead of string matching.
package errs

import "fmt"

// Kind is a closed enumeration of anytime error kinds. Every switch over
// Kind must end in a default branch that panics, so a new kind added
// here cannot silently fall through unhandled call sites.
type Kind int

const (
	KindConfig Kind = iota
	KindAssumptionViolation
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAssumptionViolation:
		return "assumption_violation"
	default:
		panic("errs: unhandled Kind")
	}
}

// ConfigError is raised synchronously at construction time for invalid
// alpha, malformed support, incompatible kind, unknown arm, or an
// unsupported one-sided/two-sided combination. It never arises from
// data.
type ConfigError struct {
	Method string // constructing method or spec type, e.g. "StreamSpec", "HoeffdingCS"
	Field  string // offending field, e.g. "alpha", "support", "kind"
	Msg    string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Method, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Method, e.Field, e.Msg)
}

func (e *ConfigError) Kind() Kind { return KindConfig }

// Is lets errors.Is(err, &ConfigError{}) match any ConfigError regardless
// of field values, mirroring the sentinel-classification convention used
// elsewhere in the pack.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// NewConfigError builds a ConfigError for method/field with a formatted
// message.
func NewConfigError(method, field, format string, args ...any) *ConfigError {
	return &ConfigError{Method: method, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// AssumptionViolationError is raised at update time only when
// clip_mode=error and an observation falls outside the declared
// support. It carries the offending value and the running observation
// count so operators can locate it in a replayed stream. The offending
// observation is never applied to estimator state.
type AssumptionViolationError struct {
	Method string
	T      int64
	Value  float64
	Msg    string
}

func (e *AssumptionViolationError) Error() string {
	return fmt.Sprintf("%s: at t=%d, value=%v: %s", e.Method, e.T, e.Value, e.Msg)
}

func (e *AssumptionViolationError) Kind() Kind { return KindAssumptionViolation }

func (e *AssumptionViolationError) Is(target error) bool {
	_, ok := target.(*AssumptionViolationError)
	return ok
}

func NewAssumptionViolationError(method string, t int64, value float64, format string, args ...any) *AssumptionViolationError {
	return &AssumptionViolationError{Method: method, T: t, Value: value, Msg: fmt.Sprintf(format, args...)}
}
