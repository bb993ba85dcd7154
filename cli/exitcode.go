// Package cli implements the anytime CLI commands: mean, abtest, and
// atlas. It is a thin driver over spec/cs/twosample/evalue/ioreader —
// all inference logic lives in those packages, not here.
package cli

import "anytime/errs"

// Exit codes per the CLI surface: 0 on success, 2 on a ConfigError or
// schema error, 3 on an AssumptionViolationError that escapes the
// stream (clip_mode=error and an out-of-range observation).
const (
	ExitSuccess       = 0
	ExitConfigError   = 2
	ExitAssumptionErr = 3
)

// exitCodeForErr maps a core error to its CLI exit code, defaulting to
// ExitConfigError for any error that isn't specifically an
// AssumptionViolationError (schema errors, bad YAML, and ConfigError
// all share exit code 2).
func exitCodeForErr(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if kindOf(err) == errs.KindAssumptionViolation {
		return ExitAssumptionErr
	}
	return ExitConfigError
}

func kindOf(err error) errs.Kind {
	type kinder interface{ Kind() errs.Kind }
	if k, ok := err.(kinder); ok {
		return k.Kind()
	}
	return errs.KindConfig
}
