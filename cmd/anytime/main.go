// Command anytime is the CLI surface over peeking-safe streaming
// inference: mean (one-sample confidence sequences), abtest
// (two-sample lift confidence sequences), and atlas (Monte Carlo
// benchmarks). It is a thin driver — see the cli package for command
// bodies and the spec/cs/twosample/evalue packages for the inference
// core.
package main

import (
	"errors"
	"fmt"
	"os"

	"anytime/cli"

	cliv2 "github.com/urfave/cli/v2"
)

// commit is set via -ldflags at build time.
var commit = "unknown"

func main() {
	app := &cliv2.App{
		Name:           "anytime",
		Usage:          "Peeking-safe streaming inference for A/B tests and online metrics",
		Version:        fmt.Sprintf("%s (commit: %s)", cli.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cliv2.Command{
			cli.MeanCommand(),
			cli.ABTestCommand(),
			cli.AtlasCommand(),
			cli.RunsCommand(),
			cli.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func exitErrHandler(_ *cliv2.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cliv2.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
