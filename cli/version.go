package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Version is the anytime CLI's semantic version, bumped in lockstep
// with the core inference packages.
const Version = "0.1.0"

// VersionCommand prints the CLI version and build commit.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "anytime %s (commit: %s)\n", Version, commit)
			return nil
		},
	}
}
