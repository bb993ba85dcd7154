package cli

import (
	"fmt"
	"io"

	"anytime/config"
	"anytime/internal/obslog"
	"anytime/ioreader"

	"github.com/urfave/cli/v2"
)

// ABTestCommand runs a two-sample A/B confidence sequence on CSV data.
func ABTestCommand() *cli.Command {
	return &cli.Command{
		Name:  "abtest",
		Usage: "Run a two-sample A/B test on CSV data",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to YAML config file", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory for results"},
		},
		Action: abtestAction,
	}
}

func abtestAction(c *cli.Context) error {
	return runABTest(c.App.Writer, c.String("config"), c.String("output"))
}

func runABTest(stdout io.Writer, configPath, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}

	abSpec, err := cfg.ToABSpec()
	if err != nil {
		return cli.Exit(err.Error(), exitCodeForErr(err))
	}

	method, methodName, reason, err := resolveTwoSampleMethod(cfg.ResolvedMethod(), abSpec)
	if err != nil {
		return cli.Exit(err.Error(), exitCodeForErr(err))
	}
	if reason != "" {
		fmt.Fprintf(stdout, "Using recommended method: %s\n", reason)
	}

	reader, err := ioreader.NewABTestReader(cfg.Input, cfg.ResolvedArmColumn(), cfg.ResolvedValueColumn())
	if err != nil {
		return cli.Exit(err.Error(), exitCodeForErr(err))
	}
	defer reader.Close()

	runID := cfg.Name
	if runID == "" {
		runID = "abtest"
	}
	obs := obslog.NewLogger(obslog.RunContext{RunID: runID, Method: methodName})
	obs.Info("starting run", map[string]any{"input": cfg.Input, "alpha": abSpec.Alpha})

	runDir, logger, err := setupRunOutput(output, cfg.Name, "abtest")
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}
	if logger != nil {
		defer logger.Close()
	}

	var last struct {
		T                       int64
		Estimate, Lo, Hi, Width float64
		Tier                    string
		Diagnostics             diagnosticsView
	}

	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cli.Exit(err.Error(), ExitConfigError)
		}

		if row.Arm == "A" {
			err = method.UpdateA(row.Value)
		} else {
			err = method.UpdateB(row.Value)
		}
		if err != nil {
			return cli.Exit(err.Error(), exitCodeForErr(err))
		}
		iv := method.Interval()

		if logger != nil {
			_ = logger.Log(map[string]any{
				"t": iv.T, "estimate": iv.Estimate, "lo": iv.Lo, "hi": iv.Hi,
				"width": iv.Width(), "tier": iv.Tier.String(),
			})
		}

		if iv.T%100 == 0 {
			printProgress(stdout, "lift", iv.T, iv.Estimate, iv.Lo, iv.Hi, viewFromSnapshot(iv.Diagnostics))
		}

		last.T, last.Estimate, last.Lo, last.Hi = iv.T, iv.Estimate, iv.Lo, iv.Hi
		last.Width, last.Tier = iv.Width(), iv.Tier.String()
		last.Diagnostics = viewFromSnapshot(iv.Diagnostics)
	}

	fmt.Fprintf(stdout, "\nFinal result at t=%d:\n", last.T)
	fmt.Fprintf(stdout, "  Lift: %.4f\n", last.Estimate)
	fmt.Fprintf(stdout, "  %.0f%% CI: [%.4f, %.4f]\n", (1-abSpec.Alpha)*100, last.Lo, last.Hi)
	fmt.Fprintf(stdout, "  Width: %.4f\n", last.Width)
	fmt.Fprintf(stdout, "  Tier: %s\n", last.Tier)
	if s := diagnosticsSummary(last.Diagnostics); s != "" {
		fmt.Fprintf(stdout, "  Diagnostics: %s\n", s)
	}

	obs.Info("run completed", map[string]any{"t": last.T, "estimate": last.Estimate, "tier": last.Tier})

	if runDir != "" {
		if err := writeManifest(runDir, output, methodName, abSpec.Alpha); err != nil {
			return cli.Exit(err.Error(), ExitConfigError)
		}
		fmt.Fprintf(stdout, "\nResults written to %s\n", runDir)
	}

	return nil
}
