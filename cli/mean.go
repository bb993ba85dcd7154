package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"anytime/config"
	"anytime/diagnostics"
	"anytime/internal/obslog"
	"anytime/ioreader"
	"anytime/persist"

	"github.com/urfave/cli/v2"
)

func viewFromSnapshot(d diagnostics.Snapshot) diagnosticsView {
	return diagnosticsView{
		present:    true,
		tier:       d.Tier.String(),
		missing:    d.MissingCount,
		outOfRange: d.OutOfRangeCount,
		clipped:    d.ClippedCount,
		drift:      d.DriftDetected,
	}
}

// MeanCommand runs a one-sample confidence sequence on CSV data.
func MeanCommand() *cli.Command {
	return &cli.Command{
		Name:  "mean",
		Usage: "Run a one-sample confidence sequence on CSV data",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to YAML config file", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory for results"},
		},
		Action: meanAction,
	}
}

func meanAction(c *cli.Context) error {
	return runMean(c.App.Writer, c.String("config"), c.String("output"))
}

func runMean(stdout io.Writer, configPath, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}

	streamSpec, err := cfg.ToStreamSpec()
	if err != nil {
		return cli.Exit(err.Error(), exitCodeForErr(err))
	}

	method, methodName, reason, err := resolveCSMethod(cfg.ResolvedMethod(), streamSpec)
	if err != nil {
		return cli.Exit(err.Error(), exitCodeForErr(err))
	}
	if reason != "" {
		fmt.Fprintf(stdout, "Using recommended method: %s\n", reason)
	}

	reader, err := ioreader.NewOneSampleReader(cfg.Input, cfg.ResolvedColumn())
	if err != nil {
		return cli.Exit(err.Error(), exitCodeForErr(err))
	}
	defer reader.Close()

	runID := cfg.Name
	if runID == "" {
		runID = "mean"
	}
	obs := obslog.NewLogger(obslog.RunContext{RunID: runID, Method: methodName})
	obs.Info("starting run", map[string]any{"input": cfg.Input, "alpha": streamSpec.Alpha})

	runDir, logger, err := setupRunOutput(output, cfg.Name, "mean")
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

		if err := method.Update(row.Value); err != nil {
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
			printProgress(stdout, "estimate", iv.T, iv.Estimate, iv.Lo, iv.Hi, viewFromSnapshot(iv.Diagnostics))
		}

		last.T, last.Estimate, last.Lo, last.Hi = iv.T, iv.Estimate, iv.Lo, iv.Hi
		last.Width, last.Tier = iv.Width(), iv.Tier.String()
		last.Diagnostics = viewFromSnapshot(iv.Diagnostics)
	}

	fmt.Fprintf(stdout, "\nFinal result at t=%d:\n", last.T)
	fmt.Fprintf(stdout, "  Estimate: %.4f\n", last.Estimate)
	fmt.Fprintf(stdout, "  %.0f%% CI: [%.4f, %.4f]\n", (1-streamSpec.Alpha)*100, last.Lo, last.Hi)
	fmt.Fprintf(stdout, "  Width: %.4f\n", last.Width)
	fmt.Fprintf(stdout, "  Tier: %s\n", last.Tier)
	if s := diagnosticsSummary(last.Diagnostics); s != "" {
		fmt.Fprintf(stdout, "  Diagnostics: %s\n", s)
	}

	obs.Info("run completed", map[string]any{"t": last.T, "estimate": last.Estimate, "tier": last.Tier})

	if runDir != "" {
		if err := writeManifest(runDir, output, methodName, streamSpec.Alpha); err != nil {
			return cli.Exit(err.Error(), ExitConfigError)
		}
		fmt.Fprintf(stdout, "\nResults written to %s\n", runDir)
	}

	return nil
}

func printProgress(w io.Writer, label string, t int64, estimate, lo, hi float64, diag diagnosticsView) {
	suffix := ""
	if s := diagnosticsSummary(diag); s != "" {
		suffix = fmt.Sprintf(" (%s)", s)
	}
	fmt.Fprintf(w, "t=%d: %s=%.4f, [%.4f, %.4f]%s\n", t, label, estimate, lo, hi, suffix)
}

// setupRunOutput creates output/<name-or-fallback> and a JSONL results
// logger inside it, or returns ("", nil, nil) if output is empty.
func setupRunOutput(output, name, fallback string) (string, *persist.JSONLLogger, error) {
	if output == "" {
		return "", nil, nil
	}
	if name == "" {
		name = fallback
	}
	runDir := filepath.Join(output, name)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", nil, err
	}
	logger, err := persist.NewJSONLLogger(filepath.Join(runDir, "results.jsonl"))
	if err != nil {
		return "", nil, err
	}
	return runDir, logger, nil
}

// writeManifest records the run's provenance (git commit/branch,
// method, alpha) as manifest.json in runDir, and additionally persists
// it to the manifest store under output, so it can be looked up later
// by run ID via "anytime runs show/list --store <output>/.manifests".
func writeManifest(runDir, output, method string, alpha float64) error {
	runID := filepath.Base(runDir)
	manifest := persist.NewRunManifest(context.Background(), runID, method, alpha, time.Now())
	manifest.FinishedAt = time.Now()
	if err := persist.WriteManifestFile(filepath.Join(runDir, "manifest.json"), manifest); err != nil {
		return err
	}
	return recordManifest(filepath.Join(output, manifestStoreDirName), runID, manifest)
}

// recordManifest writes manifest into the on-disk manifest store
// rooted at storeDir.
func recordManifest(storeDir, runID string, manifest persist.RunManifest) error {
	store, closeStore, err := openManifestStore(storeDir)
	if err != nil {
		return err
	}
	defer closeStore()
	return store.PutManifest(runID, manifest)
}
