package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"anytime/atlas"
	"anytime/config"
	"anytime/cs"
	"anytime/errs"
	"anytime/internal/obslog"
	"anytime/spec"
	"anytime/twosample"

	"github.com/urfave/cli/v2"
)

// AtlasCommand runs Monte Carlo benchmarks and writes a comparison
// report. With no --config it runs a small built-in Bernoulli
// benchmark, useful as a smoke test of the whole method stack.
func AtlasCommand() *cli.Command {
	return &cli.Command{
		Name:  "atlas",
		Usage: "Run atlas benchmarks and generate comparison reports",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to atlas YAML config file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory for reports"},
		},
		Action: atlasAction,
	}
}

func atlasAction(c *cli.Context) error {
	return runAtlas(c.App.Writer, c.String("config"), c.String("output"))
}

func runAtlas(stdout io.Writer, configPath, output string) error {
	var cfg *config.AtlasConfig
	if configPath != "" {
		var err error
		cfg, err = config.LoadAtlas(configPath)
		if err != nil {
			return cli.Exit(err.Error(), ExitConfigError)
		}
	} else {
		cfg = defaultAtlasConfig()
	}

	if output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return cli.Exit(err.Error(), ExitConfigError)
		}
	}

	runner, err := atlas.NewRunner(cfg.NSim, 3)
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}

	obs := obslog.NewLogger(obslog.RunContext{RunID: "atlas", Method: "atlas"})
	obs.Info("starting run", map[string]any{"n_sim": cfg.NSim})
	defer obs.Info("run completed", nil)

	if cfg.OneSample != nil {
		results, err := runOneSampleAtlas(runner, cfg.OneSample)
		if err != nil {
			return cli.Exit(err.Error(), exitCodeForErr(err))
		}
		reportPath := filepath.Join(reportDir(output), "report_one_sample.md")
		if err := atlas.GenerateComparisonReport(results, reportPath); err != nil {
			return cli.Exit(err.Error(), ExitConfigError)
		}
		fmt.Fprintf(stdout, "One-sample report written to %s\n", reportPath)
	}

	if cfg.TwoSample != nil {
		results, err := runTwoSampleAtlas(runner, cfg.TwoSample)
		if err != nil {
			return cli.Exit(err.Error(), exitCodeForErr(err))
		}
		reportPath := filepath.Join(reportDir(output), "report_two_sample.md")
		if err := atlas.GenerateComparisonReport(results, reportPath); err != nil {
			return cli.Exit(err.Error(), ExitConfigError)
		}
		fmt.Fprintf(stdout, "Two-sample report written to %s\n", reportPath)
	}

	return nil
}

func reportDir(output string) string {
	if output == "" {
		return "."
	}
	return output
}

func runOneSampleAtlas(runner *atlas.Runner, section *config.AtlasSectionConfig) (map[string]map[string]atlas.Metrics, error) {
	streamSpec, err := section.Spec.ToStreamSpec()
	if err != nil {
		return nil, err
	}

	results := make(map[string]map[string]atlas.Metrics, len(section.Methods))
	for _, methodName := range section.Methods {
		factory, err := oneSampleFactory(methodName, streamSpec)
		if err != nil {
			return nil, err
		}
		results[methodName] = make(map[string]atlas.Metrics, len(section.Scenarios))
		for _, sc := range section.Scenarios {
			scenario, err := toAtlasScenario(sc)
			if err != nil {
				return nil, err
			}
			metrics, err := runner.RunOneSample(scenario, factory, nil, nil)
			if err != nil {
				return nil, err
			}
			results[methodName][sc.Name] = metrics
		}
	}
	return results, nil
}

func runTwoSampleAtlas(runner *atlas.Runner, section *config.AtlasSectionConfig) (map[string]map[string]atlas.Metrics, error) {
	abSpec, err := section.Spec.ToABSpec()
	if err != nil {
		return nil, err
	}

	results := make(map[string]map[string]atlas.Metrics, len(section.Methods))
	for _, methodName := range section.Methods {
		factory, err := twoSampleFactory(methodName, abSpec)
		if err != nil {
			return nil, err
		}
		results[methodName] = make(map[string]atlas.Metrics, len(section.Scenarios))
		for _, sc := range section.Scenarios {
			scenario, err := toAtlasScenario(sc)
			if err != nil {
				return nil, err
			}
			metrics, err := runner.RunTwoSample(scenario, factory, nil, nil)
			if err != nil {
				return nil, err
			}
			results[methodName][sc.Name] = metrics
		}
	}
	return results, nil
}

func oneSampleFactory(methodName string, s spec.StreamSpec) (atlas.CSFactory, error) {
	switch methodName {
	case "hoeffding":
		return func() (cs.CS, error) { return cs.NewHoeffdingCS(s) }, nil
	case "empirical_bernstein":
		return func() (cs.CS, error) { return cs.NewEmpiricalBernsteinCS(s) }, nil
	case "bernoulli":
		return func() (cs.CS, error) { return cs.NewBernoulliMixtureCS(s) }, nil
	default:
		return nil, errs.NewConfigError("atlas", "methods", "unknown one-sample method: %s", methodName)
	}
}

func twoSampleFactory(methodName string, s spec.ABSpec) (atlas.TwoSampleFactory, error) {
	switch methodName {
	case "hoeffding":
		return func() (twosample.CS, error) { return twosample.NewTwoSampleHoeffdingCS(s) }, nil
	case "empirical_bernstein":
		return func() (twosample.CS, error) { return twosample.NewTwoSampleEmpiricalBernsteinCS(s) }, nil
	default:
		return nil, errs.NewConfigError("atlas", "methods", "unknown two-sample method: %s", methodName)
	}
}

func toAtlasScenario(sc config.AtlasScenarioConfig) (atlas.Scenario, error) {
	dist, err := parseDistribution(sc.Distribution)
	if err != nil {
		return atlas.Scenario{}, err
	}
	nMax := sc.NMax
	if nMax == 0 {
		nMax = 200
	}
	seed := sc.Seed
	if seed == 0 {
		seed = 42
	}
	scenario := atlas.Scenario{
		Name: sc.Name, Distribution: dist, TrueMean: sc.TrueMean, TrueLift: sc.TrueLift,
		Lo: 0, Hi: 1, NMax: nMax, Seed: seed, IsNull: sc.IsNull,
	}
	return scenario, scenario.Validate()
}

func parseDistribution(s string) (atlas.Distribution, error) {
	switch s {
	case "", "bernoulli":
		return atlas.Bernoulli, nil
	case "uniform":
		return atlas.Uniform, nil
	case "beta_scaled":
		return atlas.BetaScaled, nil
	case "bimodal_mixture":
		return atlas.BimodalMixture, nil
	case "drift_bernoulli":
		return atlas.DriftBernoulli, nil
	default:
		return 0, errs.NewConfigError("atlas", "distribution", "unknown distribution: %s", s)
	}
}

func defaultAtlasConfig() *config.AtlasConfig {
	bernoulliSpec := config.Config{Alpha: 0.05, Kind: "bernoulli", TwoSided: true}
	return &config.AtlasConfig{
		NSim: 200,
		OneSample: &config.AtlasSectionConfig{
			Spec:    bernoulliSpec,
			Methods: []string{"hoeffding", "empirical_bernstein", "bernoulli"},
			Scenarios: []config.AtlasScenarioConfig{
				{Name: "bernoulli_null", Distribution: "bernoulli", TrueMean: 0.5, NMax: 200, IsNull: true},
				{Name: "bernoulli_alt", Distribution: "bernoulli", TrueMean: 0.55, NMax: 200, IsNull: false},
			},
		},
		TwoSample: &config.AtlasSectionConfig{
			Spec:    bernoulliSpec,
			Methods: []string{"hoeffding", "empirical_bernstein"},
			Scenarios: []config.AtlasScenarioConfig{
				{Name: "ab_null", Distribution: "bernoulli", TrueMean: 0.1, TrueLift: 0.0, NMax: 200, IsNull: true},
				{Name: "ab_alt", Distribution: "bernoulli", TrueMean: 0.1, TrueLift: 0.02, NMax: 200, IsNull: false},
			},
		},
	}
}
