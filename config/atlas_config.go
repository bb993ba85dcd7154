package config

import (
	"os"

	"anytime/errs"

	"gopkg.in/yaml.v3"
)

// AtlasScenarioConfig is the YAML shape of one atlas.Scenario.
type AtlasScenarioConfig struct {
	Name         string  `yaml:"name"`
	Distribution string  `yaml:"distribution"`
	TrueMean     float64 `yaml:"true_mean"`
	TrueLift     float64 `yaml:"true_lift"`
	NMax         int64   `yaml:"n_max"`
	Seed         int64   `yaml:"seed"`
	IsNull       bool    `yaml:"is_null"`
}

// AtlasSectionConfig groups a spec, the methods to compare, and the
// scenarios to run them against, for either the one-sample or
// two-sample half of an atlas run.
type AtlasSectionConfig struct {
	Spec      Config                `yaml:"spec"`
	Methods   []string              `yaml:"methods"`
	Scenarios []AtlasScenarioConfig `yaml:"scenarios"`
}

// AtlasConfig is the YAML shape of an `anytime atlas` run.
type AtlasConfig struct {
	NSim      int                  `yaml:"n_sim"`
	OneSample *AtlasSectionConfig  `yaml:"one_sample"`
	TwoSample *AtlasSectionConfig  `yaml:"two_sample"`
}

// LoadAtlas reads and validates an atlas YAML config file.
func LoadAtlas(path string) (*AtlasConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewConfigError("atlas", "config", "cannot read %q: %v", path, err)
	}
	expanded := ExpandEnv(string(data))

	var cfg AtlasConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errs.NewConfigError("atlas", "config", "invalid YAML in %q: %v", path, err)
	}
	if cfg.NSim <= 0 {
		cfg.NSim = 200
	}
	if cfg.OneSample == nil && cfg.TwoSample == nil {
		return nil, errs.NewConfigError("atlas", "config", "must declare one_sample and/or two_sample")
	}
	return &cfg, nil
}
