// Package config loads YAML run configuration for the anytime CLI,
// expanding environment variables before unmarshaling (spec.md ambient
// stack: configuration), mirroring quarry's cli/config package.
package config

import (
	"os"

	"anytime/errs"
	"anytime/spec"

	"gopkg.in/yaml.v3"
)

// SupportConfig is the YAML shape of a Support bound.
type SupportConfig struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// Config is the YAML shape of an anytime run: a superset of the fields
// needed for both one-sample (mean) and two-sample (abtest) runs. The
// mean and abtest commands take every run setting from this file; their
// only flags are --config and --output.
type Config struct {
	Mode     string         `yaml:"mode"` // "mean" or "abtest"
	Alpha    float64        `yaml:"alpha"`
	Kind     string         `yaml:"kind"` // "bounded" or "bernoulli"
	Support  *SupportConfig `yaml:"support"`
	TwoSided bool           `yaml:"two_sided"`
	ClipMode string         `yaml:"clip_mode"` // "error" or "clip"
	Name     string         `yaml:"name"`
	Input    string         `yaml:"input"`  // path to CSV input
	Method   string         `yaml:"method"` // "auto", "hoeffding", "empirical_bernstein", "bernoulli"
	Column   string         `yaml:"column"` // one-sample value column, default "value"

	ArmColumn   string `yaml:"arm_column"`   // two-sample arm column, default "arm"
	ValueColumn string `yaml:"value_column"` // two-sample value column, default "value"
}

// ResolvedMethod returns c.Method, defaulting to "auto".
func (c *Config) ResolvedMethod() string {
	if c.Method == "" {
		return "auto"
	}
	return c.Method
}

// ResolvedColumn returns c.Column, defaulting to "value".
func (c *Config) ResolvedColumn() string {
	if c.Column == "" {
		return "value"
	}
	return c.Column
}

// ResolvedArmColumn returns c.ArmColumn, defaulting to "arm".
func (c *Config) ResolvedArmColumn() string {
	if c.ArmColumn == "" {
		return "arm"
	}
	return c.ArmColumn
}

// ResolvedValueColumn returns c.ValueColumn, defaulting to "value".
func (c *Config) ResolvedValueColumn() string {
	if c.ValueColumn == "" {
		return "value"
	}
	return c.ValueColumn
}

// Load reads a YAML config file, expands environment variables, and
// unmarshals into a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NewConfigError("Config", "config", "config file not found: %s", path)
		}
		return nil, errs.NewConfigError("Config", "config", "cannot read config file %q: %v", path, err)
	}

	expanded := ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errs.NewConfigError("Config", "config", "invalid YAML in %s: %v", path, err)
	}
	return &cfg, nil
}

// parseKind maps a config string to spec.Kind.
func parseKind(s string) (spec.Kind, error) {
	switch s {
	case "bounded":
		return spec.Bounded, nil
	case "bernoulli":
		return spec.Bernoulli, nil
	default:
		return 0, errs.NewConfigError("Config", "kind", "must be 'bounded' or 'bernoulli', got %q", s)
	}
}

// parseClipMode maps a config string to spec.ClipMode.
func parseClipMode(s string) (spec.ClipMode, error) {
	switch s {
	case "", "error":
		return spec.ClipModeError, nil
	case "clip":
		return spec.ClipModeClip, nil
	default:
		return 0, errs.NewConfigError("Config", "clip_mode", "must be 'error' or 'clip', got %q", s)
	}
}

func (c *Config) support() *spec.Support {
	if c.Support == nil {
		return nil
	}
	return &spec.Support{Lo: c.Support.Lo, Hi: c.Support.Hi}
}

// ToStreamSpec converts a one-sample Config into a validated
// spec.StreamSpec.
func (c *Config) ToStreamSpec() (spec.StreamSpec, error) {
	kind, err := parseKind(c.Kind)
	if err != nil {
		return spec.StreamSpec{}, err
	}
	clipMode, err := parseClipMode(c.ClipMode)
	if err != nil {
		return spec.StreamSpec{}, err
	}
	return spec.NewStreamSpec(spec.StreamSpecParams{
		Alpha:    c.Alpha,
		Kind:     kind,
		Support:  c.support(),
		TwoSided: c.TwoSided,
		ClipMode: clipMode,
		Name:     c.Name,
	})
}

// ToABSpec converts a two-sample Config into a validated spec.ABSpec.
func (c *Config) ToABSpec() (spec.ABSpec, error) {
	kind, err := parseKind(c.Kind)
	if err != nil {
		return spec.ABSpec{}, err
	}
	clipMode, err := parseClipMode(c.ClipMode)
	if err != nil {
		return spec.ABSpec{}, err
	}
	return spec.NewABSpec(spec.ABSpecParams{
		Alpha:    c.Alpha,
		Kind:     kind,
		Support:  c.support(),
		TwoSided: c.TwoSided,
		ClipMode: clipMode,
		Name:     c.Name,
	})
}
