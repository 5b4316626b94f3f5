// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Detection holds the conflict detector parameters. Zero values fall
// back to the detector defaults; negative values are rejected here so a
// bad config file fails at load, not mid-verification.
type Detection struct {
	SafetyDistanceM float64 `yaml:"safety_distance_m"`
	TimeStepS       float64 `yaml:"time_step_s"`
	VerticalWeight  float64 `yaml:"vertical_weight"`
}

// Airspace bounds the synthetic traffic generator's world in meters.
type Airspace struct {
	WidthM       float64 `yaml:"width_m"`
	LengthM      float64 `yaml:"length_m"`
	MinAltitudeM float64 `yaml:"min_altitude_m"`
	MaxAltitudeM float64 `yaml:"max_altitude_m"`
}

// Traffic configures synthetic background schedule generation.
type Traffic struct {
	Count   int    `yaml:"count"`
	Pattern string `yaml:"pattern"`
	Seed    int64  `yaml:"seed"`
}

// VerifyConfig is the root configuration for the verification service.
type VerifyConfig struct {
	Detection Detection `yaml:"detection"`
	Airspace  Airspace  `yaml:"airspace"`
	Traffic   Traffic   `yaml:"traffic"`
	Schedules string    `yaml:"schedules"`
}

// Default returns the configuration used when no file is given.
func Default() *VerifyConfig {
	return &VerifyConfig{
		Detection: Detection{SafetyDistanceM: 10.0, TimeStepS: 0.5, VerticalWeight: 1.0},
		Airspace:  Airspace{WidthM: 10000, LengthM: 10000, MinAltitudeM: 50, MaxAltitudeM: 400},
		Traffic:   Traffic{Count: 10, Pattern: "mixed"},
	}
}

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*VerifyConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check rejects parameter values the detector would refuse. Explicit
// zeros in the file are indistinguishable from omissions and take the
// defaults; negatives always fail.
func (c *VerifyConfig) Check() error {
	d := c.Detection
	if d.SafetyDistanceM < 0 || d.TimeStepS < 0 || d.VerticalWeight < 0 {
		return fmt.Errorf("detection parameters must be positive: safety=%g step=%g vertical=%g",
			d.SafetyDistanceM, d.TimeStepS, d.VerticalWeight)
	}
	if c.Airspace.WidthM <= 0 || c.Airspace.LengthM <= 0 {
		return fmt.Errorf("airspace dimensions must be positive: width=%g length=%g",
			c.Airspace.WidthM, c.Airspace.LengthM)
	}
	if c.Airspace.MinAltitudeM >= c.Airspace.MaxAltitudeM {
		return fmt.Errorf("airspace altitude band inverted: min=%g max=%g",
			c.Airspace.MinAltitudeM, c.Airspace.MaxAltitudeM)
	}
	return nil
}
