// Package config loads the YAML-described tunables a CollisionWorld needs
// at construction time, the same way the engine's gui package loads panel
// descriptors with yaml.Unmarshal.
package config

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// WorldConfig holds a CollisionWorld's tunable defaults.
type WorldConfig struct {
	// Margin is the broad phase's fattening margin: how far past an
	// object's already-loosened AABB the tree's tracked box extends
	// before a move forces a tree re-insertion.
	Margin float32 `yaml:"margin"`

	// DefaultLinearPrediction is used for DefaultContactsQuery.
	DefaultLinearPrediction float32 `yaml:"default_linear_prediction"`

	// DefaultAngularPrediction is used for DefaultContactsQuery.
	DefaultAngularPrediction float32 `yaml:"default_angular_prediction"`

	// DefaultProximityMargin is used for DefaultProximityQuery and as the
	// narrow phase's fallback proximity margin.
	DefaultProximityMargin float32 `yaml:"default_proximity_margin"`
}

// Default returns the configuration a CollisionWorld uses when none is
// supplied explicitly.
func Default() WorldConfig {
	return WorldConfig{
		Margin:                   0.01,
		DefaultLinearPrediction:  0.001,
		DefaultAngularPrediction: 0.08726646, // ~5 degrees
		DefaultProximityMargin:   0.01,
	}
}

// Load reads and parses a WorldConfig from a YAML file at path, starting
// from Default() so a config file only needs to override the fields it
// cares about.
func Load(path string) (WorldConfig, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
