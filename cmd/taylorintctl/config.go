package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig is taylorintctl's --config file: default tolerances and
// stepper knobs so a caller doesn't have to repeat them on every
// invocation.
type FileConfig struct {
	RTol         float64 `yaml:"rtol"`
	ATol         float64 `yaml:"atol"`
	OptLevel     int     `yaml:"opt_level"`
	HighAccuracy bool    `yaml:"high_accuracy"`
	CompactMode  bool    `yaml:"compact_mode"`
}

func defaultFileConfig() FileConfig {
	return FileConfig{RTol: 1e-10, ATol: 1e-10}
}

func loadFileConfig(path string) (FileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config file %q", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %q", path)
	}
	return cfg, nil
}
