package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the YAML config file. Zero values mean "not set";
// boolean knobs are pointers so an explicit false survives the merge.
type FileConfig struct {
	APIBase           string `yaml:"api_base"`
	OutputDir         string `yaml:"output"`
	Debug             *bool  `yaml:"debug"`
	Component         string `yaml:"component"`
	ComponentOperator string `yaml:"component_operator"`
	ComponentVersion  string `yaml:"component_version"`
	OS                string `yaml:"os"`
	OSOperator        string `yaml:"os_operator"`
	OSVersion         string `yaml:"os_version"`
	Flavor            string `yaml:"flavor"`
}

func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config YAML: %w", err)
	}

	return cfg, nil
}

func FromString(s string) (FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal([]byte(s), &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config YAML: %w", err)
	}
	return cfg, nil
}
