package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Scraper label rules and region keywords are data, so they live here rather
// than in env vars.
type YAMLConfig struct {
	Labels  []LabelConfig       `yaml:"labels"`
	Regions map[string][]string `yaml:"regions"` // Region name -> extra country keywords
}

// LabelConfig adds one label rule to the shared scraper label table.
type LabelConfig struct {
	Match string `yaml:"match"` // Lowercase substring matched against the label text
	Field string `yaml:"field"` // Record field key, e.g. "founded" or "hubs"
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LabelRules returns the configured label rules, or nil for a nil config.
func (c *YAMLConfig) LabelRules() []LabelConfig {
	if c == nil {
		return nil
	}
	return c.Labels
}

// RegionKeywords returns the extra keywords for every configured region.
func (c *YAMLConfig) RegionKeywords() map[string][]string {
	if c == nil {
		return nil
	}
	return c.Regions
}
