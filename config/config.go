// Package config provides configuration loading for cyclekit runs.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents a complete harmonization run configuration.
type Config struct {
	Rules  []string      `yaml:"rules"`
	Cycles []CycleConfig `yaml:"cycles"`
	Output OutputConfig  `yaml:"output"`
	Watch  WatchConfig   `yaml:"watch"`
}

// CycleConfig names one survey cycle and its raw extract file.
type CycleConfig struct {
	// Name is the cycle label carried through to the output, e.g.
	// "cchs2001".
	Name string `yaml:"name"`

	// Path is the CSV extract for the cycle.
	Path string `yaml:"path"`
}

// OutputConfig configures where the merged table and run report go.
type OutputConfig struct {
	// Table is the merged harmonized table path.
	Table string `yaml:"table"`

	// Report is the run report path (YAML).
	Report string `yaml:"report"`

	// Format is the table format name ("csv" or "tsv").
	Format string `yaml:"format"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Addr is the listen address for the /metrics endpoint while
	// watching (empty disables the server).
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Rules: []string{"rules/*.yaml"},
		Output: OutputConfig{
			Table:  "out/harmonized.csv",
			Report: "out/report.yaml",
			Format: "csv",
		},
		Watch: WatchConfig{
			Addr: ":9190",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("rules is required")
	}
	if len(c.Cycles) == 0 {
		return fmt.Errorf("at least one cycle is required")
	}
	seen := make(map[string]bool)
	for _, cy := range c.Cycles {
		if cy.Name == "" || cy.Path == "" {
			return fmt.Errorf("every cycle needs a name and a path")
		}
		if seen[cy.Name] {
			return fmt.Errorf("duplicate cycle %q", cy.Name)
		}
		seen[cy.Name] = true
	}
	if c.Output.Table == "" {
		return fmt.Errorf("output.table is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// RuleFiles expands the configured rule globs into a sorted, deduplicated
// file list. A glob matching nothing is an error: a run with a silently
// empty rule table would tag every output cell instead of flagging the
// misconfiguration.
func (c *Config) RuleFiles() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range c.Rules {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad rule glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("rule glob %q matched no files", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
