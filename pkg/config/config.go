// Package config loads and defaults vitals configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for vitals.
type Config struct {
	// Thresholds for the internal detectors
	Thresholds ThresholdConfig `koanf:"thresholds"`

	// Scoring tables (weights, action cutoffs)
	Scoring ScoringConfig `koanf:"scoring"`

	// External collaborator tools
	Tools ToolConfig `koanf:"tools"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// ThresholdConfig defines detector thresholds.
type ThresholdConfig struct {
	GodClassMethods    int `koanf:"god_class_methods"`
	GodClassLines      int `koanf:"god_class_lines"`
	TightCoupling      int `koanf:"tight_coupling"`
	OCPChainLength     int `koanf:"ocp_chain_length"`
	DIPInstantiations  int `koanf:"dip_instantiations"`
	DuplicateWindow    int `koanf:"duplicate_window"`
	DuplicateMinChars  int `koanf:"duplicate_min_chars"`
	DuplicateCap       int `koanf:"duplicate_cap"`
	DeadCodeCap        int `koanf:"dead_code_cap"`
	ExtractableMinUses int `koanf:"extractable_min_uses"`
}

// ScoringConfig holds dimension weights and priority-action cutoffs.
type ScoringConfig struct {
	Weights    map[string]float64 `koanf:"weights"`
	MinScore   int                `koanf:"min_score"`
	HighBelow  int                `koanf:"high_below"`
	MedBelow   int                `koanf:"med_below"`
	MaxActions int                `koanf:"max_actions"`
}

// ToolConfig controls external tool invocation.
type ToolConfig struct {
	Enabled         bool `koanf:"enabled"`
	TimeoutSecs     int  `koanf:"timeout_secs"`
	SlowTimeoutSecs int  `koanf:"slow_timeout_secs"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns"`
	Dirs      []string `koanf:"dirs"`
	Gitignore bool     `koanf:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with the canonical thresholds.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			GodClassMethods:    20,
			GodClassLines:      500,
			TightCoupling:      5,
			OCPChainLength:     5,
			DIPInstantiations:  3,
			DuplicateWindow:    5,
			DuplicateMinChars:  50,
			DuplicateCap:       50,
			DeadCodeCap:        100,
			ExtractableMinUses: 3,
		},
		Scoring: ScoringConfig{
			Weights: map[string]float64{
				"maintainability": 0.35,
				"performance":     0.20,
				"security":        0.25,
				"scalability":     0.10,
				"reusability":     0.10,
			},
			MinScore:   20,
			HighBelow:  60,
			MedBelow:   75,
			MaxActions: 5,
		},
		Tools: ToolConfig{
			Enabled:         true,
			TimeoutSecs:     30,
			SlowTimeoutSecs: 60,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.min.css",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".vitals",
				"dist",
				"build",
				"__pycache__",
				".venv",
				"venv",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"vitals.toml",
		"vitals.yaml",
		"vitals.yml",
		"vitals.json",
		".vitals.toml",
		".vitals.yaml",
		".vitals.yml",
		".vitals.json",
	}

	searchDirs := []string{".", ".vitals"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
