// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/persona-screener/internal/scoring"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Paths
	Persona  string `json:"persona,omitempty"`  // Path to a persona JSON file
	Document string `json:"document,omitempty"` // Path to the candidate document text file

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	ListenAddr  string `json:"listen_addr,omitempty"`  // HTTP listen address for serve mode
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information

	// Cascade thresholds. Zero means "use the default".
	Stage1Threshold       float64 `json:"stage1_threshold,omitempty"`
	Stage2MinThreshold    float64 `json:"stage2_min_threshold,omitempty"`
	Stage2StrongThreshold float64 `json:"stage2_strong_threshold,omitempty"`
	BandModerate          float64 `json:"band_moderate,omitempty"`
	BandGood              float64 `json:"band_good,omitempty"`
	BandStrong            float64 `json:"band_strong,omitempty"`
	WeightFloor           int     `json:"weight_floor,omitempty"`
	ChunkSize             int     `json:"chunk_size,omitempty"`
	ChunkOverlap          int     `json:"chunk_overlap,omitempty"`
	MaxScreeningChars     int     `json:"max_screening_chars,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Stage1Threshold < 0 || c.Stage1Threshold > 100 {
		return fmt.Errorf("config error: 'stage1_threshold' must be between 0 and 100")
	}
	if c.Stage2MinThreshold < 0 || c.Stage2MinThreshold > 100 {
		return fmt.Errorf("config error: 'stage2_min_threshold' must be between 0 and 100")
	}
	if c.Stage2StrongThreshold != 0 && c.Stage2StrongThreshold < c.Stage2MinThreshold {
		return fmt.Errorf("config error: 'stage2_strong_threshold' must be >= 'stage2_min_threshold'")
	}
	if c.WeightFloor < 0 {
		return fmt.Errorf("config error: 'weight_floor' must be non-negative")
	}
	if c.ChunkOverlap < 0 || (c.ChunkSize > 0 && c.ChunkOverlap >= c.ChunkSize) {
		return fmt.Errorf("config error: 'chunk_overlap' must be smaller than 'chunk_size'")
	}

	if c.Persona != "" {
		if _, err := os.Stat(c.Persona); os.IsNotExist(err) {
			return fmt.Errorf("config error: persona file not found: %s", c.Persona)
		}
	}
	if c.Document != "" {
		if _, err := os.Stat(c.Document); os.IsNotExist(err) {
			return fmt.Errorf("config error: document file not found: %s", c.Document)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Persona == "" {
		result.Persona = defaults.Persona
	}
	if result.Document == "" {
		result.Document = defaults.Document
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	// Numeric fields: use default if zero
	if result.Stage1Threshold == 0 {
		result.Stage1Threshold = defaults.Stage1Threshold
	}
	if result.Stage2MinThreshold == 0 {
		result.Stage2MinThreshold = defaults.Stage2MinThreshold
	}
	if result.Stage2StrongThreshold == 0 {
		result.Stage2StrongThreshold = defaults.Stage2StrongThreshold
	}
	if result.BandModerate == 0 {
		result.BandModerate = defaults.BandModerate
	}
	if result.BandGood == 0 {
		result.BandGood = defaults.BandGood
	}
	if result.BandStrong == 0 {
		result.BandStrong = defaults.BandStrong
	}
	if result.WeightFloor == 0 {
		result.WeightFloor = defaults.WeightFloor
	}
	if result.ChunkSize == 0 {
		result.ChunkSize = defaults.ChunkSize
	}
	if result.ChunkOverlap == 0 {
		result.ChunkOverlap = defaults.ChunkOverlap
	}
	if result.MaxScreeningChars == 0 {
		result.MaxScreeningChars = defaults.MaxScreeningChars
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ScoringConfig builds the cascade configuration, applying any overrides set
// in this config on top of the scoring defaults.
func (c *Config) ScoringConfig() *scoring.Config {
	cfg := scoring.DefaultConfig()
	if c.Stage1Threshold > 0 {
		cfg.Stage1Threshold = c.Stage1Threshold
	}
	if c.Stage2MinThreshold > 0 {
		cfg.Stage2MinThreshold = c.Stage2MinThreshold
	}
	if c.Stage2StrongThreshold > 0 {
		cfg.Stage2StrongThreshold = c.Stage2StrongThreshold
	}
	if c.BandModerate > 0 {
		cfg.BandModerate = c.BandModerate
	}
	if c.BandGood > 0 {
		cfg.BandGood = c.BandGood
	}
	if c.BandStrong > 0 {
		cfg.BandStrong = c.BandStrong
	}
	if c.WeightFloor > 0 {
		cfg.WeightFloor = c.WeightFloor
	}
	if c.ChunkSize > 0 {
		cfg.ChunkSize = c.ChunkSize
	}
	if c.ChunkOverlap > 0 {
		cfg.ChunkOverlap = c.ChunkOverlap
	}
	if c.MaxScreeningChars > 0 {
		cfg.MaxScreeningChars = c.MaxScreeningChars
	}
	return cfg
}
