// Package config provides configuration loading and management for metatube.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"metatube/pkg/codec"
	"metatube/pkg/logging"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Codec parameters
	Codec struct {
		// Binary selects the binary point encoding when writing
		Binary bool `yaml:"binary"`

		// ElementType is the on-disk numeric type used in binary mode
		ElementType codec.ElementType `yaml:"elementType"`

		// StrictFields fails a write when a point lacks an extra field
		// declared by the first point; otherwise 0 is written in its place
		StrictFields bool `yaml:"strictFields"`

		// Dimension is assumed for files whose header has no NDims field
		Dimension int `yaml:"dimension"`
	} `yaml:"codec"`

	// Logging parameters
	Logging struct {
		// Level is a logrus level name: debug, info, warn, error
		Level string `yaml:"level"`

		// Format is "text" or "json"
		Format string `yaml:"format"`
	} `yaml:"logging"`

	// Batch conversion parameters
	Batch struct {
		// NumCores bounds how many files are converted concurrently
		NumCores int `yaml:"numCores"`

		// OutputDir receives converted files; empty means next to the input
		OutputDir string `yaml:"outputDir"`

		// Suffix is inserted before the extension of converted files
		Suffix string `yaml:"suffix"`
	} `yaml:"batch"`

	// Mesh export parameters
	Mesh struct {
		// Segments is the number of vertices around each ring of the
		// exported surface
		Segments int `yaml:"segments"`
	} `yaml:"mesh"`

	// Preview image parameters
	Preview struct {
		// Axis is the projection axis: x, y or z
		Axis string `yaml:"axis"`

		// Size is the image side in pixels, without margin
		Size int `yaml:"size"`
	} `yaml:"preview"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Codec.Binary = false
	cfg.Codec.ElementType = codec.Float
	cfg.Codec.StrictFields = true
	cfg.Codec.Dimension = 3

	cfg.Logging.Level = "info"
	cfg.Logging.Format = logging.FormatText

	cfg.Batch.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Batch.OutputDir = ""
	cfg.Batch.Suffix = "_converted"

	cfg.Mesh.Segments = 16

	cfg.Preview.Axis = "z"
	cfg.Preview.Size = 256

	return cfg
}

// Validate checks the configuration for values the codec cannot use
func (c *Config) Validate() error {
	if !c.Codec.ElementType.Valid() {
		return errors.Errorf("invalid element type %s", c.Codec.ElementType)
	}
	if c.Codec.Dimension < 2 {
		return errors.Errorf("dimension must be at least 2, got %d", c.Codec.Dimension)
	}
	if c.Mesh.Segments < 3 {
		return errors.Errorf("mesh segments must be at least 3, got %d", c.Mesh.Segments)
	}
	if c.Preview.Size < 1 {
		return errors.Errorf("preview size must be positive, got %d", c.Preview.Size)
	}
	if c.Batch.NumCores < 1 {
		return errors.Errorf("numCores must be positive, got %d", c.Batch.NumCores)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config file")
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "error creating config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, "error writing config file")
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
