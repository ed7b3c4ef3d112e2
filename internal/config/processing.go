package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath is the path to the canonical processing defaults file.
const DefaultConfigPath = "config/processing.defaults.json"

// ProcessingConfig holds the parameters of the ground reaction pipeline.
// Fields are pointers so that a partial file only overrides what it names;
// the Get* methods supply defaults for the rest.
type ProcessingConfig struct {
	// Wrench params
	TransformToGlobal *bool   `json:"transform_to_global,omitempty"`
	Location          *string `json:"location,omitempty"` // "origin", "cop" or "pwa"

	// Threshold on |Fz| below which positions are suppressed
	ThresholdEnabled *bool    `json:"threshold_enabled,omitempty"`
	ThresholdValue   *float64 `json:"threshold_value,omitempty"`

	// Analog frames per point frame
	DownsampleRatio *int `json:"downsample_ratio,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyProcessingConfig returns a ProcessingConfig with all fields set to nil.
func EmptyProcessingConfig() *ProcessingConfig {
	return &ProcessingConfig{}
}

// DefaultProcessingConfig returns a ProcessingConfig with every field set
// to its default value.
func DefaultProcessingConfig() *ProcessingConfig {
	return &ProcessingConfig{
		TransformToGlobal: ptrBool(true),
		Location:          ptrString("pwa"),
		ThresholdEnabled:  ptrBool(false),
		ThresholdValue:    ptrFloat64(0),
		DownsampleRatio:   ptrInt(1),
	}
}

// LoadProcessingConfig loads a ProcessingConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadProcessingConfig(path string) (*ProcessingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyProcessingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or one of its parents. Panics if the file cannot be loaded, intended for
// test setup.
func MustLoadDefaultConfig() *ProcessingConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // deeper packages
		"../../../../" + DefaultConfigPath, // even deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadProcessingConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ProcessingConfig) Validate() error {
	if c.Location != nil {
		switch strings.ToLower(strings.TrimSpace(*c.Location)) {
		case "origin", "cop", "pwa":
		default:
			return fmt.Errorf("location must be one of origin, cop or pwa, got %q", *c.Location)
		}
	}

	if c.ThresholdValue != nil && *c.ThresholdValue < 0 {
		return fmt.Errorf("threshold_value must be non-negative, got %f", *c.ThresholdValue)
	}

	if c.DownsampleRatio != nil && *c.DownsampleRatio < 1 {
		return fmt.Errorf("downsample_ratio must be at least 1, got %d", *c.DownsampleRatio)
	}

	return nil
}

// GetTransformToGlobal returns the transform_to_global value or the default.
func (c *ProcessingConfig) GetTransformToGlobal() bool {
	if c.TransformToGlobal == nil {
		return true // default
	}
	return *c.TransformToGlobal
}

// GetLocation returns the location value or the default.
func (c *ProcessingConfig) GetLocation() string {
	if c.Location == nil || *c.Location == "" {
		return "pwa" // default
	}
	return strings.ToLower(strings.TrimSpace(*c.Location))
}

// GetThresholdEnabled returns the threshold_enabled value or the default.
func (c *ProcessingConfig) GetThresholdEnabled() bool {
	if c.ThresholdEnabled == nil {
		return false // default
	}
	return *c.ThresholdEnabled
}

// GetThresholdValue returns the threshold_value value or the default.
func (c *ProcessingConfig) GetThresholdValue() float64 {
	if c.ThresholdValue == nil {
		return 0 // default
	}
	return *c.ThresholdValue
}

// GetDownsampleRatio returns the downsample_ratio value or the default.
func (c *ProcessingConfig) GetDownsampleRatio() int {
	if c.DownsampleRatio == nil || *c.DownsampleRatio < 1 {
		return 1 // default
	}
	return *c.DownsampleRatio
}
