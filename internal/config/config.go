// Package config loads the pipeline configuration file. The schema is a
// flat JSON object; fields omitted from the file keep their defaults, so
// partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/burstlab/internal/isp"
)

// Config is the root configuration for the ISP pipeline.
type Config struct {
	// DefaultSteps is the step order used when a pipeline is constructed
	// without an explicit list.
	DefaultSteps []string `json:"default_steps,omitempty"`
	// LSCCFA is the native channel order of the device's lens-shading
	// maps, e.g. "RGGB".
	LSCCFA *string `json:"lsc_cfa,omitempty"`
	// PreviewDir, when set, enables preview/telemetry output.
	PreviewDir *string `json:"preview_dir,omitempty"`
	// DBPath, when set, enables the calibration/run store.
	DBPath *string `json:"db_path,omitempty"`
	// Inplace lets steps mutate the working burst instead of copying
	// per step.
	Inplace *bool `json:"inplace,omitempty"`
}

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Load reads and validates a JSON config file. The path must have a .json
// extension and stay under the size cap.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.LSCCFA != nil && len(*c.LSCCFA) != 4 {
		return fmt.Errorf("lsc_cfa must name 4 channels, got %q", *c.LSCCFA)
	}
	for _, s := range c.DefaultSteps {
		if s == "" {
			return fmt.Errorf("default_steps contains an empty step identifier")
		}
	}
	return nil
}

// GetDefaultSteps returns the configured default step order as typed
// identifiers, or nil when unset.
func (c *Config) GetDefaultSteps() []isp.Step {
	if len(c.DefaultSteps) == 0 {
		return nil
	}
	out := make([]isp.Step, len(c.DefaultSteps))
	for i, s := range c.DefaultSteps {
		out[i] = isp.Step(s)
	}
	return out
}

// GetLSCCFA returns the lsc_cfa value or the default.
func (c *Config) GetLSCCFA() string {
	if c.LSCCFA == nil {
		return "RGGB"
	}
	return *c.LSCCFA
}

// GetPreviewDir returns the preview_dir value or "" when previews are
// disabled.
func (c *Config) GetPreviewDir() string {
	if c.PreviewDir == nil {
		return ""
	}
	return *c.PreviewDir
}

// GetDBPath returns the db_path value or "" when persistence is disabled.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetInplace returns the inplace value or the default.
func (c *Config) GetInplace() bool {
	if c.Inplace == nil {
		return false
	}
	return *c.Inplace
}
