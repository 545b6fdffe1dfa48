package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvDualAnalysis      = "LUMEN_DUAL_ANALYSIS"
	EnvBaselineURL       = "LUMEN_BASELINE_URL"
	EnvBaselineTimeout   = "LUMEN_BASELINE_TIMEOUT"
	EnvRichAPIKey        = "LUMEN_RICH_API_KEY"
	EnvRichModel         = "LUMEN_RICH_MODEL"
	EnvRichTimeout       = "LUMEN_RICH_TIMEOUT"
	EnvRichMaxTokens     = "LUMEN_RICH_MAX_OUTPUT_TOKENS"
)

// PipelineConfig holds settings for the dual-model analysis pipeline.
// DualAnalysis gates the rich classifier: when false, every analysis runs in
// single mode. The flag is injected into the pipeline at construction so both
// branches are testable without environment mutation.
type PipelineConfig struct {
	DualAnalysis bool           `toml:"dual_analysis"`
	Baseline     BaselineConfig `toml:"baseline"`
	Rich         RichConfig     `toml:"rich"`
}

// BaselineConfig holds connection parameters for the baseline model server.
type BaselineConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *BaselineConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// RichConfig holds parameters for the rich vision classifier (Gemini).
type RichConfig struct {
	APIKey          string `toml:"api_key"`
	Model           string `toml:"model"`
	Timeout         string `toml:"timeout"`
	MaxOutputTokens int32  `toml:"max_output_tokens"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *RichConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields from overlay. DualAnalysis always applies; string
// and numeric fields only when non-zero.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	c.DualAnalysis = overlay.DualAnalysis

	if overlay.Baseline.URL != "" {
		c.Baseline.URL = overlay.Baseline.URL
	}
	if overlay.Baseline.Timeout != "" {
		c.Baseline.Timeout = overlay.Baseline.Timeout
	}
	if overlay.Rich.APIKey != "" {
		c.Rich.APIKey = overlay.Rich.APIKey
	}
	if overlay.Rich.Model != "" {
		c.Rich.Model = overlay.Rich.Model
	}
	if overlay.Rich.Timeout != "" {
		c.Rich.Timeout = overlay.Rich.Timeout
	}
	if overlay.Rich.MaxOutputTokens != 0 {
		c.Rich.MaxOutputTokens = overlay.Rich.MaxOutputTokens
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.Baseline.Timeout == "" {
		c.Baseline.Timeout = "10s"
	}
	if c.Rich.Model == "" {
		c.Rich.Model = "gemini-2.5-flash"
	}
	if c.Rich.Timeout == "" {
		c.Rich.Timeout = "45s"
	}
	if c.Rich.MaxOutputTokens == 0 {
		c.Rich.MaxOutputTokens = 1024
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvDualAnalysis); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.DualAnalysis = enabled
		}
	}
	if v := os.Getenv(EnvBaselineURL); v != "" {
		c.Baseline.URL = v
	}
	if v := os.Getenv(EnvBaselineTimeout); v != "" {
		c.Baseline.Timeout = v
	}
	if v := os.Getenv(EnvRichAPIKey); v != "" {
		c.Rich.APIKey = v
	}
	if v := os.Getenv(EnvRichModel); v != "" {
		c.Rich.Model = v
	}
	if v := os.Getenv(EnvRichTimeout); v != "" {
		c.Rich.Timeout = v
	}
	if v := os.Getenv(EnvRichMaxTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Rich.MaxOutputTokens = int32(n)
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.Baseline.URL == "" {
		return fmt.Errorf("baseline url required")
	}
	if _, err := time.ParseDuration(c.Baseline.Timeout); err != nil {
		return fmt.Errorf("invalid baseline timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Rich.Timeout); err != nil {
		return fmt.Errorf("invalid rich timeout: %w", err)
	}
	if c.DualAnalysis && c.Rich.APIKey == "" {
		return fmt.Errorf("rich api_key required when dual_analysis is enabled")
	}
	return nil
}
