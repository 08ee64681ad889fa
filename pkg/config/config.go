package config

import (
	"fmt"
	"time"

	"github.com/entrhq/uiverify/pkg/browser"
	"github.com/entrhq/uiverify/pkg/report"
	"github.com/entrhq/uiverify/pkg/verify"
)

// Config represents the configuration for a verification run
type Config struct {
	// Scenario to run; the built-in daily summary scenario when not set
	Scenario verify.Scenario `yaml:"scenario" json:"scenario"`

	// Browser launch settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserConfig defines how the browser is launched
type BrowserConfig struct {
	Engine         string        `yaml:"engine" json:"engine"`
	Headless       bool          `yaml:"headless" json:"headless"`
	SkipInstall    bool          `yaml:"skip_install" json:"skip_install"` // Driver and browsers are preinstalled
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"` // Page default for operations without their own bound
}

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// PageDigest records title, headings, links and text of the final page
	PageDigest      bool `yaml:"page_digest" json:"page_digest"`
	DigestMaxLength int  `yaml:"digest_max_length" json:"digest_max_length"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls console output: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`

	// Dir enables a debug log file per run when set
	Dir string `yaml:"dir" json:"dir"`
}

// DefaultConfig returns the configuration used when no file or flags are given
func DefaultConfig() *Config {
	return &Config{
		Scenario: verify.DefaultScenario(),
		Browser: BrowserConfig{
			Engine:         string(browser.EngineChromium),
			Headless:       true,
			ViewportWidth:  browser.DefaultViewportWidth,
			ViewportHeight: browser.DefaultViewportHeight,
			Timeout:        browser.DefaultTimeout,
		},
		Artifacts: ArtifactConfig{
			Enabled:         false,
			OutputDir:       ".uiverify/artifacts",
			DigestMaxLength: browser.DefaultMaxLength,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Scenario.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	if !browser.Engine(c.Browser.Engine).Valid() {
		return fmt.Errorf("invalid browser engine: %s (must be 'chromium', 'firefox', or 'webkit')", c.Browser.Engine)
	}

	if c.Browser.ViewportWidth < 100 || c.Browser.ViewportWidth > 5000 {
		return fmt.Errorf("viewport width must be between 100 and 5000 pixels")
	}
	if c.Browser.ViewportHeight < 100 || c.Browser.ViewportHeight > 5000 {
		return fmt.Errorf("viewport height must be between 100 and 5000 pixels")
	}

	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser timeout cannot be negative")
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts output_dir is required when artifacts are enabled")
	}

	if c.Artifacts.DigestMaxLength < 0 {
		return fmt.Errorf("digest_max_length cannot be negative")
	}

	if _, err := report.ParseLogLevel(c.Logging.Verbosity); err != nil {
		return err
	}

	return nil
}

// SessionOptions converts the browser settings for the session manager
func (c *Config) SessionOptions() browser.SessionOptions {
	return browser.SessionOptions{
		Engine:   browser.Engine(c.Browser.Engine),
		Headless: c.Browser.Headless,
		Viewport: &browser.Viewport{
			Width:  c.Browser.ViewportWidth,
			Height: c.Browser.ViewportHeight,
		},
		Timeout: c.Browser.Timeout,
	}
}
