package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/uiverify/pkg/verify"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "chromium", cfg.Browser.Engine)
	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Artifacts.Enabled)
	assert.Empty(t, cfg.Logging.Dir)
	assert.Equal(t, verify.DefaultScenario(), cfg.Scenario)

	opts := cfg.SessionOptions()
	assert.True(t, opts.Headless)
	assert.Equal(t, 1280, opts.Viewport.Width)
	assert.Equal(t, 720, opts.Viewport.Height)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown engine", func(c *Config) { c.Browser.Engine = "opera" }, "invalid browser engine"},
		{"narrow viewport", func(c *Config) { c.Browser.ViewportWidth = 50 }, "viewport width"},
		{"tall viewport", func(c *Config) { c.Browser.ViewportHeight = 9000 }, "viewport height"},
		{"negative timeout", func(c *Config) { c.Browser.Timeout = -time.Second }, "cannot be negative"},
		{"artifacts without dir", func(c *Config) {
			c.Artifacts.Enabled = true
			c.Artifacts.OutputDir = ""
		}, "output_dir is required"},
		{"bad verbosity", func(c *Config) { c.Logging.Verbosity = "loud" }, "invalid verbosity"},
		{"empty scenario", func(c *Config) { c.Scenario.Steps = nil }, "invalid scenario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParse_OverridesKeepDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
browser:
  engine: firefox
  headless: false
logging:
  verbosity: verbose
`))
	require.NoError(t, err)

	assert.Equal(t, "firefox", cfg.Browser.Engine)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, "verbose", cfg.Logging.Verbosity)
	assert.Equal(t, verify.DefaultScenario(), cfg.Scenario)
}

func TestParse_BaseURLMovesBuiltinScenario(t *testing.T) {
	cfg, err := Parse([]byte(`
scenario:
  base_url: http://staging.internal:8080
  wait_timeout: 90s
`))
	require.NoError(t, err)

	assert.Equal(t, "daily-summary-credit-card", cfg.Scenario.Name)
	assert.Equal(t, "http://staging.internal:8080", cfg.Scenario.BaseURL)
	assert.Equal(t, "http://staging.internal:8080/login", cfg.Scenario.Steps[0].URL)
	assert.Equal(t, "http://staging.internal:8080/credit-card", cfg.Scenario.Steps[9].URL)
	assert.Equal(t, 90*time.Second, cfg.Scenario.WaitTimeout)
	assert.Equal(t, verify.DefaultActionTimeout, cfg.Scenario.ActionTimeout)
}

func TestParse_CustomScenarioWithEnv(t *testing.T) {
	t.Setenv("UIVERIFY_TEST_EMAIL", "qa@example.com")
	t.Setenv("UIVERIFY_TEST_PASSWORD", "s3cret")

	cfg, err := Parse([]byte(`
scenario:
  name: login-only
  base_url: http://localhost:5000
  steps:
    - action: goto
      url: /login
    - action: fill_label
      label: Email
      value: ${UIVERIFY_TEST_EMAIL}
    - action: fill_label
      label: Password
      value: $UIVERIFY_TEST_PASSWORD
    - action: click_role
      role: button
      name: Login
    - action: wait_for_url
      url: "**/dashboard"
      timeout: 10s
    - action: screenshot
      path: out/dashboard.png
      full_page: false
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	sc := cfg.Scenario
	assert.Equal(t, "login-only", sc.Name)
	require.Len(t, sc.Steps, 6)
	assert.Equal(t, "qa@example.com", sc.Steps[1].Value)
	assert.Equal(t, "s3cret", sc.Steps[2].Value)
	assert.Equal(t, 10*time.Second, sc.Steps[4].Timeout)
	require.NotNil(t, sc.Steps[5].FullPage)
	assert.False(t, *sc.Steps[5].FullPage)
}

func TestParse_UndefinedEnv(t *testing.T) {
	_, err := Parse([]byte(`
scenario:
  steps:
    - action: fill_label
      label: Password
      value: ${UIVERIFY_TEST_UNSET_B}${UIVERIFY_TEST_UNSET_A}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UIVERIFY_TEST_UNSET_A, UIVERIFY_TEST_UNSET_B")
	assert.Contains(t, err.Error(), "write $$ for a literal $")
}

func TestParse_DollarEscape(t *testing.T) {
	t.Setenv("UIVERIFY_TEST_USER", "qa")

	cfg, err := Parse([]byte(`
scenario:
  steps:
    - action: fill_label
      label: Email
      value: ${UIVERIFY_TEST_USER}@example.com
    - action: fill_label
      label: Password
      value: pa$$word$
`))
	require.NoError(t, err)
	assert.Equal(t, "qa@example.com", cfg.Scenario.Steps[0].Value)
	assert.Equal(t, "pa$word$", cfg.Scenario.Steps[1].Value)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(`
browser:
  engin: firefox
`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smoke.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scenario:
  steps:
    - action: goto
      url: http://localhost:5000/daily-summary
    - action: screenshot
      path: smoke.png
`), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke", cfg.Scenario.Name)
	assert.Len(t, cfg.Scenario.Steps, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
