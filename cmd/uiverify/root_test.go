package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/uiverify/pkg/config"
	"github.com/entrhq/uiverify/pkg/verify"
)

// resolve runs the command with args and returns the configuration it
// would have run.
func resolve(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var got *config.Config
	cmd := newCommand(func(_ context.Context, cfg *config.Config) error {
		got = cfg
		return nil
	})
	// A nil slice would make cobra fall back to os.Args
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	return got, err
}

func TestNoFlagsRunsBuiltinScenario(t *testing.T) {
	cfg, err := resolve(t)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg, err := resolve(t,
		"--base-url", "http://127.0.0.1:9000",
		"--output", "shots/cc.png",
		"--browser", "webkit",
		"--headed",
		"--skip-install",
		"--artifacts-dir", "out",
		"--log-dir", "logs",
		"--verbosity", "debug",
		"--digest",
	)
	require.NoError(t, err)

	steps := cfg.Scenario.Steps
	assert.Equal(t, "http://127.0.0.1:9000/login", steps[0].URL)
	assert.Equal(t, "http://127.0.0.1:9000/credit-card", steps[9].URL)
	assert.Equal(t, "shots/cc.png", steps[10].Path)

	assert.Equal(t, "webkit", cfg.Browser.Engine)
	assert.False(t, cfg.Browser.Headless)
	assert.True(t, cfg.Browser.SkipInstall)
	assert.True(t, cfg.Artifacts.Enabled)
	assert.Equal(t, "out", cfg.Artifacts.OutputDir)
	assert.True(t, cfg.Artifacts.PageDigest)
	assert.Equal(t, "logs", cfg.Logging.Dir)
	assert.Equal(t, "debug", cfg.Logging.Verbosity)
}

func TestScenarioFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
browser:
  engine: firefox
scenario:
  base_url: http://localhost:5000
  steps:
    - action: goto
      url: /login
    - action: screenshot
      path: login.png
`), 0600))

	cfg, err := resolve(t, "--scenario", path, "--base-url", "http://qa:5000")
	require.NoError(t, err)

	assert.Equal(t, "login", cfg.Scenario.Name)
	assert.Equal(t, "firefox", cfg.Browser.Engine)
	assert.Equal(t, "http://qa:5000", cfg.Scenario.BaseURL)
	// Relative URLs are joined at run time
	assert.Equal(t, "/login", cfg.Scenario.Steps[0].URL)
}

func TestInvalidFlags(t *testing.T) {
	_, err := resolve(t, "--browser", "lynx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, err = resolve(t, "--verbosity", "loud")
	assert.Error(t, err)

	_, err = resolve(t, "--scenario", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newCommand(func(context.Context, *config.Config) error {
		t.Fatal("version must not run a scenario")
		return nil
	})
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "uiverify v"+version)
}

func TestDefaultScreenshotPath(t *testing.T) {
	cfg, err := resolve(t)
	require.NoError(t, err)
	last := cfg.Scenario.Steps[len(cfg.Scenario.Steps)-1]
	assert.Equal(t, verify.DefaultScreenshotPath, last.Path)
}
