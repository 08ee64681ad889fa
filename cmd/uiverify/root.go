package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/uiverify/pkg/browser"
	"github.com/entrhq/uiverify/pkg/config"
	"github.com/entrhq/uiverify/pkg/logging"
	"github.com/entrhq/uiverify/pkg/report"
	"github.com/entrhq/uiverify/pkg/verify"
)

const version = "0.1.0"

// sessionName is the only session a run opens.
const sessionName = "verify"

// cliFlags holds command-line overrides. Zero values leave the loaded
// configuration untouched.
type cliFlags struct {
	scenarioFile string
	baseURL      string
	output       string
	engine       string
	headed       bool
	skipInstall  bool
	artifactsDir string
	logDir       string
	verbosity    string
	digest       bool
}

func newRootCommand() *cobra.Command {
	return newCommand(run)
}

// newCommand builds the command tree around runFn, which receives the
// fully resolved configuration.
func newCommand(runFn func(context.Context, *config.Config) error) *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "uiverify",
		Short: "Verify the daily summary credit card page in a real browser",
		Long: `uiverify drives a browser through the login, daily summary and credit card
pages of the application and saves a full-page screenshot of the result.

With no flags it runs the built-in scenario against http://localhost:5000
and writes jules-scratch/verification/verification.png.`,
		Example: `  # Built-in scenario
  uiverify

  # Another host, visible browser
  uiverify --base-url http://staging:8080 --headed

  # Custom scenario with artifacts
  uiverify --scenario checks/login.yaml --artifacts-dir out/`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runFn(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.scenarioFile, "scenario", "s", "", "Path to a YAML configuration/scenario file")
	f.StringVar(&flags.baseURL, "base-url", "", "Base URL of the application (default "+verify.DefaultBaseURL+")")
	f.StringVarP(&flags.output, "output", "o", "", "Screenshot path (default "+verify.DefaultScreenshotPath+")")
	f.StringVar(&flags.engine, "browser", "", "Browser engine: chromium, firefox or webkit")
	f.BoolVar(&flags.headed, "headed", false, "Show the browser window")
	f.BoolVar(&flags.skipInstall, "skip-install", false, "Skip installing the playwright driver and browsers")
	f.StringVar(&flags.artifactsDir, "artifacts-dir", "", "Write execution.json and summary.md to this directory")
	f.StringVar(&flags.logDir, "log-dir", "", "Write a debug log file to this directory")
	f.StringVarP(&flags.verbosity, "verbosity", "v", "", "Console output: quiet, normal, verbose or debug")
	f.BoolVar(&flags.digest, "digest", false, "Record a digest of the final page in the summary")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uiverify v%s\n", version)
		},
	})

	return cmd
}

// loadConfig builds the run configuration: defaults, then the scenario
// file, then flags.
func loadConfig(cmd *cobra.Command, flags *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.scenarioFile != "" {
		loaded, err := config.LoadFile(flags.scenarioFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	applyFlags(cmd, flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, flags *cliFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("base-url") {
		cfg.Scenario = cfg.Scenario.WithBaseURL(flags.baseURL)
	}
	if changed("output") {
		cfg.Scenario = cfg.Scenario.WithScreenshotPath(flags.output)
	}
	if changed("browser") {
		cfg.Browser.Engine = flags.engine
	}
	if changed("headed") {
		cfg.Browser.Headless = !flags.headed
	}
	if changed("skip-install") {
		cfg.Browser.SkipInstall = flags.skipInstall
	}
	if changed("artifacts-dir") {
		cfg.Artifacts.Enabled = flags.artifactsDir != ""
		cfg.Artifacts.OutputDir = flags.artifactsDir
	}
	if changed("log-dir") {
		cfg.Logging.Dir = flags.logDir
	}
	if changed("verbosity") {
		cfg.Logging.Verbosity = flags.verbosity
	}
	if changed("digest") {
		cfg.Artifacts.PageDigest = flags.digest
	}
}

// run executes one verification. The driver is stopped on every path.
func run(ctx context.Context, cfg *config.Config) error {
	level, err := report.ParseLogLevel(cfg.Logging.Verbosity)
	if err != nil {
		return err
	}
	console := report.NewConsole(level)

	if dirErr := logging.SetDirectory(cfg.Logging.Dir); dirErr != nil {
		console.Warningf("file logging disabled: %v", dirErr)
	}
	// On failure NewLogger reports the problem and falls back to stderr
	logger, _ := logging.NewLogger("uiverify")
	defer logger.Close()

	console.Header(fmt.Sprintf("uiverify v%s: %s", version, cfg.Scenario.Name))
	if path := logger.LogPath(); path != "" {
		console.Debugf("log file: %s", path)
	}

	manager := browser.NewSessionManager()
	manager.SetMaxSessions(1)
	if initErr := manager.Initialize(browser.InitOptions{
		SkipInstall: cfg.Browser.SkipInstall,
		Verbose:     level >= report.LogLevelDebug,
	}); initErr != nil {
		return initErr
	}
	defer func() {
		if shutdownErr := manager.Shutdown(); shutdownErr != nil {
			logger.Warnf("playwright shutdown: %v", shutdownErr)
		}
	}()

	opts := []verify.RunnerOption{
		verify.WithObserver(console),
		verify.WithLogger(logger),
	}
	if cfg.Artifacts.PageDigest {
		opts = append(opts, verify.WithPageDigest(cfg.Artifacts.DigestMaxLength))
	}
	runner := verify.NewRunner(verify.SessionLauncher(manager, sessionName, cfg.SessionOptions()), opts...)

	summary, runErr := runner.Run(ctx, cfg.Scenario)
	console.Summary(summary)

	if cfg.Artifacts.Enabled {
		writer := report.NewArtifactWriter(cfg.Artifacts.OutputDir)
		if writeErr := writer.WriteAll(summary); writeErr != nil {
			console.Warningf("failed to write artifacts: %v", writeErr)
		} else {
			console.Debugf("artifacts written to %s", cfg.Artifacts.OutputDir)
		}
	}

	return runErr
}
