package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel represents the console verbosity level
type LogLevel int

const (
	// LogLevelQuiet shows only errors and the final summary
	LogLevelQuiet LogLevel = iota
	// LogLevelNormal shows step progress (default)
	LogLevelNormal
	// LogLevelVerbose adds step timings and page details
	LogLevelVerbose
	// LogLevelDebug shows all internal details for debugging
	LogLevelDebug
)

// ParseLogLevel converts a verbosity name to a LogLevel.
func ParseLogLevel(level string) (LogLevel, error) {
	switch level {
	case "quiet":
		return LogLevelQuiet, nil
	case "", "normal":
		return LogLevelNormal, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return LogLevelNormal, fmt.Errorf("invalid verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", level)
	}
}

// Console prints run progress to a terminal
type Console struct {
	level  LogLevel
	writer io.Writer

	header  lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
}

// NewConsole creates a console writing to stdout.
func NewConsole(level LogLevel) *Console {
	return NewConsoleWriter(level, os.Stdout)
}

// NewConsoleWriter creates a console writing to w. Colors are only emitted
// when w is a terminal.
func NewConsoleWriter(level LogLevel, w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		level:   level,
		writer:  w,
		header:  r.NewStyle().Foreground(lipgloss.Color("#F9FAFB")).Bold(true),
		step:    r.NewStyle().Foreground(lipgloss.Color("#FFB3BA")),
		success: r.NewStyle().Foreground(lipgloss.Color("#A8E6CF")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFD166")),
	}
}

// Header prints a prominent header message
func (c *Console) Header(message string) {
	if c.level < LogLevelNormal {
		return
	}
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(c.writer, c.header.Render(rule))
	fmt.Fprintln(c.writer, c.header.Render("  "+message))
	fmt.Fprintln(c.writer, c.header.Render(rule))
}

// StepStarted prints the step about to run
func (c *Console) StepStarted(index int, description string) {
	if c.level < LogLevelNormal {
		return
	}
	fmt.Fprintln(c.writer, c.step.Render(fmt.Sprintf("[%d] %s", index, description)))
}

// StepFinished prints the step outcome
func (c *Console) StepFinished(result StepResult) {
	if result.Status == StatusFailed {
		fmt.Fprintln(c.writer, c.failure.Render("  ✗ "+result.Error))
		return
	}
	if c.level >= LogLevelVerbose {
		fmt.Fprintln(c.writer, c.muted.Render(fmt.Sprintf("  ✓ %s", result.Duration.Round(time.Millisecond))))
	}
}

// Warningf prints a warning message
func (c *Console) Warningf(format string, args ...interface{}) {
	fmt.Fprintln(c.writer, c.warning.Render("⚠ Warning: "+fmt.Sprintf(format, args...)))
}

// Debugf prints debug information (only in debug mode)
func (c *Console) Debugf(format string, args ...interface{}) {
	if c.level >= LogLevelDebug {
		fmt.Fprintln(c.writer, c.muted.Render("[DEBUG] "+fmt.Sprintf(format, args...)))
	}
}

// Summary prints the final execution summary
func (c *Console) Summary(summary *ExecutionSummary) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(c.writer)
	fmt.Fprintln(c.writer, c.header.Render(rule))

	status := c.success.Render("✓ SUCCESS")
	if summary.Status != StatusSuccess {
		status = c.failure.Render("✗ FAILED")
	}
	fmt.Fprintf(c.writer, "  Status: %s\n", status)
	fmt.Fprintf(c.writer, "  Scenario: %s\n", summary.Scenario)
	fmt.Fprintf(c.writer, "  Steps: %d\n", len(summary.Steps))
	fmt.Fprintf(c.writer, "  Duration: %s\n", summary.Duration.Round(time.Millisecond))

	if summary.Screenshot != nil {
		fmt.Fprintf(c.writer, "  Screenshot: %s (%d bytes)\n", summary.Screenshot.Path, summary.Screenshot.Bytes)
	}
	if c.level >= LogLevelVerbose && summary.FinalURL != "" {
		fmt.Fprintf(c.writer, "  Final URL: %s\n", summary.FinalURL)
	}
	if c.level >= LogLevelVerbose && summary.Page != nil {
		fmt.Fprintf(c.writer, "  Page title: %s\n", summary.Page.Title)
	}
	if summary.Error != "" {
		fmt.Fprintln(c.writer)
		fmt.Fprintln(c.writer, c.failure.Render("  Error Details:"))
		fmt.Fprintln(c.writer, "    "+summary.Error)
	}

	fmt.Fprintln(c.writer, c.header.Render(rule))
}
