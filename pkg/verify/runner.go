package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/uiverify/pkg/browser"
	"github.com/entrhq/uiverify/pkg/logging"
	"github.com/entrhq/uiverify/pkg/report"
)

// Page is the browser surface a scenario drives. *browser.Session
// implements it.
type Page interface {
	Goto(url string, timeout time.Duration) error
	WaitForLabel(text string, timeout time.Duration) error
	FillLabel(label, value string, timeout time.Duration) error
	ClickRole(role, name string, timeout time.Duration) error
	WaitForURL(pattern string, timeout time.Duration) error
	Screenshot(opts browser.ScreenshotOptions) ([]byte, error)
	Content() (string, error)
	URL() string
	Close() error
}

// Launcher acquires a fresh browser page for one run. The runner owns the
// returned Page and closes it exactly once.
type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context) (Page, error)

// Launch calls f.
func (f LauncherFunc) Launch(ctx context.Context) (Page, error) {
	return f(ctx)
}

// Observer is notified as steps run. *report.Console implements it.
type Observer interface {
	StepStarted(index int, description string)
	StepFinished(result report.StepResult)
}

// Runner executes scenarios step by step against a launched page.
type Runner struct {
	launcher  Launcher
	observer  Observer
	logger    *logging.Logger
	runID     string
	digest    bool
	digestMax int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithObserver reports step progress to o.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithRunID sets the id recorded in the summary.
func WithRunID(id string) RunnerOption {
	return func(r *Runner) {
		r.runID = id
	}
}

// WithPageDigest attaches a digest of the final page to successful runs,
// keeping at most maxText bytes of page text.
func WithPageDigest(maxText int) RunnerOption {
	return func(r *Runner) {
		r.digest = true
		r.digestMax = maxText
	}
}

// NewRunner creates a runner that acquires its browser from launcher.
func NewRunner(launcher Launcher, opts ...RunnerOption) *Runner {
	r := &Runner{
		launcher: launcher,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Nop("runner")
	}
	if r.runID == "" {
		r.runID = r.logger.RunID()
	}
	return r
}

// Run executes the scenario. Steps run in order and the first failure
// aborts the run with a *StepError; nothing is retried. The page is closed
// on every exit path. The returned summary is never nil.
func (r *Runner) Run(ctx context.Context, sc Scenario) (summary *report.ExecutionSummary, err error) {
	summary = report.NewExecutionSummary(r.runID, sc.Name, time.Now())
	defer func() {
		summary.Finish(time.Now(), err)
		if err != nil {
			r.logger.Errorf("run %s failed: %v", sc.Name, err)
		} else {
			r.logger.Infof("run %s succeeded in %s", sc.Name, summary.Duration)
		}
	}()

	steps, err := sc.Resolve()
	if err != nil {
		return summary, fmt.Errorf("invalid scenario: %w", err)
	}

	r.logger.Infof("starting scenario %s (%d steps)", sc.Name, len(steps))
	page, err := r.launcher.Launch(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			r.logger.Warnf("failed to release browser: %v", closeErr)
			if err == nil {
				err = fmt.Errorf("failed to release browser: %w", closeErr)
			}
		}
	}()

	for i, step := range steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, ctxErr
		}

		index := i + 1
		r.observer.StepStarted(index, step.Description())
		r.logger.Debugf("step %d: %s (timeout %s)", index, step.Description(), step.Timeout)

		start := time.Now()
		stepErr := r.execute(page, step, summary)
		result := report.StepResult{
			Index:       index,
			Action:      string(step.Action),
			Description: step.Description(),
			Status:      report.StatusSuccess,
			Duration:    time.Since(start),
		}
		if stepErr != nil {
			result.Status = report.StatusFailed
			result.Error = stepErr.Error()
		}

		summary.AddStep(result)
		summary.FinalURL = page.URL()
		r.observer.StepFinished(result)

		if stepErr != nil {
			return summary, &StepError{Index: index, Action: step.Action, Err: stepErr}
		}
	}

	if r.digest {
		r.attachDigest(page, summary)
	}

	return summary, nil
}

func (r *Runner) execute(page Page, step Step, summary *report.ExecutionSummary) error {
	switch step.Action {
	case ActionGoto:
		return page.Goto(step.URL, step.Timeout)
	case ActionWaitForLabel:
		return page.WaitForLabel(step.Label, step.Timeout)
	case ActionFillLabel:
		return page.FillLabel(step.Label, step.Value, step.Timeout)
	case ActionClickRole:
		return page.ClickRole(step.Role, step.Name, step.Timeout)
	case ActionWaitForURL:
		return page.WaitForURL(step.URL, step.Timeout)
	case ActionScreenshot:
		return r.screenshot(page, step, summary)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

func (r *Runner) screenshot(page Page, step Step, summary *report.ExecutionSummary) error {
	data, err := page.Screenshot(browser.ScreenshotOptions{
		Path:     step.Path,
		FullPage: step.fullPage(),
		Timeout:  step.Timeout,
	})
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("screenshot %s is empty", step.Path)
	}

	summary.Screenshot = &report.Screenshot{
		Path:     step.Path,
		Bytes:    len(data),
		FullPage: step.fullPage(),
	}
	r.logger.Infof("wrote screenshot %s (%d bytes)", step.Path, len(data))
	return nil
}

// attachDigest is best effort: the run already succeeded.
func (r *Runner) attachDigest(page Page, summary *report.ExecutionSummary) {
	content, err := page.Content()
	if err != nil {
		r.logger.Warnf("page digest skipped: %v", err)
		return
	}
	digest, err := browser.DigestHTML(content, r.digestMax)
	if err != nil {
		r.logger.Warnf("page digest skipped: %v", err)
		return
	}
	summary.Page = digest
}

type nopObserver struct{}

func (nopObserver) StepStarted(int, string) {}
func (nopObserver) StepFinished(report.StepResult) {}
