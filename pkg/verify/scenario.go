package verify

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Action identifies what a step does.
type Action string

const (
	// ActionGoto navigates to URL
	ActionGoto Action = "goto"
	// ActionWaitForLabel waits for a <label> containing Label
	ActionWaitForLabel Action = "wait_for_label"
	// ActionFillLabel fills the control labelled Label with Value
	ActionFillLabel Action = "fill_label"
	// ActionClickRole clicks the element with ARIA Role and accessible Name
	ActionClickRole Action = "click_role"
	// ActionWaitForURL waits until the page URL matches URL (exact or glob)
	ActionWaitForURL Action = "wait_for_url"
	// ActionScreenshot writes a PNG of the page to Path
	ActionScreenshot Action = "screenshot"
)

// Default step bounds. Waits get the longer bound because they cover a
// round trip through the application under test.
const (
	DefaultActionTimeout = 30 * time.Second
	DefaultWaitTimeout   = 60 * time.Second
)

// Step is one UI interaction. Which fields apply depends on Action.
type Step struct {
	Action   Action        `yaml:"action" json:"action"`
	URL      string        `yaml:"url,omitempty" json:"url,omitempty"`
	Label    string        `yaml:"label,omitempty" json:"label,omitempty"`
	Value    string        `yaml:"value,omitempty" json:"-"`
	Role     string        `yaml:"role,omitempty" json:"role,omitempty"`
	Name     string        `yaml:"name,omitempty" json:"name,omitempty"`
	Path     string        `yaml:"path,omitempty" json:"path,omitempty"`
	FullPage *bool         `yaml:"full_page,omitempty" json:"full_page,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Scenario is an ordered list of steps run against one browser page.
type Scenario struct {
	Name    string `yaml:"name" json:"name"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	Steps   []Step `yaml:"steps" json:"steps"`

	// ActionTimeout and WaitTimeout bound steps that don't set Timeout.
	ActionTimeout time.Duration `yaml:"action_timeout,omitempty" json:"action_timeout,omitempty"`
	WaitTimeout   time.Duration `yaml:"wait_timeout,omitempty" json:"wait_timeout,omitempty"`
}

// Built-in scenario literals.
const (
	DefaultBaseURL        = "http://localhost:5000"
	DefaultEmail          = "test@test.com"
	DefaultPassword       = "password"
	DefaultCreditCardLink = "Cartão de Crédito"
	DefaultScreenshotPath = "jules-scratch/verification/verification.png"
)

// DefaultScenario logs in, opens the daily summary, follows the credit card
// link and captures the resulting page.
func DefaultScenario() Scenario {
	return Scenario{
		Name:          "daily-summary-credit-card",
		BaseURL:       DefaultBaseURL,
		ActionTimeout: DefaultActionTimeout,
		WaitTimeout:   DefaultWaitTimeout,
		Steps: []Step{
			{Action: ActionGoto, URL: DefaultBaseURL + "/login"},
			{Action: ActionWaitForLabel, Label: "Email"},
			{Action: ActionWaitForLabel, Label: "Password"},
			{Action: ActionFillLabel, Label: "Email", Value: DefaultEmail},
			{Action: ActionFillLabel, Label: "Password", Value: DefaultPassword},
			{Action: ActionClickRole, Role: "button", Name: "Login"},
			{Action: ActionWaitForURL, URL: DefaultBaseURL + "/dashboard"},
			{Action: ActionGoto, URL: DefaultBaseURL + "/daily-summary"},
			{Action: ActionClickRole, Role: "link", Name: DefaultCreditCardLink},
			{Action: ActionWaitForURL, URL: DefaultBaseURL + "/credit-card"},
			{Action: ActionScreenshot, Path: DefaultScreenshotPath, FullPage: boolPtr(true)},
		},
	}
}

// Validate checks that every step carries the fields its action needs.
func (s Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	if s.ActionTimeout < 0 || s.WaitTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	if s.BaseURL != "" {
		if _, err := url.Parse(s.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
	}

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	if st.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	switch st.Action {
	case ActionGoto, ActionWaitForURL:
		if st.URL == "" {
			return fmt.Errorf("url is required")
		}
	case ActionWaitForLabel:
		if st.Label == "" {
			return fmt.Errorf("label is required")
		}
	case ActionFillLabel:
		if st.Label == "" {
			return fmt.Errorf("label is required")
		}
	case ActionClickRole:
		if st.Role == "" {
			return fmt.Errorf("role is required")
		}
		if st.Name == "" {
			return fmt.Errorf("name is required")
		}
	case ActionScreenshot:
		if st.Path == "" {
			return fmt.Errorf("path is required")
		}
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action")
	}
	return nil
}

// Resolve validates the scenario and returns its steps with relative URLs
// joined to BaseURL and every timeout made explicit.
func (s Scenario) Resolve() ([]Step, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	actionTimeout := s.ActionTimeout
	if actionTimeout == 0 {
		actionTimeout = DefaultActionTimeout
	}
	waitTimeout := s.WaitTimeout
	if waitTimeout == 0 {
		waitTimeout = DefaultWaitTimeout
	}

	steps := make([]Step, len(s.Steps))
	for i, step := range s.Steps {
		if step.URL != "" {
			step.URL = s.absoluteURL(step.URL)
		}
		if step.Timeout == 0 {
			step.Timeout = actionTimeout
			if step.isWait() {
				step.Timeout = waitTimeout
			}
		}
		steps[i] = step
	}
	return steps, nil
}

// WithBaseURL returns a copy of the scenario moved to base: step URLs
// under the current BaseURL are rewritten to point at base.
func (s Scenario) WithBaseURL(base string) Scenario {
	old := strings.TrimRight(s.BaseURL, "/")
	base = strings.TrimRight(base, "/")

	steps := make([]Step, len(s.Steps))
	for i, step := range s.Steps {
		if old != "" && underBase(step.URL, old) {
			step.URL = base + strings.TrimPrefix(step.URL, old)
		}
		steps[i] = step
	}

	s.BaseURL = base
	s.Steps = steps
	return s
}

// WithScreenshotPath returns a copy of the scenario whose last screenshot
// step writes to path. A scenario without one is returned unchanged.
func (s Scenario) WithScreenshotPath(path string) Scenario {
	steps := make([]Step, len(s.Steps))
	copy(steps, s.Steps)
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Action == ActionScreenshot {
			steps[i].Path = path
			break
		}
	}
	s.Steps = steps
	return s
}

func underBase(u, base string) bool {
	if !strings.HasPrefix(u, base) {
		return false
	}
	rest := u[len(base):]
	return rest == "" || rest[0] == '/' || rest[0] == '?' || rest[0] == '#'
}

func (s Scenario) absoluteURL(u string) string {
	if s.BaseURL == "" || !strings.HasPrefix(u, "/") {
		return u
	}
	return strings.TrimRight(s.BaseURL, "/") + u
}

func (st Step) isWait() bool {
	return st.Action == ActionWaitForLabel || st.Action == ActionWaitForURL
}

// Description renders the step for progress output. Fill values are never
// included so credentials stay out of logs and reports.
func (st Step) Description() string {
	switch st.Action {
	case ActionGoto:
		return fmt.Sprintf("goto %s", st.URL)
	case ActionWaitForLabel:
		return fmt.Sprintf("wait for label %q", st.Label)
	case ActionFillLabel:
		return fmt.Sprintf("fill %q", st.Label)
	case ActionClickRole:
		return fmt.Sprintf("click %s %q", st.Role, st.Name)
	case ActionWaitForURL:
		return fmt.Sprintf("wait for url %s", st.URL)
	case ActionScreenshot:
		return fmt.Sprintf("screenshot %s", st.Path)
	default:
		return string(st.Action)
	}
}

// fullPage defaults to true for screenshots.
func (st Step) fullPage() bool {
	if st.FullPage == nil {
		return true
	}
	return *st.FullPage
}

func boolPtr(b bool) *bool {
	return &b
}
