package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Goto navigates the session's page to the specified URL and waits for the
// load event.
func (s *Session) Goto(url string, timeout time.Duration) error {
	_, err := s.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   timeoutOption(timeout),
	})
	if err != nil {
		return classify(fmt.Sprintf("navigation to %s failed", url), err)
	}

	return nil
}

// WaitForLabel waits until a <label> containing text is visible.
func (s *Session) WaitForLabel(text string, timeout time.Duration) error {
	selector := fmt.Sprintf("label:has-text(%q)", text)
	_, err := s.Page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: timeoutOption(timeout),
	})
	if err != nil {
		return classify(fmt.Sprintf("label %q did not appear", text), err)
	}

	return nil
}

// FillLabel fills the form control associated with the label text.
func (s *Session) FillLabel(label, value string, timeout time.Duration) error {
	err := s.Page.GetByLabel(label).Fill(value, playwright.LocatorFillOptions{
		Timeout: timeoutOption(timeout),
	})
	if err != nil {
		return classify(fmt.Sprintf("fill %q failed", label), err)
	}

	return nil
}

// ClickRole clicks the element with the given ARIA role and accessible name.
func (s *Session) ClickRole(role, name string, timeout time.Duration) error {
	locator := s.Page.GetByRole(playwright.AriaRole(role), playwright.PageGetByRoleOptions{
		Name: name,
	})
	err := locator.Click(playwright.LocatorClickOptions{
		Timeout: timeoutOption(timeout),
	})
	if err != nil {
		return classify(fmt.Sprintf("click %s %q failed", role, name), err)
	}

	return nil
}

// WaitForURL waits until the page URL matches pattern, either an exact URL
// or a glob such as "**/dashboard".
func (s *Session) WaitForURL(pattern string, timeout time.Duration) error {
	matcher, err := CompileURLPattern(pattern)
	if err != nil {
		return err
	}

	err = s.Page.WaitForURL(matcher.Match, playwright.PageWaitForURLOptions{
		Timeout: timeoutOption(timeout),
	})
	if err != nil {
		return classify(fmt.Sprintf("url did not become %s (at %s)", pattern, s.Page.URL()), err)
	}

	return nil
}

// Screenshot captures the page as PNG and writes it to opts.Path,
// creating parent directories and replacing any existing file.
func (s *Session) Screenshot(opts ScreenshotOptions) ([]byte, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("screenshot path is required")
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}

	data, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(opts.Path),
		FullPage: playwright.Bool(opts.FullPage),
		Type:     playwright.ScreenshotTypePng,
		Timeout:  timeoutOption(opts.Timeout),
	})
	if err != nil {
		return nil, classify("screenshot failed", err)
	}

	return data, nil
}

// Content returns the serialized HTML of the current page.
func (s *Session) Content() (string, error) {
	content, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

// URL returns the current page URL.
func (s *Session) URL() string {
	return s.Page.URL()
}

// Close releases the page, context and browser. Calling it again after a
// successful close is a no-op.
func (s *Session) Close() error {
	if s.manager == nil {
		return s.release()
	}

	err := s.manager.CloseSession(s.Name)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	return err
}

// release closes the Playwright resources. Errors on page and context are
// ignored so the browser itself is always closed.
func (s *Session) release() error {
	if s.closed {
		return nil
	}
	s.closed = true

	_ = s.Page.Close()
	_ = s.Context.Close()
	if err := s.Browser.Close(); err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// classify wraps a driver error, marking Playwright timeouts with ErrTimeout.
func classify(msg string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", msg, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func timeoutOption(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(milliseconds(d))
}
