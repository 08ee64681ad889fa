package browser

import (
	"errors"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Engine is the browser engine the session was launched with
	Engine Engine

	// Headless indicates if the browser is running in headless mode
	Headless bool

	manager *SessionManager
	closed  bool
}

// Engine names a Playwright browser engine.
type Engine string

const (
	EngineChromium Engine = "chromium"
	EngineFirefox  Engine = "firefox"
	EngineWebKit   Engine = "webkit"
)

// Valid reports whether e is an engine Playwright can launch.
func (e Engine) Valid() bool {
	switch e {
	case EngineChromium, EngineFirefox, EngineWebKit:
		return true
	}
	return false
}

// InitOptions configures driver startup.
type InitOptions struct {
	// SkipInstall skips downloading the driver and browsers, for images
	// where they are preinstalled.
	SkipInstall bool

	// Verbose forwards driver install output to the process stdout/stderr.
	Verbose bool
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Engine selects the browser, chromium when empty
	Engine Engine

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout is the default bound for operations that don't set their own
	Timeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// ScreenshotOptions configures page capture.
type ScreenshotOptions struct {
	// Path is the file the PNG is written to; an existing file is replaced
	Path string

	// FullPage captures the full scrollable page instead of the viewport
	FullPage bool

	// Timeout bounds the capture
	Timeout time.Duration
}

// Default values for various operations
const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxLength      = 10000 // 10,000 characters
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
)

var (
	// ErrTimeout is returned when a bounded wait or locate does not resolve in time.
	ErrTimeout = errors.New("timed out")

	// ErrNotInitialized is returned when a session is requested before Initialize.
	ErrNotInitialized = errors.New("session manager not initialized")

	// ErrSessionExists is returned when a session name is already taken.
	ErrSessionExists = errors.New("session already exists")

	// ErrSessionNotFound is returned for unknown session names.
	ErrSessionNotFound = errors.New("session not found")
)
