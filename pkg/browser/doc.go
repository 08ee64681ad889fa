// Package browser provides web browser automation capabilities through Playwright.
//
// The package wraps playwright-go with the handful of operations a scripted
// UI verification needs, each bounded by an explicit timeout.
//
// # Architecture
//
// The package is built around two core concepts:
//
//  1. SessionManager: owns the Playwright driver process and a registry of sessions
//  2. Session: a browser instance with one isolated context and one page
//
// # Session Lifecycle
//
//  1. Initialize: install (optional) and start the Playwright driver
//  2. Start: StartSession launches the browser, context and page
//  3. Use: Goto, WaitForLabel, FillLabel, ClickRole, WaitForURL, Screenshot
//  4. Close: Session.Close releases the browser; repeated calls are no-ops
//  5. Shutdown: closes any leftover sessions and stops the driver
//
// # Errors
//
// Any wait or locate that does not resolve within its bound is reported
// with an error matching ErrTimeout via errors.Is.
//
// # Example Usage
//
//	manager := NewSessionManager()
//	if err := manager.Initialize(InitOptions{}); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession("verify", SessionOptions{Headless: true})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	err = session.Goto("http://localhost:5000/login", 30*time.Second)
package browser
