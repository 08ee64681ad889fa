package verify

import (
	"context"

	"github.com/entrhq/uiverify/pkg/browser"
)

var _ Page = (*browser.Session)(nil)

// SessionLauncher returns a Launcher that starts a named session on m.
// The manager must already be initialized.
func SessionLauncher(m *browser.SessionManager, name string, opts browser.SessionOptions) Launcher {
	return LauncherFunc(func(ctx context.Context) (Page, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		session, err := m.StartSession(name, opts)
		if err != nil {
			return nil, err
		}
		return session, nil
	})
}
