//go:build integration
// +build integration

package verify_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/uiverify/pkg/browser"
	"github.com/entrhq/uiverify/pkg/report"
	"github.com/entrhq/uiverify/pkg/verify"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// appPages describes what the fake application serves. Defaults conform.
type appPages struct {
	noLoginFields bool
	loginStays    bool
	noCardLink    bool
}

func newApp(t *testing.T, pages appPages) *httptest.Server {
	t.Helper()

	page := func(w http.ResponseWriter, title, body string) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!doctype html><html><head><meta charset="utf-8"><title>%s</title></head><body>%s</body></html>`, title, body)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		fields := `<label for="email">Email</label><input id="email" type="email">
<label for="password">Password</label><input id="password" type="password">`
		if pages.noLoginFields {
			fields = `<p>Maintenance</p>`
		}
		target := "/dashboard"
		if pages.loginStays {
			target = "/login?error=1"
		}
		page(w, "Login", fields+fmt.Sprintf(`<button type="button" onclick="location.href='%s'">Login</button>`, target))
	})
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		page(w, "Dashboard", `<h1>Dashboard</h1>`)
	})
	mux.HandleFunc("/daily-summary", func(w http.ResponseWriter, r *http.Request) {
		link := `<a href="/credit-card">Cartão de Crédito</a>`
		if pages.noCardLink {
			link = `<a href="/cash">Dinheiro</a>`
		}
		page(w, "Resumo Diário", `<h1>Resumo Diário</h1><nav>`+link+`</nav>`)
	})
	mux.HandleFunc("/credit-card", func(w http.ResponseWriter, r *http.Request) {
		var rows bytes.Buffer
		for i := 1; i <= 80; i++ {
			fmt.Fprintf(&rows, "<tr><td>Compra %d</td><td>R$ %d,00</td></tr>", i, i*10)
		}
		page(w, "Cartão de Crédito", `<h1>Cartão de Crédito</h1><table>`+rows.String()+`</table>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newManager(t *testing.T) *browser.SessionManager {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}

	m := browser.NewSessionManager()
	err := m.Initialize(browser.InitOptions{SkipInstall: os.Getenv("UIVERIFY_SKIP_INSTALL") == "1"})
	if err != nil {
		t.Skipf("playwright unavailable: %v", err)
	}
	t.Cleanup(func() {
		assert.NoError(t, m.Shutdown())
	})
	return m
}

func scenarioFor(srv *httptest.Server, shot string) verify.Scenario {
	sc := verify.DefaultScenario().WithBaseURL(srv.URL).WithScreenshotPath(shot)
	sc.ActionTimeout = 5 * time.Second
	sc.WaitTimeout = 5 * time.Second
	return sc
}

func runOnce(t *testing.T, m *browser.SessionManager, sc verify.Scenario) (*report.ExecutionSummary, error) {
	t.Helper()
	launcher := verify.SessionLauncher(m, "verify", browser.SessionOptions{Headless: true})
	runner := verify.NewRunner(launcher, verify.WithPageDigest(2000))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summary, err := runner.Run(ctx, sc)
	assert.False(t, m.HasSessions(), "browser must be released")
	return summary, err
}

func TestIntegration_DefaultScenario(t *testing.T) {
	m := newManager(t)
	srv := newApp(t, appPages{})
	shot := filepath.Join(t.TempDir(), "jules-scratch", "verification", "verification.png")

	summary, err := runOnce(t, m, scenarioFor(srv, shot))
	require.NoError(t, err)
	assert.Equal(t, report.StatusSuccess, summary.Status)
	assert.Len(t, summary.Steps, 11)
	assert.Equal(t, srv.URL+"/credit-card", summary.FinalURL)

	data, err := os.ReadFile(shot)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, pngSignature), "screenshot must be a PNG")
	assert.Equal(t, len(data), summary.Screenshot.Bytes)

	require.NotNil(t, summary.Page)
	assert.Equal(t, "Cartão de Crédito", summary.Page.Title)

	// A second run overwrites the screenshot
	first, err := os.Stat(shot)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	_, err = runOnce(t, m, scenarioFor(srv, shot))
	require.NoError(t, err)
	second, err := os.Stat(shot)
	require.NoError(t, err)
	assert.False(t, second.ModTime().Before(first.ModTime()))
}

func TestIntegration_Failures(t *testing.T) {
	m := newManager(t)

	tests := []struct {
		name      string
		pages     appPages
		wantIndex int
	}{
		{"login fields never appear", appPages{noLoginFields: true}, 2},
		{"login does not reach dashboard", appPages{loginStays: true}, 7},
		{"credit card link missing", appPages{noCardLink: true}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newApp(t, tt.pages)
			shot := filepath.Join(t.TempDir(), "verification.png")

			sc := scenarioFor(srv, shot)
			sc.ActionTimeout = 2 * time.Second
			sc.WaitTimeout = 2 * time.Second

			summary, err := runOnce(t, m, sc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, verify.ErrTimeout), "want timeout, got %v", err)

			var stepErr *verify.StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.wantIndex, stepErr.Index)

			assert.Equal(t, report.StatusFailed, summary.Status)
			assert.Nil(t, summary.Screenshot)
			assert.NoFileExists(t, shot)
		})
	}
}
