package browser

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// URLMatcher matches page URLs against an exact URL or a glob pattern.
// In globs "*" stays within one path segment, "**" spans segments and
// "{a,b}" lists alternatives. "?", "[" and "]" are always literal since
// they are ordinary URL characters.
type URLMatcher struct {
	pattern string
	glob    glob.Glob
}

// CompileURLPattern builds a matcher. A pattern is a glob only when it
// contains "*"; anything else matches only the identical URL.
func CompileURLPattern(pattern string) (*URLMatcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("url pattern is required")
	}

	m := &URLMatcher{pattern: pattern}
	if !strings.Contains(pattern, "*") {
		return m, nil
	}

	g, err := glob.Compile(literalURLChars.Replace(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("invalid url pattern %q: %w", pattern, err)
	}
	m.glob = g
	return m, nil
}

var literalURLChars = strings.NewReplacer(`?`, `\?`, `[`, `\[`, `]`, `\]`)

// Match reports whether url satisfies the pattern.
func (m *URLMatcher) Match(url string) bool {
	if m.glob == nil {
		return url == m.pattern
	}
	return m.glob.Match(url)
}

// String returns the source pattern.
func (m *URLMatcher) String() string {
	return m.pattern
}
