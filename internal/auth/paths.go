package auth

import (
	"log/slog"
	"strings"

	"github.com/gobwas/glob"
)

// ExcludedPaths is an ordered set of shell-style glob patterns for request
// paths that bypass authentication. Patterns are compiled without
// separators, so "*" also matches "/" (fnmatch semantics).
//
// Unlike fnmatch, "{a,b}" is an alternation and a backslash escapes the
// next character. AUTH_EXCLUDED_PATHS is split on commas before compiling, so
// alternations can only be passed programmatically.
type ExcludedPaths struct {
	patterns []string
	globs    []glob.Glob
}

// NewExcludedPaths compiles patterns. A pattern that fails to compile is
// logged and never matches.
func NewExcludedPaths(patterns ...string) *ExcludedPaths {
	ep := &ExcludedPaths{}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			slog.Warn("ignoring invalid excluded path pattern", "pattern", p, "error", err)
			continue
		}
		ep.patterns = append(ep.patterns, p)
		ep.globs = append(ep.globs, g)
	}
	return ep
}

// Patterns returns the compiled patterns in order.
func (ep *ExcludedPaths) Patterns() []string {
	return append([]string(nil), ep.patterns...)
}

// Len returns the number of usable patterns.
func (ep *ExcludedPaths) Len() int {
	return len(ep.globs)
}

// Matches reports whether path, normalized with a trailing slash, matches
// any pattern.
func (ep *ExcludedPaths) Matches(path string) bool {
	path = normalizePath(path)
	for _, g := range ep.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// RequiresAuth reports whether a request to path must be authenticated.
// An empty path or an empty pattern set always requires auth.
func (ep *ExcludedPaths) RequiresAuth(path string) bool {
	if path == "" || ep == nil || len(ep.globs) == 0 {
		return true
	}
	return !ep.Matches(path)
}

func normalizePath(path string) string {
	if !strings.HasSuffix(path, "/") {
		return path + "/"
	}
	return path
}
