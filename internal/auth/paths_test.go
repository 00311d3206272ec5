package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAuth(t *testing.T) {
	base := NewBase("")

	tests := []struct {
		name     string
		path     string
		excluded []string
		want     bool
	}{
		{"excluded with trailing slash", "/api/v1/status/", []string{"/api/v1/status/"}, false},
		{"excluded without trailing slash", "/api/v1/status", []string{"/api/v1/status/"}, false},
		{"star pattern covers base path", "/api/v1/status/", []string{"/api/v1/status/*"}, false},
		{"star pattern covers sub path", "/api/v1/status/deep/er", []string{"/api/v1/status/*"}, false},
		{"star pattern without slash", "/api/v1/stats", []string{"/api/v1/stat*"}, false},
		{"question mark", "/api/v1/users1", []string{"/api/v1/users?/"}, false},
		{"character class", "/api/v1/b", []string{"/api/v1/[abc]/"}, false},
		{"negated character class", "/api/v1/b", []string{"/api/v1/[!abc]/"}, true},
		{"not excluded", "/api/v1/users", []string{"/api/v1/status/"}, true},
		{"empty excluded list", "/api/v1/users", []string{}, true},
		{"nil excluded list", "/api/v1/users", nil, true},
		{"empty path", "", []string{"/api/v1/status/"}, true},
		{"prefix is not a match", "/api/v1/status/extra", []string{"/api/v1/status/"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.RequireAuth(tt.path, tt.excluded))
		})
	}
}

func TestExcludedPaths_Patterns(t *testing.T) {
	ep := NewExcludedPaths("/a/", "/b/*")

	assert.Equal(t, []string{"/a/", "/b/*"}, ep.Patterns())
	assert.Equal(t, 2, ep.Len())
	assert.True(t, ep.Matches("/a"))
	assert.True(t, ep.Matches("/b/c"))
	assert.False(t, ep.Matches("/c"))
}

func TestExcludedPaths_NilRequiresAuth(t *testing.T) {
	var ep *ExcludedPaths
	assert.True(t, ep.RequiresAuth("/anything"))
}

func TestExcludedPaths_GlobSyntax(t *testing.T) {
	ep := NewExcludedPaths(`/api/v1/{status,stats}/`, `/files/\*/`)

	assert.True(t, ep.Matches("/api/v1/status"))
	assert.True(t, ep.Matches("/api/v1/stats"))
	assert.False(t, ep.Matches("/api/v1/{status,stats}"))
	assert.True(t, ep.Matches("/files/*"))
	assert.False(t, ep.Matches("/files/report"))
}
