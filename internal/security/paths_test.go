package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinDir(t *testing.T) {
	tmp := t.TempDir()
	safe := filepath.Join(tmp, "safe")
	unsafe := filepath.Join(tmp, "unsafe")
	require.NoError(t, os.MkdirAll(safe, 0o755))
	require.NoError(t, os.MkdirAll(unsafe, 0o755))
	link := filepath.Join(safe, "link")
	require.NoError(t, os.Symlink(unsafe, link))

	tests := []struct {
		name    string
		path    string
		dir     string
		wantErr bool
	}{
		{"file in dir", filepath.Join(tmp, "a.png"), tmp, false},
		{"nested file not yet created", filepath.Join(tmp, "x", "y", "a.png"), tmp, false},
		{"dot dot", filepath.Join(tmp, "..", "a.png"), tmp, true},
		{"relative escape", "../../../etc/passwd", tmp, true},
		{"absolute outside", "/etc/passwd", tmp, true},
		{"through symlink", filepath.Join(link, "a.png"), safe, true},
		{"symlink itself", link, safe, true},
		{"dir itself", safe, safe, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WithinDir(tt.path, tt.dir)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPathEscapes)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithinDir_MissingDir(t *testing.T) {
	err := WithinDir("a.png", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPathEscapes)
}

func TestCheckOutputPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	assert.NoError(t, CheckOutputPath(filepath.Join(b, "r.html"), a, b))
	assert.ErrorIs(t, CheckOutputPath("/etc/r.html", a, b), ErrPathEscapes)
	assert.Error(t, CheckOutputPath(filepath.Join(a, "r.html")))
}

func TestCheckExportPath(t *testing.T) {
	assert.NoError(t, CheckExportPath(filepath.Join(t.TempDir(), "body.png")))
	assert.NoError(t, CheckExportPath("body.png"))
	assert.ErrorIs(t, CheckExportPath("/etc/body.png"), ErrPathEscapes)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":                  "unknown",
		"arm_L":             "arm_L",
		"rig:arm_L|ctrl":    "rig_arm_L_ctrl",
		"../../etc/passwd":  "etc_passwd",
		"body mesh (final)": "body_mesh_final",
		"...":               "unknown",
		"scene.db":          "scene.db",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
	assert.Len(t, SanitizeFilename(strings.Repeat("a", 500)), maxNameLen)
}
