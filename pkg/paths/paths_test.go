package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		base string
		env  map[string]string
		want string
	}{
		{
			name: "absolute path unchanged",
			path: "/etc/lcopy",
			want: "/etc/lcopy",
		},
		{
			name: "tilde expansion",
			path: "~/projects",
			want: filepath.Join(home, "projects"),
		},
		{
			name: "env var expansion",
			path: "$LCOPY_TEST_ROOT/src",
			env:  map[string]string{"LCOPY_TEST_ROOT": "/srv/data"},
			want: "/srv/data/src",
		},
		{
			name: "relative joined onto base",
			path: "sub/dir",
			base: "/base",
			want: "/base/sub/dir",
		},
		{
			name: "relative base resolved against cwd",
			path: "file.txt",
			base: "rel",
			want: filepath.Join(cwd, "rel", "file.txt"),
		},
		{
			name: "absolute path ignores base",
			path: "/abs/file",
			base: "/base",
			want: "/abs/file",
		},
		{
			name: "dot segments cleaned",
			path: "/a/b/../c/./d",
			want: "/a/c/d",
		},
		{
			name: "relative without base uses cwd",
			path: "plain",
			want: filepath.Join(cwd, "plain"),
		},
		{
			name: "tilde in base",
			path: "cfg",
			base: "~/etc",
			want: filepath.Join(home, "etc", "cfg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got := Normalize(tt.path, tt.base)
			assert.Equal(t, tt.want, got)
			assert.True(t, filepath.IsAbs(got), "result must be absolute")
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"bare tilde", "~", home},
		{"tilde slash", "~/x", filepath.Join(home, "x")},
		{"tilde user untouched", "~other/x", "~other/x"},
		{"no tilde", "/plain", "/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandHome(tt.path))
		})
	}
}

func TestExpandLabels(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		labels []string
		want   string
	}{
		{
			name:   "no placeholder",
			path:   "/out/dest",
			labels: []string{"app"},
			want:   "/out/dest",
		},
		{
			name:   "single label",
			path:   "/out/{labels}/dest",
			labels: []string{"app"},
			want:   "/out/app/dest",
		},
		{
			name:   "multiple labels joined",
			path:   "/out/{labels}",
			labels: []string{"app", "docs"},
			want:   "/out/app.docs",
		},
		{
			name:   "no labels yields empty segment",
			path:   "/out/pre{labels}post",
			labels: nil,
			want:   "/out/prepost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandLabels(tt.path, tt.labels))
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("yaml preferred over toml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileYAML), []byte("app:\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileTOML), []byte(""), 0644))

		got, err := FindConfigFile(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ConfigFileYAML), got)
	})

	t.Run("toml fallback", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileTOML), []byte(""), 0644))

		got, err := FindConfigFile(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ConfigFileTOML), got)
	})

	t.Run("neither present", func(t *testing.T) {
		dir := t.TempDir()

		_, err := FindConfigFile(dir)
		assert.Error(t, err)
	})

	t.Run("directory with config name is skipped", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ConfigFileYAML), 0755))

		_, err := FindConfigFile(dir)
		assert.Error(t, err)
	})
}

func TestIsPathWithin(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		parent string
		want   bool
	}{
		{"direct child", "/a/b/c", "/a/b", true},
		{"deep child", "/a/b/c/d", "/a", true},
		{"same path", "/a/b", "/a/b", true},
		{"sibling", "/a/c", "/a/b", false},
		{"parent of parent", "/a", "/a/b", false},
		{"prefix but not parent", "/a/bc", "/a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPathWithin(tt.path, tt.parent))
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvLcopyConfigDir, "/custom/lcopy-config")
		assert.Equal(t, "/custom/lcopy-config", ConfigDir())
	})

	t.Run("xdg default", func(t *testing.T) {
		t.Setenv(EnvLcopyConfigDir, "")
		got := ConfigDir()
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, LcopyDirName, filepath.Base(got))
	})
}
