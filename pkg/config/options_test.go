// pkg/config/options_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dirs), environment
// PURPOSE: Test layered option loading and post-processing

package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/lcopy/pkg/config"
	"github.com/arthur-debert/lcopy/pkg/paths"
	"github.com/arthur-debert/lcopy/pkg/testutil"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// isolate points the user-level config dir at an empty temp dir so
// developer machines do not leak options into tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(paths.EnvLcopyConfigDir, testutil.TempDir(t, "lcopy-config"))
}

func TestLoadOptionsDefaults(t *testing.T) {
	isolate(t)

	opts, err := config.LoadOptions("")
	require.NoError(t, err)

	assert.Empty(t, opts.Conflict, "left unset so documents can fill it")
	assert.True(t, opts.DefaultIgnore)
	assert.False(t, opts.DryRun)
	assert.False(t, opts.Purge)
	assert.Empty(t, opts.Labels)
}

func TestLoadOptionsFromFile(t *testing.T) {
	isolate(t)
	dir := testutil.TempDir(t, "options")
	path := testutil.CreateFile(t, dir, "options.yaml", `
destination: out/tree
labels:
  - app
  - docs
  - app
conflict: skip
purge: true
extra_ignore:
  - "*.orig"
configs:
  - proj/.lcopy.yaml
`)

	opts, err := config.LoadOptions(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "out", "tree"), opts.Destination,
		"relative destination resolves against the options file dir")
	assert.Equal(t, []string{"app", "docs"}, opts.Labels, "labels deduplicated")
	assert.Equal(t, types.ConflictSkip, opts.Conflict)
	assert.True(t, opts.Purge)
	assert.Equal(t, []string{"*.orig"}, opts.ExtraIgnore)
	assert.Equal(t, []string{filepath.Join(dir, "proj", ".lcopy.yaml")}, opts.Configs)
}

func TestLoadOptionsEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LCOPY_DRY_RUN", "true")
	t.Setenv("LCOPY_LABELS", "app,docs")
	t.Setenv("LCOPY_CONFLICT", "prompt")

	opts, err := config.LoadOptions("")
	require.NoError(t, err)

	assert.True(t, opts.DryRun)
	assert.Equal(t, []string{"app", "docs"}, opts.Labels)
	assert.Equal(t, types.ConflictPrompt, opts.Conflict)
}

func TestLoadOptionsEnvBeatsFile(t *testing.T) {
	isolate(t)
	dir := testutil.TempDir(t, "options")
	path := testutil.CreateFile(t, dir, "options.yaml", "conflict: skip\n")
	t.Setenv("LCOPY_CONFLICT", "overwrite")

	opts, err := config.LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, types.ConflictOverwrite, opts.Conflict)
}

func TestLoadOptionsInvalidConflict(t *testing.T) {
	isolate(t)
	t.Setenv("LCOPY_CONFLICT", "merge")

	_, err := config.LoadOptions("")
	require.Error(t, err)
}

func TestLoadOptionsUserLevelFile(t *testing.T) {
	configDir := testutil.TempDir(t, "lcopy-config")
	t.Setenv(paths.EnvLcopyConfigDir, configDir)
	testutil.CreateFile(t, configDir, paths.OptionsFileName, "verbose: true\n")

	opts, err := config.LoadOptions("")
	require.NoError(t, err)
	assert.True(t, opts.Verbose)
}

func TestApplyDocumentOptions(t *testing.T) {
	isolate(t)

	doc := &config.ConfigDocument{
		Path:      "/proj/.lcopy.yaml",
		SourceDir: "/proj",
		Options: map[string]interface{}{
			"destination":  "build/out",
			"labels":       []interface{}{"app"},
			"conflict":     "skip",
			"extra_ignore": []interface{}{"*.lock"},
		},
	}

	t.Run("fills empty fields", func(t *testing.T) {
		opts := config.DefaultOptions()
		require.NoError(t, config.ApplyDocumentOptions(&opts, doc))

		assert.Equal(t, "/proj/build/out", opts.Destination)
		assert.Equal(t, []string{"app"}, opts.Labels)
		assert.Equal(t, types.ConflictSkip, opts.Conflict)
		assert.Equal(t, []string{"*.lock"}, opts.ExtraIgnore)
	})

	t.Run("never overrides set fields", func(t *testing.T) {
		opts := config.DefaultOptions()
		opts.Destination = "/already/set"
		opts.Labels = []string{"docs"}
		opts.Conflict = types.ConflictPrompt
		require.NoError(t, config.ApplyDocumentOptions(&opts, doc))

		assert.Equal(t, "/already/set", opts.Destination)
		assert.Equal(t, []string{"docs"}, opts.Labels)
		assert.Equal(t, types.ConflictPrompt, opts.Conflict)
		assert.Equal(t, []string{"*.lock"}, opts.ExtraIgnore, "extra ignore still appends")
	})

	t.Run("booleans move off their defaults only", func(t *testing.T) {
		boolDoc := &config.ConfigDocument{
			Path:      "/proj/.lcopy.yaml",
			SourceDir: "/proj",
			Options: map[string]interface{}{
				"purge":          true,
				"dry_run":        true,
				"verbose":        true,
				"default_ignore": false,
			},
		}
		opts := config.DefaultOptions()
		require.NoError(t, config.ApplyDocumentOptions(&opts, boolDoc))

		assert.True(t, opts.Purge)
		assert.True(t, opts.DryRun)
		assert.True(t, opts.Verbose)
		assert.False(t, opts.DefaultIgnore)
	})
}

func TestFinalizeOptions(t *testing.T) {
	opts := types.Options{
		Destination:  "/out/{labels}",
		ConcatOutput: "/tmp/{labels}.txt",
		Labels:       []string{"app", "docs", "app"},
	}

	config.FinalizeOptions(&opts)

	assert.Equal(t, []string{"app", "docs"}, opts.Labels)
	assert.Equal(t, "/out/app.docs", opts.Destination)
	assert.Equal(t, "/tmp/app.docs.txt", opts.ConcatOutput)
}

func TestDedupLabels(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, config.DedupLabels([]string{"a", "b", "a", "", "b"}))
	assert.Empty(t, config.DedupLabels(nil))
}

func TestIgnorePatterns(t *testing.T) {
	t.Run("defaults plus extra", func(t *testing.T) {
		opts := types.Options{DefaultIgnore: true, ExtraIgnore: []string{"*.orig"}}
		patterns := config.IgnorePatterns(&opts)

		assert.Contains(t, patterns, "*.pyc")
		assert.Contains(t, patterns, ".git/")
		assert.Contains(t, patterns, "*.orig")
	})

	t.Run("defaults disabled", func(t *testing.T) {
		opts := types.Options{DefaultIgnore: false, ExtraIgnore: []string{"*.orig"}}
		patterns := config.IgnorePatterns(&opts)

		assert.Equal(t, []string{"*.orig"}, patterns)
	})
}
