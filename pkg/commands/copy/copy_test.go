package copy_test

// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs)
// PURPOSE: Exercise the copy command end to end, from document
// discovery through materialization, including option layering from
// document options sections

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/lcopy/pkg/commands/copy"
	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/testutil"
	"github.com/arthur-debert/lcopy/pkg/types"
)

func TestCopyEndToEnd(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dir, "b.md", "bravo")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
docs:
  "*.md": true
`)

	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
			Labels:      []string{"app"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Documents)
	assert.Equal(t, 1, result.Routes)
	assert.Equal(t, 1, result.Copy.Copied)
	assert.Empty(t, result.Problems)
	testutil.AssertFileContent(t, filepath.Join(dest, "a.txt"), "alpha")
	testutil.AssertNoFile(t, filepath.Join(dest, "b.md"))
}

func TestCopyDiscoversDocumentInDirectory(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")

	testutil.CreateFile(t, dir, "x.txt", "x")
	doc := testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
`)

	// Point at the document file and at its directory; both resolve to
	// the same document and the visited set collapses the repeat.
	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{doc, dir},
			Destination: dest,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Documents)
	assert.Equal(t, 1, result.Copy.Copied)
}

func TestCopyDocumentOptionsFillEmptyFields(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
options:
  destination: out
app:
  "*.txt": true
`)

	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{Configs: []string{dir}},
	})
	require.NoError(t, err)

	// Relative document destinations resolve against the document dir
	assert.Equal(t, filepath.Join(dir, "out"), result.Options.Destination)
	testutil.AssertFileContent(t, filepath.Join(dir, "out", "a.txt"), "alpha")
}

func TestCopyExplicitDestinationBeatsDocument(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
options:
  destination: out
app:
  "*.txt": true
`)

	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, dest, result.Options.Destination)
	testutil.AssertFileContent(t, filepath.Join(dest, "a.txt"), "alpha")
	testutil.AssertNoFile(t, filepath.Join(dir, "out", "a.txt"))
}

func TestCopyDocumentConflictPolicy(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")

	testutil.CreateFile(t, dir, "a.txt", "new")
	testutil.CreateFile(t, dest, "a.txt", "old")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
options:
  conflict: skip
app:
  "*.txt": true
`)

	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
		},
	})
	require.NoError(t, err)

	// No other layer set a policy, so the document's skip applies
	assert.Equal(t, 0, result.Copy.Copied)
	assert.Equal(t, 1, result.Copy.Skipped)
	testutil.AssertFileContent(t, filepath.Join(dest, "a.txt"), "old")
}

func TestCopyExpandsLabelsPlaceholder(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	destRoot := testutil.TempDir(t, "copy-dest")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
docs:
  "*.txt": true
`)

	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: filepath.Join(destRoot, "{labels}"),
			Labels:      []string{"app", "docs"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destRoot, "app.docs"), result.Options.Destination)
	testutil.AssertFileContent(t, filepath.Join(destRoot, "app.docs", "a.txt"), "alpha")
}

func TestCopyMissingDestinationFatal(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
`)

	_, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{Configs: []string{dir}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestCopyDestinationShadowedByFileFatal(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	out := testutil.TempDir(t, "copy-dest")
	dest := testutil.CreateFile(t, out, "taken", "not a directory")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
`)

	_, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
		},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestUnwritable))
}

func TestCopyCreatesDestinationRoot(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := filepath.Join(testutil.TempDir(t, "copy-dest"), "fresh", "out")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
`)

	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Copy.Copied)
	testutil.AssertFileContent(t, filepath.Join(dest, "a.txt"), "alpha")
}

func TestCopyMissingConfigFatal(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")

	_, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{filepath.Join(dir, "nope")},
			Destination: dir,
		},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestCopyUnparseableConfigFatal(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")
	testutil.CreateFile(t, dir, ".lcopy.yaml", "app: [not: a: mapping\n")

	_, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
		},
	})
	require.Error(t, err)
}

func TestCopyInvalidConflictPolicyFatal(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
`)

	_, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
			Conflict:    "clobber",
		},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestCopyCollectsNodeProblems(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
broken:
  "[oops": true
`)

	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
		},
	})
	require.NoError(t, err)

	// The broken section is a problem, not a fatal error; the healthy
	// section still copies.
	assert.Equal(t, 1, result.Copy.Copied)
	require.Len(t, result.Problems, 1)
	assert.True(t, errors.IsErrorCode(result.Problems[0], errors.ErrPatternInvalid))
}

func TestCopyDryRun(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
`)

	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:     []string{dir},
			Destination: dest,
			DryRun:      true,
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Copy.DryRun)
	assert.Equal(t, 1, result.Copy.Copied)
	testutil.AssertNoFile(t, filepath.Join(dest, "a.txt"))
}

func TestCopyPurgeAndConcat(t *testing.T) {
	dir := testutil.TempDir(t, "copy-cmd")
	dest := testutil.TempDir(t, "copy-dest")

	testutil.CreateFile(t, dir, "a.txt", "alpha")
	testutil.CreateFile(t, dest, "stale.txt", "old")
	testutil.CreateFile(t, dir, ".lcopy.yaml", `
app:
  "*.txt": true
`)

	concat := filepath.Join(dest, "bundle.txt")
	result, err := copy.Copy(copy.CopyOptions{
		Options: types.Options{
			Configs:      []string{dir},
			Destination:  dest,
			Purge:        true,
			ConcatOutput: concat,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Copy.Copied)
	assert.Equal(t, 1, result.Copy.PurgedFiles)
	testutil.AssertNoFile(t, filepath.Join(dest, "stale.txt"))
	testutil.AssertFileContent(t, concat, "=== FILE: a.txt ===\nalpha\n")
}
