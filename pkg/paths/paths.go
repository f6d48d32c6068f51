// Package paths provides centralized path handling for lcopy.
// It implements the lexical path normalization used throughout the
// resolution engine and the XDG Base Directory lookups for user-level
// configuration.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/lcopy/pkg/errors"
)

// Environment variable names
const (
	// EnvLcopyConfigDir overrides the XDG config directory for lcopy
	EnvLcopyConfigDir = "LCOPY_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// LcopyDirName is the directory name for lcopy-specific files
	LcopyDirName = "lcopy"

	// ConfigFileYAML is the conventional per-project configuration file
	ConfigFileYAML = ".lcopy.yaml"

	// ConfigFileTOML is the TOML alternative, tried after the YAML name
	ConfigFileTOML = ".lcopy.toml"

	// OptionsFileName is the user-level options file under ConfigDir
	OptionsFileName = "options.yaml"

	// LabelsPlaceholder is replaced in destination paths with the
	// requested labels joined by dots
	LabelsPlaceholder = "{labels}"
)

// Normalize expands ~ and environment variables in path, joins it onto
// base when path is relative and base is non-empty, and returns a
// cleaned absolute path. The operation is purely lexical: nothing needs
// to exist and it never fails.
func Normalize(path, base string) string {
	expanded := os.ExpandEnv(expandHome(path))

	if base != "" && !filepath.IsAbs(expanded) {
		expandedBase := os.ExpandEnv(expandHome(base))
		expanded = filepath.Join(expandedBase, expanded)
	}

	if !filepath.IsAbs(expanded) {
		if abs, err := filepath.Abs(expanded); err == nil {
			expanded = abs
		}
	}

	return filepath.Clean(expanded)
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// ExpandLabels replaces the {labels} placeholder in a path with the
// requested labels joined by dots. Paths without the placeholder are
// returned unchanged.
func ExpandLabels(path string, labels []string) string {
	if !strings.Contains(path, LabelsPlaceholder) {
		return path
	}
	return strings.ReplaceAll(path, LabelsPlaceholder, strings.Join(labels, "."))
}

// FindConfigFile returns the configuration document inside dir, trying
// the YAML name first and the TOML name second.
func FindConfigFile(dir string) (string, error) {
	for _, name := range []string{ConfigFileYAML, ConfigFileTOML} {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.Newf(errors.ErrNotFound,
		"no %s or %s in %s", ConfigFileYAML, ConfigFileTOML, dir)
}

// IsPathWithin reports whether path is inside parent, or equals it.
// Both paths must already be absolute and cleaned; the check is
// lexical.
func IsPathWithin(path, parent string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ConfigDir returns the XDG config directory for lcopy, respecting the
// LCOPY_CONFIG_DIR override.
func ConfigDir() string {
	if dir := os.Getenv(EnvLcopyConfigDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, LcopyDirName)
}

// DefaultOptionsFile returns the user-level options file path. The file
// is optional; callers are expected to tolerate its absence.
func DefaultOptionsFile() string {
	return filepath.Join(ConfigDir(), OptionsFileName)
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}
