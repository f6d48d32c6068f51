// Package matchers implements the pure pattern checks used while
// resolving configuration trees: exclude globs, ignore rules, and the
// variable directory patterns.
package matchers

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Candidate is one glob match waiting to be filtered. Rel is the path
// relative to the node's source directory, slash-separated.
type Candidate struct {
	Path  string
	Rel   string
	IsDir bool
}

// Filter returns the candidates that survive both pattern sets. A
// candidate survives only if it matches no exclude pattern and no
// ignore pattern.
func Filter(candidates []Candidate, excludes, ignores []string) []Candidate {
	var survivors []Candidate
	for _, c := range candidates {
		if IsExcluded(c.Rel, excludes) {
			continue
		}
		if IsIgnored(c.Rel, c.IsDir, ignores) {
			continue
		}
		survivors = append(survivors, c)
	}
	return survivors
}

// IsExcluded reports whether relPath matches any exclude pattern.
// Patterns are globs anchored at the node's source directory, with **
// crossing directory boundaries.
func IsExcluded(relPath string, patterns []string) bool {
	rel := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// IsIgnored reports whether relPath is knocked out by the ignore rules.
// A pattern ending in a path separator names a directory: it matches
// the candidate itself when the candidate is a directory, and any
// parent segment otherwise. All other patterns match the basename,
// either exactly or as a glob.
func IsIgnored(relPath string, isDir bool, patterns []string) bool {
	rel := filepath.ToSlash(relPath)
	base := filepath.Base(rel)
	segments := strings.Split(rel, "/")

	for _, pattern := range patterns {
		if dirPattern, ok := strings.CutSuffix(pattern, "/"); ok {
			if matchesSegment(dirPattern, segments, isDir) {
				return true
			}
			continue
		}

		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// matchesSegment checks a directory rule against the path segments. The
// final segment only counts when the candidate is itself a directory.
func matchesSegment(dirPattern string, segments []string, isDir bool) bool {
	for i, seg := range segments {
		if i == len(segments)-1 && !isDir {
			continue
		}
		if ok, err := filepath.Match(dirPattern, seg); err == nil && ok {
			return true
		}
	}
	return false
}
