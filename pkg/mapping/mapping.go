// Package mapping flattens resolved target trees into the flat
// source→destination routes that drive copying and purging.
package mapping

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/lcopy/pkg/logging"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// Builder flattens target forests into file mappings.
type Builder struct {
	logger zerolog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{logger: logging.GetLogger("mapping")}
}

// Build walks the forest depth-first and records one route per file.
// A node's destination directory is its parent's plus the node's
// basename ("." contributes nothing); a file's destination is the
// node's destination directory plus the file's path relative to the
// node's source directory, so deep glob structure is preserved.
//
// The first route recorded for a source wins, and so does the first
// route recorded for a destination: later conflicts are dropped with a
// debug log. Build artifacts are dropped last, regardless of ignore
// configuration.
func (b *Builder) Build(roots []*types.TargetNode, destRoot string) *types.FileMapping {
	m := types.NewFileMapping()
	for _, root := range roots {
		b.walk(root, destRoot, m)
	}
	b.logger.Debug().Int("routes", m.Len()).Str("dest", destRoot).Msg("mapping built")
	return m
}

func (b *Builder) walk(node *types.TargetNode, parentDest string, m *types.FileMapping) {
	destDir := parentDest
	if node.Basename != "" && node.Basename != "." {
		destDir = filepath.Join(parentDest, node.Basename)
	}

	for _, file := range node.Files {
		if IsArtifact(file) {
			b.logger.Debug().Str("source", file).Msg("artifact dropped")
			continue
		}
		dest := destFor(file, node.SourceDir, destDir)
		if m.HasSource(file) {
			prev, _ := m.Dest(file)
			if prev != dest {
				b.logger.Debug().Str("source", file).Str("kept", prev).Str("dropped", dest).
					Msg("source already routed")
			}
			continue
		}
		if m.HasDest(dest) {
			b.logger.Debug().Str("dest", dest).Str("dropped", file).
				Msg("destination already routed")
			continue
		}
		m.Add(file, dest)
	}

	for _, child := range node.Children {
		b.walk(child, destDir, m)
	}
}

// destFor joins the file's path relative to the node's source
// directory onto the destination directory. A file outside the source
// directory keeps only its basename.
func destFor(file, sourceDir, destDir string) string {
	rel, err := filepath.Rel(sourceDir, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(file)
	}
	return filepath.Join(destDir, rel)
}

// Build artifacts that are never copied, independent of the
// configurable ignore patterns.
var (
	artifactSuffixes = []string{".pyc", ".pyo", ".o", ".a", ".so", ".class", ".swp"}
	artifactSegments = map[string]bool{
		"__pycache__":  true,
		".git":         true,
		".svn":         true,
		".hg":          true,
		"node_modules": true,
		".DS_Store":    true,
	}
)

// IsArtifact reports whether the path is build or VCS debris.
func IsArtifact(path string) bool {
	for _, suffix := range artifactSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if artifactSegments[segment] {
			return true
		}
	}
	return false
}
