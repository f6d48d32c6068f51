// Package resolver turns parsed config documents into target trees.
//
// A target tree mirrors the nesting of a label section: every node
// carries the source directory its patterns were expanded in, the
// basename it contributes to the destination path, the files it
// matched, and its children. Directory matches become synthetic
// children, regex-variable keys become one child per captured
// directory, and __include__ directives splice other documents'
// trees in as children.
package resolver

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/lcopy/pkg/config"
	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/logging"
	"github.com/arthur-debert/lcopy/pkg/matchers"
	"github.com/arthur-debert/lcopy/pkg/paths"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// Resolver resolves config documents into forests of target nodes.
// It caches documents loaded through source aliases so that include
// graphs touching the same file repeatedly parse it once.
type Resolver struct {
	fs     types.FS
	logger zerolog.Logger
	cache  map[string]*config.ConfigDocument
}

// New creates a Resolver that reads documents through fs.
func New(fsys types.FS) *Resolver {
	return &Resolver{
		fs:     fsys,
		logger: logging.GetLogger("resolver"),
		cache:  make(map[string]*config.ConfigDocument),
	}
}

// Resolve resolves the requested labels of each document, in document
// order, and returns the resulting root nodes. Roots are anchored at
// the destination root, so their basename is ".".
//
// When the context requests no labels, every label section of every
// document is resolved. A requested label that appears in no document
// is reported as a problem but does not fail the run.
func (r *Resolver) Resolve(docs []*config.ConfigDocument, ctx *Context) []*types.TargetNode {
	var roots []*types.TargetNode

	for _, doc := range docs {
		labels := ctx.Labels
		if len(labels) == 0 {
			labels = doc.LabelNames()
		}
		for _, label := range labels {
			spec, ok := doc.Targets[label]
			if !ok {
				continue
			}
			ctx.markSeen(label)
			key := VisitKey{Doc: doc.Path, Label: label}
			if ctx.Visited[key] {
				r.logger.Debug().Str("doc", doc.Path).Str("label", label).
					Msg("label already resolved, skipping")
				continue
			}
			ctx.Visited[key] = true
			if node := r.parseNode(doc, spec, doc.SourceDir, ".", ctx); node != nil {
				roots = append(roots, node)
			}
		}
	}

	for _, label := range ctx.Labels {
		if !ctx.seen[label] {
			err := errors.Newf(errors.ErrLabelUnknown,
				"label %q not found in any config document", label)
			ctx.AddProblem(err)
			r.logger.Warn().Str("label", label).Msg("requested label not found")
		}
	}
	return roots
}

// parseNode builds one target node from its spec. It returns nil when
// the node is gated out by labels, aborted by a node-local error, or
// ends up empty.
func (r *Resolver) parseNode(doc *config.ConfigDocument, spec *config.NodeSpec, inheritedDir, basename string, ctx *Context) *types.TargetNode {
	spec = r.applySnippets(doc, spec, ctx)

	if !ctx.gatePasses(spec.Labels) {
		r.logger.Debug().Str("basename", basename).Strs("gate", spec.Labels).
			Msg("node gated out by labels")
		return nil
	}

	sourceDir := inheritedDir
	if spec.SourceDir != "" {
		sourceDir = paths.Normalize(spec.SourceDir, doc.SourceDir)
	}
	if spec.CD != "" {
		sourceDir = paths.Normalize(spec.CD, sourceDir)
	}

	candidates, err := r.expandIncludes(sourceDir, spec.Includes)
	if err != nil {
		ctx.AddProblem(err)
		r.logger.Warn().Err(err).Str("source", sourceDir).Msg("node aborted")
		return nil
	}
	candidates = matchers.Filter(candidates, spec.Excludes, ctx.Ignores)

	var files []string
	var dirs []matchers.Candidate
	for _, c := range candidates {
		if c.IsDir {
			dirs = append(dirs, c)
		} else {
			files = append(files, c.Path)
		}
	}

	var children []*types.TargetNode

	// Explicit children first. They inherit the parent's source
	// directory; the key names only the destination subdirectory.
	for _, child := range spec.Children {
		if node := r.parseNode(doc, child.Spec, sourceDir, child.Name, ctx); node != nil {
			children = append(children, node)
		}
	}

	// Directory matches are never copied directly. Each becomes a
	// synthetic child rooted at the matched directory with a single *
	// pattern, re-parsed through the same pipeline. Parent excludes
	// that reach below the directory travel with it.
	for _, dir := range dirs {
		synth := &config.NodeSpec{
			Includes: []string{"*"},
			Excludes: childExcludes(spec.Excludes, dir.Rel),
		}
		if node := r.parseNode(doc, synth, dir.Path, filepath.Base(dir.Path), ctx); node != nil {
			children = append(children, node)
		}
	}

	// Regex-variable keys: glob candidate directories, extract the
	// captured text, and parse one child per match rooted there. A
	// malformed pattern is a configuration error that aborts this
	// whole node.
	for _, vs := range spec.Variables {
		vp, err := matchers.CompileVariablePattern(vs.Pattern)
		if err != nil {
			ctx.AddProblem(err)
			r.logger.Warn().Err(err).Str("pattern", vs.Pattern).Msg("node aborted")
			return nil
		}
		matches := r.expandVariable(sourceDir, vp, spec.Excludes, ctx.Ignores)
		if len(matches) == 0 {
			r.logger.Debug().Str("pattern", vs.Pattern).Str("source", sourceDir).
				Msg("variable pattern matched nothing")
		}
		for _, m := range matches {
			if node := r.parseNode(doc, vs.Spec, m.dir, m.value, ctx); node != nil {
				children = append(children, node)
			}
		}
	}

	children = append(children, r.resolveIncludeRefs(doc, spec.IncludeRefs, ctx)...)

	if len(files) == 0 && len(children) == 0 {
		return nil
	}
	return &types.TargetNode{
		SourceDir: sourceDir,
		Basename:  basename,
		Labels:    spec.Labels,
		Files:     files,
		Children:  children,
	}
}

// applySnippets merges referenced snippet fragments into the spec.
// The spec is cloned first so that documents shared across labels or
// runs are never mutated. Unknown snippet names are reported and
// skipped.
func (r *Resolver) applySnippets(doc *config.ConfigDocument, spec *config.NodeSpec, ctx *Context) *config.NodeSpec {
	if len(spec.SnippetRefs) == 0 {
		return spec
	}
	merged := cloneSpec(spec)
	for _, name := range spec.SnippetRefs {
		fragment, ok := doc.Snippets[name]
		if !ok {
			err := errors.Newf(errors.ErrSnippetUnknown,
				"unknown snippet %q in %s", name, doc.Path)
			ctx.AddProblem(err)
			r.logger.Warn().Str("snippet", name).Str("doc", doc.Path).
				Msg("unknown snippet, skipping")
			continue
		}
		config.MergeSnippet(merged, fragment)
	}
	return merged
}

// expandIncludes globs the node's include patterns inside sourceDir
// and returns the deduplicated candidates in pattern order. A missing
// source directory yields no candidates; a malformed pattern is a
// node-local error.
func (r *Resolver) expandIncludes(sourceDir string, includes []string) ([]matchers.Candidate, error) {
	var out []matchers.Candidate
	seen := make(map[string]bool)
	fsys := os.DirFS(sourceDir)

	for _, pattern := range includes {
		if pattern == "" {
			continue
		}
		walkErr := doublestar.GlobWalk(fsys, pattern, func(rel string, d fs.DirEntry) error {
			if rel == "." || seen[rel] {
				return nil
			}
			// The tool's own documents are never copy candidates.
			if base := filepath.Base(filepath.FromSlash(rel)); base == paths.ConfigFileYAML || base == paths.ConfigFileTOML {
				return nil
			}
			seen[rel] = true
			out = append(out, matchers.Candidate{
				Path:  filepath.Join(sourceDir, filepath.FromSlash(rel)),
				Rel:   rel,
				IsDir: d.IsDir(),
			})
			return nil
		})
		if walkErr != nil {
			if stderrors.Is(walkErr, doublestar.ErrBadPattern) {
				return nil, errors.Wrapf(walkErr, errors.ErrPatternInvalid,
					"invalid include pattern %q", pattern)
			}
			if stderrors.Is(walkErr, fs.ErrNotExist) {
				r.logger.Debug().Str("source", sourceDir).Str("pattern", pattern).
					Msg("source directory does not exist")
				continue
			}
			r.logger.Warn().Err(walkErr).Str("source", sourceDir).Str("pattern", pattern).
				Msg("error expanding pattern, skipping")
		}
	}
	return out, nil
}

// variableMatch is one directory captured by a regex-variable key.
type variableMatch struct {
	dir   string // absolute path of the matched directory
	value string // captured text, used as the child's basename
}

// expandVariable globs the variable's derived pattern and returns the
// directory matches that survive filtering, with their captured text.
func (r *Resolver) expandVariable(sourceDir string, vp *matchers.VariablePattern, excludes, ignores []string) []variableMatch {
	var out []variableMatch
	fsys := os.DirFS(sourceDir)

	err := doublestar.GlobWalk(fsys, vp.Glob, func(rel string, d fs.DirEntry) error {
		if rel == "." || !d.IsDir() {
			return nil
		}
		if matchers.IsExcluded(rel, excludes) || matchers.IsIgnored(rel, true, ignores) {
			return nil
		}
		value, ok := vp.Extract(rel)
		if !ok || value == "" {
			return nil
		}
		out = append(out, variableMatch{
			dir:   filepath.Join(sourceDir, filepath.FromSlash(rel)),
			value: value,
		})
		return nil
	})
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		r.logger.Debug().Err(err).Str("source", sourceDir).Str("pattern", vp.Glob).
			Msg("error expanding variable pattern")
	}
	return out
}

// childExcludes projects a node's exclude patterns into a matched
// directory: patterns under the directory are re-anchored there, and
// **/ patterns apply at every depth so they travel unchanged.
func childExcludes(excludes []string, dirRel string) []string {
	prefix := dirRel + "/"
	var out []string
	for _, p := range excludes {
		switch {
		case strings.HasPrefix(p, prefix):
			out = append(out, strings.TrimPrefix(p, prefix))
		case strings.HasPrefix(p, "**/"):
			out = append(out, p)
		}
	}
	return out
}

// cloneSpec copies a node spec deeply enough that snippet merging
// cannot leak into the shared document.
func cloneSpec(spec *config.NodeSpec) *config.NodeSpec {
	dup := *spec
	dup.Includes = append([]string(nil), spec.Includes...)
	dup.Excludes = append([]string(nil), spec.Excludes...)
	dup.Labels = append([]string(nil), spec.Labels...)
	dup.IncludeRefs = append([]string(nil), spec.IncludeRefs...)
	dup.SnippetRefs = append([]string(nil), spec.SnippetRefs...)
	dup.Children = append([]config.ChildSpec(nil), spec.Children...)
	dup.Variables = append([]config.VariableSpec(nil), spec.Variables...)
	return &dup
}
