package resolver

import (
	"strings"

	"github.com/arthur-debert/lcopy/pkg/config"
	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/paths"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// resolveIncludeRefs resolves a node's __include__ directives into
// child nodes. Each reference is "alias.label" or a bare "alias"
// meaning every label of that alias. Included trees keep their own
// source directories and land at the including node's destination, so
// their root basename is ".".
//
// Unknown aliases and labels are reported and skipped; they never
// abort the including node. The shared visited set stops cycles and
// diamonds: a (document, label) pair resolves at most once per run.
func (r *Resolver) resolveIncludeRefs(doc *config.ConfigDocument, refs []string, ctx *Context) []*types.TargetNode {
	var nodes []*types.TargetNode
	for _, ref := range refs {
		alias, label := splitRef(ref)
		dir, ok := doc.Sources[alias]
		if !ok {
			err := errors.Newf(errors.ErrAliasUnknown,
				"unknown source alias %q in %s", alias, doc.Path)
			ctx.AddProblem(err)
			r.logger.Warn().Str("alias", alias).Str("doc", doc.Path).
				Msg("unknown source alias, skipping include")
			continue
		}

		incDoc, err := r.loadAliasDocument(dir)
		if err != nil {
			ctx.AddProblem(err)
			r.logger.Warn().Err(err).Str("alias", alias).Str("dir", dir).
				Msg("cannot load included document, skipping")
			continue
		}

		labels := []string{label}
		if label == "" {
			labels = incDoc.LabelNames()
			if len(labels) == 0 {
				r.logger.Debug().Str("alias", alias).Msg("included document has no labels")
				continue
			}
		}

		for _, l := range labels {
			spec, ok := incDoc.Targets[l]
			if !ok {
				err := errors.Newf(errors.ErrLabelUnknown,
					"label %q not found in %s", l, incDoc.Path)
				ctx.AddProblem(err)
				r.logger.Warn().Str("label", l).Str("doc", incDoc.Path).
					Msg("included label not found, skipping")
				continue
			}
			key := VisitKey{Doc: incDoc.Path, Label: l}
			if ctx.Visited[key] {
				r.logger.Debug().Str("doc", incDoc.Path).Str("label", l).
					Msg("include already resolved, skipping")
				continue
			}
			ctx.Visited[key] = true
			if node := r.parseNode(incDoc, spec, incDoc.SourceDir, ".", ctx); node != nil {
				nodes = append(nodes, node)
			}
		}
	}
	return nodes
}

// loadAliasDocument discovers and loads the config document of a
// source alias directory, caching by the document's own path.
func (r *Resolver) loadAliasDocument(dir string) (*config.ConfigDocument, error) {
	docPath, err := paths.FindConfigFile(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"no config document in %s", dir)
	}
	if doc, ok := r.cache[docPath]; ok {
		return doc, nil
	}
	doc, err := config.LoadDocument(r.fs, docPath)
	if err != nil {
		return nil, err
	}
	r.cache[docPath] = doc
	return doc, nil
}

// splitRef splits an include reference at the first dot. Aliases must
// not contain dots; everything after the first one is the label.
func splitRef(ref string) (alias, label string) {
	alias, label, _ = strings.Cut(ref, ".")
	return alias, label
}
