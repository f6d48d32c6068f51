package resolver

import (
	"sort"

	"github.com/arthur-debert/lcopy/pkg/config"
	"github.com/arthur-debert/lcopy/pkg/paths"
)

// ListLabels collects every label reachable from the given documents:
// top-level section names plus __labels__ gate values, following
// __include__ directives transitively. The result is sorted and
// deduplicated.
//
// A top-level document that cannot be loaded fails the call; an
// included document that cannot be loaded is skipped.
func (r *Resolver) ListLabels(docPaths []string) ([]string, error) {
	set := make(map[string]bool)
	visited := make(map[string]bool)

	for _, path := range docPaths {
		norm := paths.Normalize(path, "")
		doc, err := config.LoadDocument(r.fs, norm)
		if err != nil {
			return nil, err
		}
		r.cache[doc.Path] = doc
		r.collectLabels(doc, visited, set)
	}

	out := make([]string, 0, len(set))
	for label := range set {
		out = append(out, label)
	}
	sort.Strings(out)
	return out, nil
}

func (r *Resolver) collectLabels(doc *config.ConfigDocument, visited map[string]bool, set map[string]bool) {
	if visited[doc.Path] {
		return
	}
	visited[doc.Path] = true

	for _, label := range doc.LabelNames() {
		set[label] = true
		r.collectSpecLabels(doc, doc.Targets[label], visited, set)
	}
	for _, fragment := range doc.Snippets {
		for _, l := range fragment.Labels {
			set[l] = true
		}
	}
}

func (r *Resolver) collectSpecLabels(doc *config.ConfigDocument, spec *config.NodeSpec, visited map[string]bool, set map[string]bool) {
	for _, l := range spec.Labels {
		set[l] = true
	}
	for _, child := range spec.Children {
		r.collectSpecLabels(doc, child.Spec, visited, set)
	}
	for _, vs := range spec.Variables {
		r.collectSpecLabels(doc, vs.Spec, visited, set)
	}
	for _, ref := range spec.IncludeRefs {
		alias, _ := splitRef(ref)
		dir, ok := doc.Sources[alias]
		if !ok {
			continue
		}
		incDoc, err := r.loadAliasDocument(dir)
		if err != nil {
			r.logger.Warn().Err(err).Str("alias", alias).
				Msg("cannot load included document, skipping labels")
			continue
		}
		r.collectLabels(incDoc, visited, set)
	}
}
