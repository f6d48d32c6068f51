// Package listlabels implements the list-labels command, reporting
// every label reachable from a set of configuration documents.
package listlabels

import (
	"github.com/arthur-debert/lcopy/pkg/config"
	"github.com/arthur-debert/lcopy/pkg/filesystem"
	"github.com/arthur-debert/lcopy/pkg/logging"
	"github.com/arthur-debert/lcopy/pkg/resolver"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// ListLabelsOptions contains options for the ListLabels command.
type ListLabelsOptions struct {
	// Configs lists document references; empty searches the working
	// directory
	Configs []string

	// FS overrides the filesystem; nil uses the operating system
	FS types.FS
}

// Result holds the labels found across all reachable documents.
type Result struct {
	// Labels is sorted and duplicate-free
	Labels []string

	// Documents counts the top-level documents inspected
	Documents int
}

// ListLabels collects the labels of the given documents and of every
// document reachable through their include references.
func ListLabels(opts ListLabelsOptions) (*Result, error) {
	logger := logging.GetLogger("commands")
	logger.Debug().Str("command", "list-labels").Msg("Executing command")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	docPaths, err := config.ResolveDocumentPaths(opts.Configs)
	if err != nil {
		return nil, err
	}

	labels, err := resolver.New(fsys).ListLabels(docPaths)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("documents", len(docPaths)).
		Int("labels", len(labels)).
		Msg("Command finished")

	return &Result{Labels: labels, Documents: len(docPaths)}, nil
}
