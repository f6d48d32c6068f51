// Package copy implements the copy command: the end-to-end run that
// resolves configuration documents into a file mapping and materializes
// it at the destination.
package copy

import (
	"github.com/arthur-debert/lcopy/pkg/config"
	"github.com/arthur-debert/lcopy/pkg/copier"
	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/filesystem"
	"github.com/arthur-debert/lcopy/pkg/logging"
	"github.com/arthur-debert/lcopy/pkg/mapping"
	"github.com/arthur-debert/lcopy/pkg/paths"
	"github.com/arthur-debert/lcopy/pkg/resolver"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// CopyOptions carries the run configuration into the copy command.
type CopyOptions struct {
	// Options is the merged option set. Document-level options fill any
	// still-empty fields before the run starts.
	Options types.Options

	// Confirmer answers overwrite prompts under the prompt conflict
	// policy. A nil confirmer declines every prompt.
	Confirmer types.Confirmer

	// FS overrides the filesystem; nil uses the operating system
	FS types.FS
}

// Result reports a finished copy run.
type Result struct {
	// Copy summarizes the materialization
	Copy *types.CopyResult

	// Problems lists node-local resolution failures the run continued
	// past. They surface as warnings, not a failed exit.
	Problems []error

	// Documents counts the configuration documents resolved
	Documents int

	// Routes counts source to destination routes in the mapping
	Routes int

	// Mapping is the resolved source to destination mapping, kept for
	// verbose and debug output
	Mapping *types.FileMapping

	// Options is the effective option set the run used
	Options types.Options
}

// Copy resolves the configured documents, builds the file mapping, and
// materializes it. Configuration failures are fatal and returned as an
// error; per-node and per-file failures are collected on the result so
// the rest of the run can proceed.
func Copy(opts CopyOptions) (*Result, error) {
	logger := logging.GetLogger("commands")
	logger.Debug().Str("command", "copy").Msg("Executing command")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	run := opts.Options

	docPaths, err := config.ResolveDocumentPaths(run.Configs)
	if err != nil {
		return nil, err
	}

	docs := make([]*config.ConfigDocument, 0, len(docPaths))
	for _, docPath := range docPaths {
		doc, err := config.LoadDocument(fsys, docPath)
		if err != nil {
			return nil, err
		}
		if err := config.ApplyDocumentOptions(&run, doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	// Labels are complete now, so placeholders can expand
	config.FinalizeOptions(&run)

	if run.Destination == "" {
		return nil, errors.New(errors.ErrConfigValid,
			"no destination configured (use --dest, an options file, or LCOPY_DESTINATION)")
	}
	run.Destination = paths.Normalize(run.Destination, "")
	if run.ConcatOutput != "" {
		run.ConcatOutput = paths.Normalize(run.ConcatOutput, "")
	}

	if run.Conflict == "" {
		run.Conflict = types.ConflictOverwrite
	}
	if !run.Conflict.Valid() {
		return nil, errors.Newf(errors.ErrConfigValid,
			"invalid conflict policy %q (want overwrite, skip, or prompt)", run.Conflict)
	}

	rctx := resolver.NewContext(run.Labels, config.IgnorePatterns(&run))
	roots := resolver.New(fsys).Resolve(docs, rctx)

	resolved := 0
	for _, root := range roots {
		resolved += root.CountFiles()
	}
	logger.Debug().Int("roots", len(roots)).Int("files", resolved).Msg("Resolution complete")

	fileMapping := mapping.NewBuilder().Build(roots, run.Destination)

	// The destination root must be usable before anything runs; a root
	// that cannot be created fails the whole run, unlike per-file
	// failures below it. Dry runs touch nothing.
	if !run.DryRun {
		if err := ensureDestRoot(fsys, run.Destination); err != nil {
			return nil, err
		}
	}

	copyResult := copier.New(fsys, opts.Confirmer).Run(fileMapping, run)

	result := &Result{
		Copy:      copyResult,
		Problems:  rctx.Problems,
		Documents: len(docs),
		Routes:    fileMapping.Len(),
		Mapping:   fileMapping,
		Options:   run,
	}

	logger.Info().
		Int("documents", result.Documents).
		Int("routes", result.Routes).
		Int("copied", copyResult.Copied).
		Int("problems", len(result.Problems)).
		Bool("dryRun", copyResult.DryRun).
		Msg("Command finished")

	return result, nil
}

// ensureDestRoot creates the destination root when it is missing. An
// existing root must be a directory.
func ensureDestRoot(fsys types.FS, dest string) error {
	info, err := fsys.Stat(dest)
	if err == nil {
		if !info.IsDir() {
			return errors.Newf(errors.ErrDestUnwritable,
				"destination is not a directory: %s", dest)
		}
		return nil
	}
	if err := fsys.MkdirAll(dest, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDestUnwritable,
			"cannot create destination %s", dest)
	}
	return nil
}
