// Package copier turns a file mapping into planned filesystem
// operations and applies them. Planning is pure bookkeeping against
// the current state of the destination; applying hands the plan to
// the synthfs executor. Dry runs apply the same plan through a
// non-mutating executor, so predicted and real counts always agree.
package copier

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/logging"
	"github.com/arthur-debert/lcopy/pkg/paths"
	"github.com/arthur-debert/lcopy/pkg/synthfs"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// Plan is the ordered set of operations for one run, split by phase:
// copies first, then purge, then the concatenated output.
type Plan struct {
	CopyOps   []types.Operation
	PurgeOps  []types.Operation
	ConcatOps []types.Operation

	// Skipped counts conflicting files the plan leaves untouched.
	Skipped int

	// Problems are per-file failures hit while planning (unreadable
	// concat sources, destinations shadowed by directories).
	Problems []types.FileError
}

// Ops returns every planned operation in execution order.
func (p *Plan) Ops() []types.Operation {
	out := make([]types.Operation, 0, len(p.CopyOps)+len(p.PurgeOps)+len(p.ConcatOps))
	out = append(out, p.CopyOps...)
	out = append(out, p.PurgeOps...)
	out = append(out, p.ConcatOps...)
	return out
}

// Copier plans and applies materialization runs.
type Copier struct {
	fs        types.FS
	confirmer types.Confirmer
	logger    zerolog.Logger
}

// New creates a Copier. confirmer resolves prompt-policy conflicts;
// nil behaves like a terminal that always answers no.
func New(fsys types.FS, confirmer types.Confirmer) *Copier {
	return &Copier{
		fs:        fsys,
		confirmer: confirmer,
		logger:    logging.GetLogger("copier"),
	}
}

// Plan decides, for every route in the mapping, whether to copy, skip,
// or ask, then plans purging and concatenation on top.
func (c *Copier) Plan(m *types.FileMapping, opts types.Options) *Plan {
	plan := &Plan{}

	madeDirs := make(map[string]bool)
	for _, entry := range m.Entries() {
		c.planCopy(plan, entry, opts, madeDirs)
	}

	if opts.Purge {
		c.planPurge(plan, m, opts)
	}
	if opts.ConcatOutput != "" {
		c.planConcat(plan, m, opts, madeDirs)
	}

	c.logger.Debug().
		Int("copies", len(plan.CopyOps)).
		Int("purges", len(plan.PurgeOps)).
		Int("skipped", plan.Skipped).
		Bool("concat", len(plan.ConcatOps) > 0).
		Msg("plan built")
	return plan
}

func (c *Copier) planCopy(plan *Plan, entry types.MappingEntry, opts types.Options, madeDirs map[string]bool) {
	info, err := c.fs.Stat(entry.Dest)
	exists := err == nil

	if exists && info.IsDir() {
		plan.Problems = append(plan.Problems, types.FileError{
			Path: entry.Dest,
			Err: errors.Newf(errors.ErrFileCopy,
				"destination is a directory: %s", entry.Dest),
		})
		return
	}

	if exists {
		switch opts.Conflict {
		case types.ConflictSkip:
			plan.Skipped++
			c.logger.Debug().Str("dest", entry.Dest).Msg("conflict: skipping")
			return
		case types.ConflictPrompt:
			if c.confirmer == nil || !c.confirmer.Confirm(fmt.Sprintf("Overwrite %s?", entry.Dest)) {
				plan.Skipped++
				c.logger.Debug().Str("dest", entry.Dest).Msg("conflict: declined")
				return
			}
		}
		// synthfs refuses existing targets, so overwrites delete first.
		plan.CopyOps = append(plan.CopyOps, types.Operation{
			Type:        types.OperationDeleteFile,
			Target:      entry.Dest,
			Description: fmt.Sprintf("replace %s", entry.Dest),
		})
	}

	plan.CopyOps = append(plan.CopyOps, c.planDirs(filepath.Dir(entry.Dest), madeDirs)...)
	plan.CopyOps = append(plan.CopyOps, types.Operation{
		Type:        types.OperationCopyFile,
		Source:      entry.Source,
		Target:      entry.Dest,
		Description: fmt.Sprintf("copy %s -> %s", entry.Source, entry.Dest),
	})
}

// planDirs plans creation of every missing ancestor of dir, shallowest
// first, so each create operation runs against an existing parent.
// Directories already planned or already present are remembered in
// madeDirs so later entries skip the stat.
func (c *Copier) planDirs(dir string, madeDirs map[string]bool) []types.Operation {
	var missing []string
	for d := dir; !madeDirs[d]; d = filepath.Dir(d) {
		madeDirs[d] = true
		if _, err := c.fs.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if d == filepath.Dir(d) {
			break
		}
	}

	ops := make([]types.Operation, 0, len(missing))
	for i := len(missing) - 1; i >= 0; i-- {
		ops = append(ops, types.Operation{
			Type:        types.OperationCreateDir,
			Target:      missing[i],
			Description: fmt.Sprintf("create %s", missing[i]),
		})
	}
	return ops
}

// planPurge plans removal of destination files that no route claims,
// then of directories left empty, deepest first. The destination root
// itself is never removed.
func (c *Copier) planPurge(plan *Plan, m *types.FileMapping, opts types.Options) {
	root := opts.Destination

	keep := make(map[string]bool, m.Len())
	for _, entry := range m.Entries() {
		keep[entry.Dest] = true
	}
	if opts.ConcatOutput != "" && paths.IsPathWithin(opts.ConcatOutput, root) {
		keep[opts.ConcatOutput] = true
	}

	var files, dirs []string
	c.walkDest(root, &files, &dirs)

	for _, file := range files {
		if keep[file] {
			continue
		}
		plan.PurgeOps = append(plan.PurgeOps, types.Operation{
			Type:        types.OperationDeleteFile,
			Target:      file,
			Description: fmt.Sprintf("purge %s", file),
		})
	}

	// A directory survives when some kept file lives beneath it.
	keepDirs := make(map[string]bool)
	for file := range keep {
		for d := filepath.Dir(file); ; d = filepath.Dir(d) {
			keepDirs[d] = true
			if d == root || d == filepath.Dir(d) {
				break
			}
		}
	}

	// Reverse-lexical order puts children before their parents.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		if keepDirs[dir] {
			continue
		}
		plan.PurgeOps = append(plan.PurgeOps, types.Operation{
			Type:        types.OperationDeleteDir,
			Target:      dir,
			Description: fmt.Sprintf("purge empty %s", dir),
		})
	}
}

// walkDest collects existing files and directories below root. The
// root itself is not collected. Symlinks count as files, so purging
// removes the link, never what it points at.
func (c *Copier) walkDest(root string, files, dirs *[]string) {
	entries, err := c.fs.ReadDir(root)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			*dirs = append(*dirs, path)
			c.walkDest(path, files, dirs)
		} else {
			*files = append(*files, path)
		}
	}
}

// planConcat builds the combined text file: every mapped source that
// holds valid UTF-8, in mapping order, each prefixed with a banner
// naming its destination-relative path.
func (c *Copier) planConcat(plan *Plan, m *types.FileMapping, opts types.Options, madeDirs map[string]bool) {
	var buf strings.Builder

	for _, entry := range m.Entries() {
		data, err := c.fs.ReadFile(entry.Source)
		if err != nil {
			plan.Problems = append(plan.Problems, types.FileError{
				Path: entry.Source,
				Err: errors.Wrapf(err, errors.ErrFileAccess,
					"cannot read %s for concatenation", entry.Source),
			})
			continue
		}
		if !utf8.Valid(data) {
			c.logger.Debug().Str("source", entry.Source).Msg("skipping binary file in concat")
			continue
		}

		rel, err := filepath.Rel(opts.Destination, entry.Dest)
		if err != nil {
			rel = filepath.Base(entry.Dest)
		}
		fmt.Fprintf(&buf, "=== FILE: %s ===\n", filepath.ToSlash(rel))
		buf.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}

	target := opts.ConcatOutput
	plan.ConcatOps = append(plan.ConcatOps, c.planDirs(filepath.Dir(target), madeDirs)...)

	if _, err := c.fs.Stat(target); err == nil {
		plan.ConcatOps = append(plan.ConcatOps, types.Operation{
			Type:        types.OperationDeleteFile,
			Target:      target,
			Description: fmt.Sprintf("replace %s", target),
		})
	}
	plan.ConcatOps = append(plan.ConcatOps, types.Operation{
		Type:        types.OperationWriteFile,
		Target:      target,
		Content:     buf.String(),
		Description: fmt.Sprintf("write %s", target),
	})
}

// Apply executes the plan and assembles the run's result. With DryRun
// set, operations are logged instead of performed and the counts are
// identical to what a real run would report.
func (c *Copier) Apply(plan *Plan, opts types.Options) *types.CopyResult {
	result := &types.CopyResult{
		Skipped: plan.Skipped,
		DryRun:  opts.DryRun,
	}
	result.Errors = append(result.Errors, plan.Problems...)

	executor := synthfs.NewExecutor(c.fs, opts.DryRun).Allow(c.allowRoot(opts.Destination))
	if opts.ConcatOutput != "" {
		executor.Allow(c.allowRoot(filepath.Dir(opts.ConcatOutput)))
	}

	for _, r := range executor.Execute(plan.CopyOps) {
		if r.Err != nil {
			result.AddError(r.Op.Target, r.Err)
			continue
		}
		if r.Op.Type == types.OperationCopyFile {
			result.Copied++
		}
	}

	for _, r := range executor.Execute(plan.PurgeOps) {
		if r.Err != nil {
			result.AddError(r.Op.Target, r.Err)
			continue
		}
		switch r.Op.Type {
		case types.OperationDeleteFile:
			result.PurgedFiles++
		case types.OperationDeleteDir:
			result.PurgedDirs++
		}
	}

	for _, r := range executor.Execute(plan.ConcatOps) {
		if r.Err != nil {
			result.AddError(r.Op.Target, r.Err)
		}
	}

	c.logger.Info().
		Int("copied", result.Copied).
		Int("skipped", result.Skipped).
		Int("purgedFiles", result.PurgedFiles).
		Int("purgedDirs", result.PurgedDirs).
		Int("errors", len(result.Errors)).
		Bool("dryRun", result.DryRun).
		Msg("run finished")
	return result
}

// allowRoot widens a write root to its shallowest missing ancestor so
// that planned parent-directory creation stays inside the allowance.
// An existing root is returned unchanged.
func (c *Copier) allowRoot(root string) string {
	for {
		parent := filepath.Dir(root)
		if parent == root {
			return root
		}
		if _, err := c.fs.Stat(parent); err == nil {
			return root
		}
		root = parent
	}
}

// Run plans and applies in one step.
func (c *Copier) Run(m *types.FileMapping, opts types.Options) *types.CopyResult {
	return c.Apply(c.Plan(m, opts), opts)
}
