// Package synthfs executes planned file operations through the
// synthfs library. Each operation runs in its own pipeline so one
// failing file never aborts the rest of the run; failures come back
// per operation and the caller decides what they mean.
package synthfs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/logging"
	"github.com/arthur-debert/lcopy/pkg/paths"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// Result is the outcome of one executed operation.
type Result struct {
	Op  types.Operation
	Err error
}

// Executor runs operations against the real filesystem via synthfs.
type Executor struct {
	logger       zerolog.Logger
	dryRun       bool
	filesystem   synthfs.FileSystem
	fs           types.FS
	allowedRoots []string
}

// NewExecutor creates an executor. fsys is used for the metadata calls
// synthfs does not cover (stat and chtimes for modification-time
// preservation). In dry-run mode operations are logged, not executed.
func NewExecutor(fsys types.FS, dryRun bool) *Executor {
	return &Executor{
		logger:     logging.GetLogger("synthfs"),
		dryRun:     dryRun,
		filesystem: filesystem.NewOSFileSystem("/"),
		fs:         fsys,
	}
}

// Allow adds a directory the executor may write into. Once any root is
// allowed, operations targeting paths outside every allowed root are
// refused. This backs the guarantee that purging never escapes the
// destination root.
func (e *Executor) Allow(root string) *Executor {
	if root != "" {
		e.allowedRoots = append(e.allowedRoots, filepath.Clean(root))
	}
	return e
}

// Execute runs the operations in order and returns one result each.
// Execution continues past failures.
func (e *Executor) Execute(ops []types.Operation) []Result {
	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		err := e.execute(op)
		if err != nil {
			e.logger.Warn().Err(err).Str("type", string(op.Type)).
				Str("target", op.Target).Msg("operation failed")
		}
		results = append(results, Result{Op: op, Err: err})
	}
	return results
}

func (e *Executor) execute(op types.Operation) error {
	if err := e.validateTarget(op.Target); err != nil {
		return err
	}

	if e.dryRun {
		e.logOperation(op)
		return nil
	}

	synthOp, err := e.convert(op)
	if err != nil {
		return err
	}

	pipeline := synthfs.NewMemPipeline()
	if err := pipeline.Add(synthOp); err != nil {
		return errors.Wrapf(err, errors.ErrInternal,
			"failed to add operation to pipeline: %s", op.Description)
	}

	result := synthfs.NewExecutor().Run(context.Background(), pipeline, e.filesystem)
	if result.GetError() != nil {
		return errors.Wrapf(result.GetError(), failureCode(op.Type),
			"%s", op.Description)
	}

	if op.Type == types.OperationCopyFile {
		e.restoreTimes(op)
	}
	return nil
}

// convert maps one planned operation onto its synthfs counterpart.
// synthfs works in paths relative to the filesystem root.
func (e *Executor) convert(op types.Operation) (synthfs.Operation, error) {
	relTarget, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", op.Target)
	}

	switch op.Type {
	case types.OperationCreateDir:
		opID := core.OperationID(fmt.Sprintf("create-dir-%s", op.Target))
		createOp := operations.NewCreateDirectoryOperation(opID, relTarget)
		createOp.SetItem(&directoryItem{path: relTarget, mode: 0755})
		return synthfs.NewOperationsPackageAdapter(createOp), nil

	case types.OperationCopyFile:
		if op.Source == "" {
			return nil, errors.New(errors.ErrInvalidInput,
				"copy operation requires a source")
		}
		relSource, err := filepath.Rel("/", op.Source)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput,
				"failed to convert source path: %s", op.Source)
		}
		opID := core.OperationID(fmt.Sprintf("copy-%s-to-%s", filepath.Base(op.Source), op.Target))
		copyOp := operations.NewCopyOperation(opID, relTarget)
		copyOp.SetPaths(relSource, relTarget)
		return synthfs.NewOperationsPackageAdapter(copyOp), nil

	case types.OperationWriteFile:
		opID := core.OperationID(fmt.Sprintf("write-file-%s", op.Target))
		createOp := operations.NewCreateFileOperation(opID, relTarget)
		createOp.SetItem(&fileItem{
			path:    relTarget,
			content: []byte(op.Content),
			mode:    0644,
		})
		return synthfs.NewOperationsPackageAdapter(createOp), nil

	case types.OperationDeleteFile, types.OperationDeleteDir:
		opID := core.OperationID(fmt.Sprintf("delete-%s", op.Target))
		deleteOp := operations.NewDeleteOperation(opID, relTarget)
		return synthfs.NewOperationsPackageAdapter(deleteOp), nil

	default:
		return nil, errors.Newf(errors.ErrInternal,
			"unsupported operation type: %s", op.Type)
	}
}

// validateTarget refuses targets outside every allowed root.
func (e *Executor) validateTarget(target string) error {
	if len(e.allowedRoots) == 0 {
		return nil
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to normalize path: %s", target)
	}
	for _, root := range e.allowedRoots {
		if paths.IsPathWithin(abs, root) {
			return nil
		}
	}
	return errors.Newf(errors.ErrPermission,
		"operation target is outside the destination: %s", target)
}

// restoreTimes carries the source's modification time onto the copy.
// Failure is logged, not fatal: the file content is already in place.
func (e *Executor) restoreTimes(op types.Operation) {
	info, err := e.fs.Stat(op.Source)
	if err != nil {
		e.logger.Warn().Err(err).Str("source", op.Source).
			Msg("cannot stat source for time preservation")
		return
	}
	if err := e.fs.Chtimes(op.Target, info.ModTime(), info.ModTime()); err != nil {
		e.logger.Warn().Err(err).Str("target", op.Target).
			Msg("cannot preserve modification time")
	}
}

func failureCode(t types.OperationType) errors.ErrorCode {
	switch t {
	case types.OperationCopyFile:
		return errors.ErrFileCopy
	case types.OperationWriteFile:
		return errors.ErrFileWrite
	case types.OperationDeleteFile, types.OperationDeleteDir:
		return errors.ErrFileDelete
	case types.OperationCreateDir:
		return errors.ErrDirCreate
	default:
		return errors.ErrInternal
	}
}

func (e *Executor) logOperation(op types.Operation) {
	logger := e.logger.With().
		Str("type", string(op.Type)).
		Str("description", op.Description).
		Logger()

	switch op.Type {
	case types.OperationCreateDir:
		logger.Info().Str("target", op.Target).Msg("Would create directory")
	case types.OperationCopyFile:
		logger.Info().Str("source", op.Source).Str("target", op.Target).Msg("Would copy file")
	case types.OperationWriteFile:
		logger.Info().Str("target", op.Target).Int("contentLen", len(op.Content)).Msg("Would write file")
	case types.OperationDeleteFile:
		logger.Info().Str("target", op.Target).Msg("Would delete file")
	case types.OperationDeleteDir:
		logger.Info().Str("target", op.Target).Msg("Would delete directory")
	default:
		logger.Info().Msg("Would execute operation")
	}
}

// Item types for synthfs operations.

type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
