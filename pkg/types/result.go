package types

// FileError records a per-file failure. The run continues past it.
type FileError struct {
	Path string
	Err  error
}

// CopyResult summarizes a materialization run. It is observational:
// nothing downstream branches on it.
type CopyResult struct {
	// Copied counts files written (or that would be written in dry-run)
	Copied int

	// Skipped counts conflicting files left untouched
	Skipped int

	// PurgedFiles counts destination files removed by purge
	PurgedFiles int

	// PurgedDirs counts emptied directories removed by purge
	PurgedDirs int

	// DryRun marks the result as predicted rather than performed
	DryRun bool

	// Errors holds every per-file failure in occurrence order
	Errors []FileError
}

// AddError appends a per-file failure.
func (r *CopyResult) AddError(path string, err error) {
	r.Errors = append(r.Errors, FileError{Path: path, Err: err})
}

// Failed reports whether any per-file failure was recorded.
func (r *CopyResult) Failed() bool {
	return len(r.Errors) > 0
}
