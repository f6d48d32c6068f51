package types

import (
	"io/fs"
	"time"
)

// FS is the filesystem interface required for lcopy operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Chtimes(name string, atime, mtime time.Time) error
}

// Confirmer answers yes/no questions during prompt-driven conflict
// resolution. Implementations must never block forever: when no
// interactive terminal is available the answer is an immediate no.
type Confirmer interface {
	Confirm(prompt string) bool
}
