// Package vfs defines the directory capability that discovery runs against,
// along with a go-billy backed implementation covering both the physical
// disk (osfs) and in-memory trees (memfs).
package vfs

import (
	"errors"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// SearchOption controls whether file enumeration descends into
// sub-directories.
type SearchOption int

const (
	// TopDirectoryOnly lists files directly inside the searched directory.
	TopDirectoryOnly SearchOption = iota
	// AllDirectories lists files in the searched directory and every
	// directory below it.
	AllDirectories
)

func (o SearchOption) String() string {
	switch o {
	case TopDirectoryOnly:
		return "top"
	case AllDirectories:
		return "all"
	default:
		return "unknown"
	}
}

// FileAttributes is a set of attribute flags for a path.
type FileAttributes uint32

const (
	AttrNormal FileAttributes = 1 << iota
	AttrDirectory
	AttrReadOnly
	AttrHidden
)

// Has reports whether all bits of flag are set.
func (a FileAttributes) Has(flag FileAttributes) bool {
	return a&flag == flag
}

var (
	// ErrInvalidPattern is wrapped by errors for malformed glob patterns.
	ErrInvalidPattern = doublestar.ErrBadPattern
	// ErrIsDirectory is returned when a file handle is requested for a directory.
	ErrIsDirectory = errors.New("is a directory")
	// ErrNotDirectory is returned when a directory handle is requested for a file.
	ErrNotDirectory = errors.New("not a directory")
)

// File is a handle to one file's content. Handles are produced by a
// Directory; holders reference them but never own the underlying storage.
type File interface {
	// Path is the slash separated location of the file relative to the
	// filesystem root the handle was produced from.
	Path() string
	Open() (io.ReadCloser, error)
	Stat() (os.FileInfo, error)
}

// Directory is a node in an abstract filesystem. All path arguments are
// slash separated and relative to the directory itself.
type Directory interface {
	GetFile(filename string) (File, error)
	GetDirectory(path string, createIfNotExists bool) (Directory, error)

	// GetDirectoryPaths lists the immediate sub-directories of relativePath.
	GetDirectoryPaths(relativePath string) ([]string, error)
	// GetFilePaths lists files under directory whose names match
	// searchPattern. Returned paths are relative to this Directory.
	GetFilePaths(directory string, searchOption SearchOption, searchPattern string) ([]string, error)
	GetAttributes(path string) (FileAttributes, error)

	DeleteContents() error
}
