package vfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// BillyDirectory adapts a billy.Filesystem to Directory. The same type backs
// the physical disk (osfs) and in-memory trees (memfs).
type BillyDirectory struct {
	fs     billy.Filesystem
	prefix string // location of this directory relative to the outermost root
}

// NewBillyDirectory wraps fs; the root of fs becomes the directory.
func NewBillyDirectory(fs billy.Filesystem) *BillyDirectory {
	return &BillyDirectory{fs: fs}
}

// NewOSDirectory returns a Directory rooted at dir on the local disk.
func NewOSDirectory(dir string) *BillyDirectory {
	return NewBillyDirectory(osfs.New(dir))
}

// NewMemoryDirectory returns an empty in-memory Directory.
func NewMemoryDirectory() *BillyDirectory {
	return NewBillyDirectory(memfs.New())
}

// Filesystem exposes the underlying filesystem, scoped to this directory.
func (d *BillyDirectory) Filesystem() billy.Filesystem {
	return d.fs
}

// Path is the location of this directory relative to the outermost root.
func (d *BillyDirectory) Path() string {
	return d.prefix
}

func (d *BillyDirectory) GetFile(filename string) (File, error) {
	p := cleanPath(filename)
	info, err := d.fs.Stat(p)
	if err != nil {
		return nil, &os.PathError{Op: "getfile", Path: d.display(p), Err: notExist(err)}
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "getfile", Path: d.display(p), Err: ErrIsDirectory}
	}
	return &billyFile{fs: d.fs, name: p, path: d.display(p)}, nil
}

func (d *BillyDirectory) GetDirectory(dir string, createIfNotExists bool) (Directory, error) {
	p := cleanPath(dir)
	if p == "" {
		return d, nil
	}

	info, err := d.fs.Stat(p)
	switch {
	case err == nil && !info.IsDir():
		return nil, &os.PathError{Op: "getdirectory", Path: d.display(p), Err: ErrNotDirectory}
	case err != nil && !createIfNotExists:
		return nil, &os.PathError{Op: "getdirectory", Path: d.display(p), Err: notExist(err)}
	case err != nil:
		if err := d.fs.MkdirAll(p, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d.display(p), err)
		}
	}

	return &BillyDirectory{
		fs:     chroot.New(d.fs, p),
		prefix: d.display(p),
	}, nil
}

func (d *BillyDirectory) GetDirectoryPaths(relativePath string) ([]string, error) {
	p := cleanPath(relativePath)
	infos, err := d.readDir("getdirectorypaths", p)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, fi := range infos {
		if fi.IsDir() {
			dirs = append(dirs, path.Join(p, fi.Name()))
		}
	}
	return dirs, nil
}

func (d *BillyDirectory) GetFilePaths(directory string, searchOption SearchOption, searchPattern string) ([]string, error) {
	if searchPattern != "" && !doublestar.ValidatePattern(searchPattern) {
		return nil, fmt.Errorf("getfilepaths %q: %w", searchPattern, ErrInvalidPattern)
	}

	start := cleanPath(directory)
	var paths []string
	err := d.walk(start, searchOption == AllDirectories, func(p string) error {
		ok, err := matchPattern(searchPattern, strings.TrimPrefix(strings.TrimPrefix(p, start), "/"))
		if err != nil {
			return err
		}
		if ok {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (d *BillyDirectory) GetAttributes(name string) (FileAttributes, error) {
	p := cleanPath(name)
	info, err := d.fs.Lstat(p)
	if err != nil {
		return 0, &os.PathError{Op: "getattributes", Path: d.display(p), Err: notExist(err)}
	}

	var attrs FileAttributes
	if info.IsDir() {
		attrs |= AttrDirectory
	}
	if info.Mode().Perm()&0o222 == 0 {
		attrs |= AttrReadOnly
	}
	if strings.HasPrefix(path.Base(p), ".") && p != "" {
		attrs |= AttrHidden
	}
	if attrs == 0 {
		attrs = AttrNormal
	}
	return attrs, nil
}

// DeleteContents removes every entry below this directory, leaving the
// directory itself in place.
func (d *BillyDirectory) DeleteContents() error {
	infos, err := d.readDir("deletecontents", "")
	if err != nil {
		return err
	}
	for _, fi := range infos {
		if err := util.RemoveAll(d.fs, fi.Name()); err != nil {
			return fmt.Errorf("remove %s: %w", d.display(fi.Name()), err)
		}
	}
	return nil
}

// walk visits files below dir. Within a directory entries are visited in
// name order and files come before the contents of sub-directories.
func (d *BillyDirectory) walk(dir string, recurse bool, fn func(p string) error) error {
	infos, err := d.readDir("getfilepaths", dir)
	if err != nil {
		return err
	}

	var subdirs []string
	for _, fi := range infos {
		p := path.Join(dir, fi.Name())
		if fi.Mode()&os.ModeSymlink != 0 {
			// Linked directories are not followed.
			if target, err := d.fs.Stat(p); err != nil || target.IsDir() {
				continue
			}
		}
		if fi.IsDir() {
			subdirs = append(subdirs, p)
			continue
		}
		if err := fn(p); err != nil {
			return err
		}
	}

	if !recurse {
		return nil
	}
	for _, sub := range subdirs {
		if err := d.walk(sub, true, fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *BillyDirectory) readDir(op, p string) ([]os.FileInfo, error) {
	infos, err := d.fs.ReadDir(p)
	if err != nil {
		return nil, &os.PathError{Op: op, Path: d.display(p), Err: notExist(err)}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

func (d *BillyDirectory) display(p string) string {
	return path.Join(d.prefix, p)
}

// billyFile is a lazily opened handle; content is read only on Open.
type billyFile struct {
	fs   billy.Filesystem
	name string // relative to fs
	path string // relative to the outermost root
}

func (f *billyFile) Path() string { return f.path }

func (f *billyFile) Open() (io.ReadCloser, error) {
	r, err := f.fs.Open(f.name)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *billyFile) Stat() (os.FileInfo, error) {
	return f.fs.Stat(f.name)
}

// matchPattern applies a glob to a path relative to the searched directory.
// Patterns without a separator only look at the base name.
func matchPattern(pattern, rel string) (bool, error) {
	if pattern == "" || pattern == "*" {
		return true, nil
	}
	if !strings.Contains(pattern, "/") {
		rel = path.Base(rel)
	}
	return doublestar.Match(pattern, rel)
}

// cleanPath normalizes a caller supplied path to a clean relative slash path.
// The directory itself is "".
func cleanPath(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, `\`, "/"))
	return strings.TrimPrefix(p, "/")
}

// notExist keeps os.ErrNotExist reachable through errors.Is for the
// filesystems that report missing paths with bare errno values.
func notExist(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	if errors.Is(err, os.ErrNotExist) {
		return os.ErrNotExist
	}
	return err
}

// Compile-time interface checks.
var (
	_ Directory = (*BillyDirectory)(nil)
	_ File      = (*billyFile)(nil)
)
