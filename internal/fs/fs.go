// Package fs provides the file system abstraction the renderers write
// through, so they can be tested without touching disk.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FS is the set of file operations populate needs.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	Remove(path string) error
	Rename(oldpath, newpath string) error
	Chmod(path string, mode os.FileMode) error
}

// RealFS implements FS on the operating system.
type RealFS struct{}

func (RealFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (RealFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (RealFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (RealFS) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

func (RealFS) Remove(path string) error { return os.Remove(path) }

func (RealFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (RealFS) Chmod(path string, mode os.FileMode) error { return os.Chmod(path, mode) }

// Default is the process-wide RealFS.
var Default FS = RealFS{}

// Exists reports whether path exists. Errors other than "not exist" are
// returned so callers do not mistake a permission problem for absence.
func Exists(fsys FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes data next to path under a temporary name and renames
// it into place. An existing file keeps its permissions; a new one gets perm.
func WriteFileAtomic(fsys FS, path string, data []byte, perm os.FileMode) error {
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(path),
		fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), strconv.FormatInt(time.Now().UnixNano(), 36)))

	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("writing temp file: %w", err)
	}

	// WriteFile honours umask; restore the intended mode explicitly.
	if err := fsys.Chmod(tmp, perm); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
