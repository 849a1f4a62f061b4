package fs

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type mockFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// MockFS is an in-memory FS for tests. Paths are cleaned before use and
// parent directories are implied by files.
type MockFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	perms map[string]os.FileMode
	dirs  map[string]bool

	// FailWrite makes WriteFile return the mapped error for matching paths.
	FailWrite map[string]error
}

// NewMockFS creates an empty MockFS.
func NewMockFS() *MockFS {
	return &MockFS{
		files:     make(map[string][]byte),
		perms:     make(map[string]os.FileMode),
		dirs:      make(map[string]bool),
		FailWrite: make(map[string]error),
	}
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &os.PathError{Op: "read", Path: path, Err: os.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MockFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(path)
	if err, ok := m.FailWrite[clean]; ok {
		return &os.PathError{Op: "write", Path: path, Err: err}
	}
	if dir := filepath.Dir(clean); !m.dirExistsLocked(dir) {
		return &os.PathError{Op: "write", Path: path, Err: os.ErrNotExist}
	}

	m.files[clean] = append([]byte(nil), data...)
	m.perms[clean] = perm
	return nil
}

func (m *MockFS) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return nil
}

func (m *MockFS) Stat(path string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clean := filepath.Clean(path)
	if data, ok := m.files[clean]; ok {
		return &mockFileInfo{name: filepath.Base(clean), size: int64(len(data)), mode: m.perms[clean]}, nil
	}
	if m.dirExistsLocked(clean) {
		return &mockFileInfo{name: filepath.Base(clean), mode: 0755 | os.ModeDir, isDir: true}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
}

func (m *MockFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(path)
	if _, ok := m.files[clean]; !ok && !m.dirs[clean] {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	delete(m.files, clean)
	delete(m.perms, clean)
	delete(m.dirs, clean)
	return nil
}

func (m *MockFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, to := filepath.Clean(oldpath), filepath.Clean(newpath)
	data, ok := m.files[from]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: os.ErrNotExist}
	}
	m.files[to] = data
	m.perms[to] = m.perms[from]
	delete(m.files, from)
	delete(m.perms, from)
	return nil
}

func (m *MockFS) Chmod(path string, mode os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(path)
	if _, ok := m.files[clean]; !ok {
		return &os.PathError{Op: "chmod", Path: path, Err: os.ErrNotExist}
	}
	m.perms[clean] = mode
	return nil
}

// AddFile seeds a file, creating its parent directories.
func (m *MockFS) AddFile(path string, content string, perm os.FileMode) {
	_ = m.MkdirAll(filepath.Dir(path), 0755)

	m.mu.Lock()
	defer m.mu.Unlock()
	clean := filepath.Clean(path)
	m.files[clean] = []byte(content)
	m.perms[clean] = perm
}

// Content returns a file's content and whether it exists.
func (m *MockFS) Content(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	return string(data), ok
}

// Perm returns the recorded permissions of a file.
func (m *MockFS) Perm(path string) os.FileMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.perms[filepath.Clean(path)]
}

// Files lists stored file paths, sorted.
func (m *MockFS) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (m *MockFS) dirExistsLocked(dir string) bool {
	return dir == "." || dir == string(filepath.Separator) || m.dirs[dir]
}
