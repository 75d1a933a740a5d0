package imagecache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Store persists the serialized cache as a single blob.
// Load returns (nil, nil) when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// FileStore keeps the blob in <dir>/<storageKey>.json.
type FileStore struct {
	fs   afero.Fs
	dir  string
	key  string
	path string
}

func NewFileStore(fsys afero.Fs, dir, storageKey string) *FileStore {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileStore{
		fs:   fsys,
		dir:  dir,
		key:  storageKey,
		path: filepath.Join(dir, storageKey+".json"),
	}
}

func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file %s: %w", s.path, err)
	}
	return data, nil
}

// Save writes to a temp file first and renames it over the old blob, so a
// crash mid-write never leaves a truncated cache behind.
func (s *FileStore) Save(_ context.Context, data []byte) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir %s: %w", s.dir, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, s.key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	if err = s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore keeps the blob in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemoryStore(initial []byte) *MemoryStore {
	return &MemoryStore{data: initial}
}

func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.saves++
	return nil
}

// Saves reports how many times the blob has been written.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
