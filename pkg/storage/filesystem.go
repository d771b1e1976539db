package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Private is the mode used for files holding credentials.
const Private fs.FileMode = 0o600

// LocalStorage persists files on disk under a base directory.
type LocalStorage struct {
	baseDir string
	dirMode fs.FileMode
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	return newLocalStorage(baseDir, 0o755)
}

// NewPrivateStorage is LocalStorage restricted to the current user.
func NewPrivateStorage(baseDir string) (*LocalStorage, error) {
	return newLocalStorage(baseDir, 0o700)
}

func newLocalStorage(baseDir string, dirMode fs.FileMode) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, dirMode); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, dirMode: dirMode}, nil
}

// Save writes data to filename under the base dir and returns the full path.
func (s *LocalStorage) Save(filename string, data []byte, perm fs.FileMode) (string, error) {
	if perm == 0 {
		perm = 0o644
	}
	path := s.resolve(filename)
	if err := os.MkdirAll(filepath.Dir(path), s.dirMode); err != nil {
		return "", fmt.Errorf("prepare storage directory: %w", err)
	}
	// write then rename so readers never see a half-written file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace file: %w", err)
	}
	return path, nil
}

// Read returns the file contents, or nil and no error when it does not exist.
func (s *LocalStorage) Read(filename string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(filename string) error {
	if err := os.Remove(s.resolve(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// Path exposes the underlying path for filename.
func (s *LocalStorage) Path(filename string) string {
	return s.resolve(filename)
}

func (s *LocalStorage) resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(s.baseDir, filename)
}
