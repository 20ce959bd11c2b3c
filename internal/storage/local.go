package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for paths escaping the storage root
var ErrInvalidPath = errors.New("ruta de archivo inválida")

// LocalStorage keeps rendered report artifacts on the local filesystem
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

// NewLocalStorage creates the base directory when missing
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, now: time.Now}, nil
}

// Save writes data under subDir/YYYY/MM/DD with a unique name keeping the
// extension of filename, and returns the path relative to the root
func (s *LocalStorage) Save(subDir, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.basePath, subDir, s.now().Format("2006/01/02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dir, uuid.NewString()+filepath.Ext(filename))
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	relPath, err := filepath.Rel(s.basePath, filePath)
	if err != nil {
		return "", err
	}
	return relPath, nil
}

// Open returns a stored file for reading
func (s *LocalStorage) Open(relativePath string) (*os.File, error) {
	full, err := s.FullPath(relativePath)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Delete removes a stored file; a missing file is not an error
func (s *LocalStorage) Delete(relativePath string) error {
	full, err := s.FullPath(relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(relativePath string) bool {
	full, err := s.FullPath(relativePath)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// FullPath resolves a relative path inside the storage root
func (s *LocalStorage) FullPath(relativePath string) (string, error) {
	clean := filepath.Clean(relativePath)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.basePath, clean), nil
}

// Size returns the size of a stored file in bytes
func (s *LocalStorage) Size(relativePath string) (int64, error) {
	full, err := s.FullPath(relativePath)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
