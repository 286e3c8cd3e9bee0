package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage grava arquivos no filesystem local, servidos em /uploads
type LocalStorage struct {
	basePath  string
	publicURL string
}

// NewLocalStorage creates a new local storage driver
func NewLocalStorage(basePath, publicURL string) *LocalStorage {
	return &LocalStorage{
		basePath:  basePath,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Upload uploads a file to the local filesystem
func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, path string) (string, string, error) {
	fullPath := filepath.Join(s.basePath, path)

	// Create directory structure if it doesn't exist
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, s.GetPublicURL(path), nil
}

// Delete removes a file from the local filesystem
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	fullPath := filepath.Join(s.basePath, path)

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	// Try to remove empty parent directories
	s.removeEmptyDirs(filepath.Dir(fullPath))

	return nil
}

// GetPublicURL returns the public URL for local storage
func (s *LocalStorage) GetPublicURL(path string) string {
	if s.publicURL == "" {
		return fmt.Sprintf("/uploads/%s", path)
	}
	return fmt.Sprintf("%s/%s", s.publicURL, path)
}

// Exists checks if a file exists on the local filesystem
func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	fullPath := filepath.Join(s.basePath, path)
	_, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}

// GetReader returns a reader for the file
func (s *LocalStorage) GetReader(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, path)
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// removeEmptyDirs removes empty parent directories up to basePath
func (s *LocalStorage) removeEmptyDirs(dir string) {
	rel, err := filepath.Rel(s.basePath, dir)
	if err != nil || rel == "." {
		return
	}

	// Only succeeds if the directory is empty
	if err := os.Remove(dir); err == nil {
		s.removeEmptyDirs(filepath.Dir(dir))
	}
}
