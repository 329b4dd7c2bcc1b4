package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores files on disk under a root directory and serves them
// from the /uploads URL prefix. The root is created on demand.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	err := os.MkdirAll(root, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	slog.Info("initialized local storage", "root", root)

	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) Save(path string, file io.Reader) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(full), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	_, err = io.Copy(out, file)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Delete(path string) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *LocalStorage) URL(path string) string {
	return "/uploads/" + filepath.ToSlash(path)
}

// fullPath resolves a storage path under the root and rejects traversal.
func (s *LocalStorage) fullPath(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path: %s", path)
	}
	return filepath.Join(s.root, clean), nil
}
