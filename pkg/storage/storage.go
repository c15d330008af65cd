package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Storage wraps the filesystem operations both jobs perform.
type Storage struct{}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("error creating directory for %s: %w", filePath, err)
	}
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// EnsureDir creates dir and any parents.
func (s *Storage) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}
	return nil
}

// ReplaceFile writes content only if it differs from old and reports whether it wrote.
func (s *Storage) ReplaceFile(filePath string, old, content []byte) (bool, error) {
	if bytes.Equal(old, content) {
		return false, nil
	}
	if err := s.SaveFile(filePath, content); err != nil {
		return false, err
	}
	return true, nil
}

// List returns the sorted paths in dir matching pattern (filepath.Match syntax).
func (s *Storage) List(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
