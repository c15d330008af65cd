package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the manifest as indented JSON next to the assets it describes.
type FileStore struct {
	dir     string
	entries map[string]string
}

// OpenFile loads dir/manifest.json, or starts empty if it does not exist yet.
func OpenFile(dir string) (Store, error) {
	s := &FileStore{dir: dir, entries: map[string]string{}}

	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", s.path(), err)
	}
	if s.entries == nil {
		s.entries = map[string]string{}
	}
	return s, nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, FileName)
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Get(id string) (string, bool) {
	name, ok := s.entries[id]
	return name, ok
}

func (s *FileStore) Put(id, filename string) {
	s.entries[id] = filename
}

func (s *FileStore) Len() int { return len(s.entries) }

func (s *FileStore) Entries() map[string]string {
	return copyEntries(s.entries)
}

// Save writes through a temp file and rename so a crash never leaves a truncated manifest.
func (s *FileStore) Save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}

func (s *FileStore) Reconcile() (Reconciliation, error) {
	return ReconcileDir(s.dir, s.entries)
}
