package db

import (
	"fmt"
	"path/filepath"

	"github.com/dtnitsch/blog-migrate/pkg/manifest"
)

// ManifestStore is a manifest.Store backed by the manifest_entries table.
// The directory listing is still the source of truth for numbering.
type ManifestStore struct {
	db      *DB
	dir     string
	entries map[string]string
	pending map[string]string
}

// OpenManifest loads every entry recorded for dir.
func (db *DB) OpenManifest(dir string) (manifest.Store, error) {
	dir = filepath.Clean(dir)
	rows, err := db.Query("SELECT identifier, filename FROM manifest_entries WHERE asset_dir = ?", dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest for %s: %w", dir, err)
	}
	defer rows.Close()

	s := &ManifestStore{
		db:      db,
		dir:     dir,
		entries: map[string]string{},
		pending: map[string]string{},
	}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan manifest entry: %w", err)
		}
		s.entries[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest entries: %w", err)
	}
	return s, nil
}

func (s *ManifestStore) Dir() string { return s.dir }

func (s *ManifestStore) Get(id string) (string, bool) {
	name, ok := s.entries[id]
	return name, ok
}

func (s *ManifestStore) Put(id, filename string) {
	s.entries[id] = filename
	s.pending[id] = filename
}

func (s *ManifestStore) Len() int { return len(s.entries) }

func (s *ManifestStore) Entries() map[string]string {
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Save writes pending entries in one transaction.
func (s *ManifestStore) Save() error {
	if len(s.pending) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin manifest transaction: %w", err)
	}
	for id, name := range s.pending {
		_, err := tx.Exec(`
			INSERT INTO manifest_entries (asset_dir, identifier, filename)
			VALUES (?, ?, ?)
			ON CONFLICT(asset_dir, identifier) DO UPDATE SET filename = excluded.filename
		`, s.dir, id, name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save manifest entry %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit manifest: %w", err)
	}
	s.pending = map[string]string{}
	return nil
}

func (s *ManifestStore) Reconcile() (manifest.Reconciliation, error) {
	return manifest.ReconcileDir(s.dir, s.entries)
}
