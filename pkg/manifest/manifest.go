// Package manifest tracks which remote assets of a post have already been
// downloaded and under which local filename.
package manifest

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// FileName is the name of the JSON manifest inside an asset directory.
const FileName = "manifest.json"

// Store is the identifier -> local filename mapping for one asset directory.
// Implementations must not renumber or drop entries once Put.
type Store interface {
	Dir() string
	Get(id string) (string, bool)
	Put(id, filename string)
	Len() int
	// Entries returns a copy of the mapping.
	Entries() map[string]string
	// Save persists every Put so far.
	Save() error
	// Reconcile compares the mapping with the files actually present in Dir.
	Reconcile() (Reconciliation, error)
}

// OpenFunc opens the Store for an asset directory.
type OpenFunc func(dir string) (Store, error)

// Reconciliation is the result of comparing a manifest with its directory listing.
type Reconciliation struct {
	// Next is the first sequence number that is free on disk.
	Next int
	// Orphans are numbered files no manifest entry points at,
	// typically left by a run interrupted before its manifest save.
	Orphans []string
	// Missing lists identifiers whose recorded file no longer exists.
	Missing []string
}

var localNameRe = regexp.MustCompile(`^img-(\d+)`)

// LocalName builds the numbered filename for seq.
func LocalName(seq int, ext string) string {
	return fmt.Sprintf("img-%02d%s", seq, ext)
}

// SequenceOf returns the number encoded in a local filename.
func SequenceOf(name string) (int, bool) {
	m := localNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ReconcileDir scans dir and reconciles it against entries.
// A missing directory is treated as empty.
func ReconcileDir(dir string, entries map[string]string) (Reconciliation, error) {
	rec := Reconciliation{Next: 1}

	dirEntries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return rec, fmt.Errorf("failed to list asset directory: %w", err)
	}

	referenced := make(map[string]bool, len(entries))
	for _, name := range entries {
		referenced[name] = true
	}

	present := make(map[string]bool, len(dirEntries))
	maxSeq := 0
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		present[name] = true
		seq, ok := SequenceOf(name)
		if !ok {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
		if !referenced[name] {
			rec.Orphans = append(rec.Orphans, name)
		}
	}
	rec.Next = maxSeq + 1

	for id, name := range entries {
		if !present[name] {
			rec.Missing = append(rec.Missing, id)
		}
	}
	sort.Strings(rec.Orphans)
	sort.Strings(rec.Missing)
	return rec, nil
}

func copyEntries(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
