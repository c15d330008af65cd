package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/blog-migrate/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if database.Path() != path {
		t.Errorf("Path() = %q, want %q", database.Path(), path)
	}
	for _, table := range []string{"manifest_entries", "runs", "fetch_attempts"} {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	// Reopening an existing database must not fail.
	database.Close()
	again, err := Open(path)
	if err != nil {
		t.Fatalf("Open() second time error = %v", err)
	}
	again.Close()
}

func TestManifestStore_SaveAndReopen(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	dir := t.TempDir()
	store, err := db.OpenManifest(dir)
	if err != nil {
		t.Fatalf("OpenManifest() error = %v", err)
	}
	store.Put("1*abc.png", "img-01.png")
	store.Put("0*def", "img-02.jpeg")
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened, err := db.OpenManifest(dir)
	if err != nil {
		t.Fatalf("OpenManifest() reopen error = %v", err)
	}
	if reopened.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reopened.Len())
	}
	if got, ok := reopened.Get("0*def"); !ok || got != "img-02.jpeg" {
		t.Errorf("Get(0*def) = %q, %v, want img-02.jpeg, true", got, ok)
	}

	// Another directory does not see these entries.
	other, err := db.OpenManifest(t.TempDir())
	if err != nil {
		t.Fatalf("OpenManifest() other error = %v", err)
	}
	if other.Len() != 0 {
		t.Errorf("other Len() = %d, want 0", other.Len())
	}
}

func TestManifestStore_UnsavedPutIsNotPersisted(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	dir := t.TempDir()
	store, _ := db.OpenManifest(dir)
	store.Put("a", "img-01.png")

	reopened, _ := db.OpenManifest(dir)
	if reopened.Len() != 0 {
		t.Errorf("Len() = %d, want 0 before Save", reopened.Len())
	}
}

func TestManifestStore_Reconcile(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	dir := t.TempDir()
	for _, name := range []string{"img-01.png", "img-03.gif"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	store, _ := db.OpenManifest(dir)
	store.Put("a", "img-01.png")

	rec, err := store.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if rec.Next != 4 {
		t.Errorf("Next = %d, want 4", rec.Next)
	}
	if len(rec.Orphans) != 1 || rec.Orphans[0] != "img-03.gif" {
		t.Errorf("Orphans = %v, want [img-03.gif]", rec.Orphans)
	}
}

func TestRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.StartRun("run-1"); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	attempts := []FetchAttempt{
		{RunID: "run-1", AssetDir: "a", Identifier: "x.png", URL: "u", Attempt: 1, StatusCode: 429, ErrorType: "rate_limited"},
		{RunID: "run-1", AssetDir: "a", Identifier: "x.png", URL: "u", Attempt: 2, StatusCode: 200, Success: true, SizeBytes: 10},
		{RunID: "run-1", AssetDir: "a", Identifier: "y.png", URL: "u2", Attempt: 1, StatusCode: 404, ErrorType: "http_error"},
	}
	for _, a := range attempts {
		if err := db.RecordAttempt(a); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
	}

	n, err := db.AttemptCount("a", "x.png")
	if err != nil {
		t.Fatalf("AttemptCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("AttemptCount() = %d, want 2", n)
	}

	summary := models.LocalizeSummary{Posts: 1, Downloaded: 1, Failed: 1}
	if err := db.FinishRun("run-1", summary); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRuns() returned %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.RunID != "run-1" || r.Downloaded != 1 || r.Failed != 1 || r.Posts != 1 {
		t.Errorf("run = %+v, want run-1 with 1 post, 1 downloaded, 1 failed", r)
	}
	if r.FinishedAt == nil {
		t.Error("FinishedAt = nil after FinishRun")
	}

	got, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.Failed != 1 {
		t.Errorf("GetRun().Failed = %d, want 1", got.Failed)
	}
	if _, err := db.GetRun("missing"); err == nil {
		t.Error("GetRun(missing) error = nil")
	}

	listed, err := db.ListAttempts("run-1")
	if err != nil {
		t.Fatalf("ListAttempts() error = %v", err)
	}
	if len(listed) != len(attempts) {
		t.Fatalf("ListAttempts() returned %d, want %d", len(listed), len(attempts))
	}
	for i := range attempts {
		if listed[i] != attempts[i] {
			t.Errorf("attempt[%d] = %+v, want %+v", i, listed[i], attempts[i])
		}
	}
}

func TestRecordAttempt_UnknownRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.RecordAttempt(FetchAttempt{RunID: "missing", AssetDir: "a", Identifier: "x", URL: "u", Attempt: 1})
	if err == nil {
		t.Error("RecordAttempt() error = nil, want foreign key violation")
	}
}

func TestInterruptRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.StartRun("run-2"); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	summary := models.LocalizeSummary{Posts: 2, Downloaded: 3, Cached: 1}
	if err := db.InterruptRun("run-2", summary); err != nil {
		t.Fatalf("InterruptRun() error = %v", err)
	}

	r, err := db.GetRun("run-2")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if r.FinishedAt != nil {
		t.Errorf("FinishedAt = %v, want nil for an interrupted run", r.FinishedAt)
	}
	if r.Posts != 2 || r.Downloaded != 3 || r.Cached != 1 {
		t.Errorf("run = %+v, want counts of the interrupted run", r)
	}
}
