package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Asset manifests: one row per downloaded asset, scoped by asset directory
CREATE TABLE IF NOT EXISTS manifest_entries (
    entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
    asset_dir TEXT NOT NULL,
    identifier TEXT NOT NULL,
    filename TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(asset_dir, identifier)
);

CREATE INDEX IF NOT EXISTS idx_manifest_dir ON manifest_entries(asset_dir);

-- Localize runs
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    posts INTEGER DEFAULT 0,
    downloaded INTEGER DEFAULT 0,
    cached INTEGER DEFAULT 0,
    failed INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Fetch attempts: every GET issued by a run, including rate-limited retries
CREATE TABLE IF NOT EXISTS fetch_attempts (
    attempt_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    asset_dir TEXT NOT NULL,
    identifier TEXT NOT NULL,
    url TEXT NOT NULL,
    attempt INTEGER NOT NULL,
    status_code INTEGER,
    error_type TEXT,
    success BOOLEAN NOT NULL,
    size_bytes INTEGER DEFAULT 0,
    accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_attempts_run ON fetch_attempts(run_id);
CREATE INDEX IF NOT EXISTS idx_attempts_identifier ON fetch_attempts(asset_dir, identifier);
`
