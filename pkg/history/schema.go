package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the run history schema.
const Schema = `
-- One row per tool invocation
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,

    -- Timestamps
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL,

    -- Inputs
    root TEXT NOT NULL,
    repository_revision INTEGER,

    -- Outcome
    ok BOOLEAN NOT NULL,
    repository_checksum TEXT,
    files_total INTEGER,
    files_passed INTEGER,
    files_failed INTEGER,
    files_missing INTEGER,
    files_extra INTEGER,
    errors INTEGER,
    warnings INTEGER,

    -- Drift details, JSON arrays of relative paths
    changed_paths TEXT,
    missing_paths TEXT,
    extra_paths TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_runs_ok ON runs(ok);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
