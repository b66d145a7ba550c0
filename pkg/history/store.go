package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run kinds recorded in the audit trail.
const (
	KindGenerate = "generate"
	KindVerify   = "verify"
	KindValidate = "validate"
)

// Run is one recorded tool invocation.
type Run struct {
	ID                 string
	Kind               string
	StartedAt          time.Time
	FinishedAt         time.Time
	Root               string
	RepositoryRevision int
	OK                 bool
	RepositoryChecksum string
	FilesTotal         int
	FilesPassed        int
	FilesFailed        int
	FilesMissing       int
	FilesExtra         int
	Errors             int
	Warnings           int
	ChangedPaths       []string
	MissingPaths       []string
	ExtraPaths         []string
}

// Query filters ListRuns and CountRuns.
type Query struct {
	Kind      string
	OnlyBad   bool
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}

// Config contains configuration for the history store.
type Config struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:         "data/history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// Store is the SQLite-backed run history.
type Store struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// NewStore opens (or creates) the history database and applies the
// schema.
func NewStore(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	logger := slog.Default().With("component", "history")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &Store{db: db, config: config, logger: logger}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("history store opened",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *Store) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}

	return nil
}

// RecordRun persists one run. A missing ID is filled in with a fresh
// UUID, which is also returned.
func (s *Store) RecordRun(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	changed, _ := json.Marshal(run.ChangedPaths)
	missing, _ := json.Marshal(run.MissingPaths)
	extra, _ := json.Marshal(run.ExtraPaths)

	query := `
		INSERT INTO runs (
			id, kind, started_at, finished_at, root, repository_revision,
			ok, repository_checksum,
			files_total, files_passed, files_failed, files_missing, files_extra,
			errors, warnings,
			changed_paths, missing_paths, extra_paths
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Kind, run.StartedAt, run.FinishedAt, run.Root, run.RepositoryRevision,
		run.OK, run.RepositoryChecksum,
		run.FilesTotal, run.FilesPassed, run.FilesFailed, run.FilesMissing, run.FilesExtra,
		run.Errors, run.Warnings,
		string(changed), string(missing), string(extra),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Debug("run recorded", "id", run.ID, "kind", run.Kind, "ok", run.OK)
	return run.ID, nil
}

// ListRuns retrieves runs matching the query, newest first.
func (s *Store) ListRuns(ctx context.Context, query *Query) ([]*Run, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT * FROM runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY started_at DESC"

	limit := 100
	if query != nil && query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query != nil && query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// CountRuns returns the number of runs matching the query.
func (s *Store) CountRuns(ctx context.Context, query *Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// PruneBefore deletes runs started before cutoff and returns the
// number of rows removed.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	if count > 0 {
		s.logger.Info("pruned run history", "deleted", count, "cutoff", cutoff)
	}
	return count, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close history database: %w", err)
	}
	s.logger.Info("history store closed")
	return nil
}

func buildWhereClause(query *Query) (string, []interface{}) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []interface{}

	if query.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, query.Kind)
	}
	if query.OnlyBad {
		conditions = append(conditions, "ok = 0")
	}
	if query.StartTime != nil {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, *query.StartTime)
	}
	if query.EndTime != nil {
		conditions = append(conditions, "started_at <= ?")
		args = append(args, *query.EndTime)
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}
	return whereClause, args
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var run Run
	var changed, missing, extra string

	err := rows.Scan(
		&run.ID, &run.Kind, &run.StartedAt, &run.FinishedAt, &run.Root, &run.RepositoryRevision,
		&run.OK, &run.RepositoryChecksum,
		&run.FilesTotal, &run.FilesPassed, &run.FilesFailed, &run.FilesMissing, &run.FilesExtra,
		&run.Errors, &run.Warnings,
		&changed, &missing, &extra,
	)
	if err != nil {
		return nil, err
	}

	if changed != "" {
		json.Unmarshal([]byte(changed), &run.ChangedPaths)
	}
	if missing != "" {
		json.Unmarshal([]byte(missing), &run.MissingPaths)
	}
	if extra != "" {
		json.Unmarshal([]byte(extra), &run.ExtraPaths)
	}

	return &run, nil
}
