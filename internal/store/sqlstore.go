package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"popmcp/internal/launch"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// strOrNull maps "" to NULL on the way into a nullable column.
func strOrNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .popmcp) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableCount == 0 {
		// Fresh database.
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	err = s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		v = currentSchemaVersion
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", v); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
	}

	switch v {
	case currentSchemaVersion:
		return nil
	default:
		return fmt.Errorf("unknown schema version %d", v)
	}
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

// SaveLaunch inserts or replaces a launch record.
func (s *SqlStore) SaveLaunch(l *Launch) error {
	if l.ID == "" {
		return fmt.Errorf("save launch: empty id")
	}
	pids, err := json.Marshal(l.PIDs)
	if err != nil {
		return fmt.Errorf("marshal pids: %w", err)
	}
	eps, err := json.Marshal(l.Endpoints)
	if err != nil {
		return fmt.Errorf("marshal endpoints: %w", err)
	}
	started := l.StartedAt
	if started == "" {
		started = nowUTC()
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO launches(id, kind, pids, endpoints, base_dir, descriptor_path, started_at, torn_down_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, string(l.Kind), string(pids), string(eps),
		strOrNull(l.BaseDir), strOrNull(l.DescriptorPath), started, strOrNull(l.TornDownAt),
	)
	if err != nil {
		return fmt.Errorf("insert launch: %w", err)
	}
	return nil
}

// GetLaunch loads a launch by id; nil when absent.
func (s *SqlStore) GetLaunch(id string) (*Launch, error) {
	row := s.db.QueryRow(
		`SELECT id, kind, pids, endpoints, base_dir, descriptor_path, started_at, torn_down_at
		 FROM launches WHERE id = ?`, id,
	)
	l, err := scanLaunch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

// ListLaunches returns every recorded launch, oldest first.
func (s *SqlStore) ListLaunches() ([]*Launch, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, pids, endpoints, base_dir, descriptor_path, started_at, torn_down_at
		 FROM launches ORDER BY started_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer rows.Close()

	var out []*Launch
	for rows.Next() {
		l, err := scanLaunch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launches: %w", err)
	}
	return out, nil
}

// MarkTornDown stamps a launch as torn down. Stamping one that is already
// down, or gone, is fine; teardown is idempotent end to end.
func (s *SqlStore) MarkTornDown(id string) error {
	_, err := s.db.Exec(
		"UPDATE launches SET torn_down_at = ? WHERE id = ? AND torn_down_at IS NULL",
		nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark torn down: %w", err)
	}
	return nil
}

// PutSession upserts one session value.
func (s *SqlStore) PutSession(key, value string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO session(key, value, updated_at) VALUES(?, ?, ?)",
		key, value, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("put session %s: %w", key, err)
	}
	return nil
}

// GetSession reads one session value; empty when absent.
func (s *SqlStore) GetSession(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM session WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session %s: %w", key, err)
	}
	return value, nil
}

// DeleteSession removes one session value; removing an absent key is fine.
func (s *SqlStore) DeleteSession(key string) error {
	if _, err := s.db.Exec("DELETE FROM session WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLaunch(row scanner) (*Launch, error) {
	var (
		l          Launch
		kind       string
		pids, eps  string
		baseDir    sql.NullString
		descriptor sql.NullString
		tornDown   sql.NullString
	)
	err := row.Scan(&l.ID, &kind, &pids, &eps, &baseDir, &descriptor, &l.StartedAt, &tornDown)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan launch: %w", err)
	}
	l.Kind = launch.Kind(kind)
	if err := json.Unmarshal([]byte(pids), &l.PIDs); err != nil {
		return nil, fmt.Errorf("unmarshal pids: %w", err)
	}
	if err := json.Unmarshal([]byte(eps), &l.Endpoints); err != nil {
		return nil, fmt.Errorf("unmarshal endpoints: %w", err)
	}
	l.BaseDir = nullStr(baseDir)
	l.DescriptorPath = nullStr(descriptor)
	l.TornDownAt = nullStr(tornDown)
	return &l, nil
}
