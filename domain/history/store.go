package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soocke/training-overlay/domain/scoring"
)

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	at_ms         INTEGER NOT NULL,
	stat          TEXT    NOT NULL,
	value         REAL    NOT NULL,
	normal        INTEGER NOT NULL,
	director      INTEGER NOT NULL,
	etsuko        INTEGER NOT NULL,
	hint          INTEGER NOT NULL,
	notfull       INTEGER NOT NULL,
	rainbow       INTEGER NOT NULL,
	names         TEXT    NOT NULL,
	snapshot      TEXT    NOT NULL DEFAULT '',
	duration_ms   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cycles_stat ON cycles(stat, at_ms);
`

// Entry is one completed detection cycle.
type Entry struct {
	ID           int64
	At           time.Time
	Breakdown    scoring.Breakdown
	DisplayNames []string
	SnapshotPath string
	Duration     time.Duration
}

// Store appends detection cycles to a SQLite database.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the history database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping history: %w", err)
	}
	// single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Append stores e and returns its row id.
func (s *Store) Append(ctx context.Context, e Entry) (int64, error) {
	names, err := json.Marshal(nonNil(e.DisplayNames))
	if err != nil {
		return 0, fmt.Errorf("failed to encode names: %w", err)
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	b := e.Breakdown
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO cycles (at_ms, stat, value, normal, director, etsuko, hint, notfull, rainbow, names, snapshot, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, at.UnixMilli(), b.Stat, b.Value, b.Normal, b.Director, b.Etsuko, b.Hint, b.NotFull, b.Rainbow,
		string(names), e.SnapshotPath, e.Duration.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("failed to append cycle: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit cycles, newest first. An empty stat matches all stats.
func (s *Store) Recent(ctx context.Context, stat string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, at_ms, stat, value, normal, director, etsuko, hint, notfull, rainbow, names, snapshot, duration_ms
		FROM cycles
		WHERE (? = '' OR stat = ?)
		ORDER BY id DESC
		LIMIT ?
	`, stat, stat, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycles: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e           Entry
			atMs, durMs int64
			names       string
		)
		b := &e.Breakdown
		if err := rows.Scan(&e.ID, &atMs, &b.Stat, &b.Value, &b.Normal, &b.Director, &b.Etsuko,
			&b.Hint, &b.NotFull, &b.Rainbow, &names, &e.SnapshotPath, &durMs); err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		if err := json.Unmarshal([]byte(names), &e.DisplayNames); err != nil {
			return nil, fmt.Errorf("failed to decode names for cycle %d: %w", e.ID, err)
		}
		e.At = time.UnixMilli(atMs)
		e.Duration = time.Duration(durMs) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

// Best returns the highest value recorded for stat, or false when none exists.
func (s *Store) Best(ctx context.Context, stat string) (float64, bool, error) {
	var v sql.NullFloat64
	err := s.conn.QueryRowContext(ctx, `SELECT MAX(value) FROM cycles WHERE stat = ?`, stat).Scan(&v)
	if err != nil {
		return 0, false, fmt.Errorf("failed to query best value: %w", err)
	}
	return v.Float64, v.Valid, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
