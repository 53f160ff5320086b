// Package state provides SQLite-based persistence for verification
// sessions. Each milestone's session records its iterations and per-claim
// outcomes so the status command can show verification history.
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ShayCichocki/attest/internal/loop"
	"github.com/ShayCichocki/attest/pkg/models"
)

// DB wraps an SQLite database connection with session operations.
type DB struct {
	conn *sql.DB
	path string
}

// ProjectDBPath returns the path to the project-local database.
func ProjectDBPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".attest", "state.db")
}

// Open opens an SQLite database at the given path, creating parent
// directories and the schema if needed. WAL mode is enabled for
// concurrent reads; sessions for different milestones may run at once.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		milestone   TEXT NOT NULL,
		scope       TEXT NOT NULL,
		state       TEXT NOT NULL,
		verdict     TEXT,
		started_at  TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS iterations (
		session_id      TEXT NOT NULL REFERENCES sessions(id),
		n               INTEGER NOT NULL,
		blocking        TEXT NOT NULL,
		verdict         TEXT,
		authoring_error TEXT,
		outcomes        TEXT,
		PRIMARY KEY (session_id, n)
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_milestone ON sessions(milestone);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Session is a persisted verification session.
type Session struct {
	ID         string
	Milestone  string
	Scope      string
	State      loop.State
	Verdict    models.Verdict
	StartedAt  time.Time
	FinishedAt *time.Time
}

// CreateSession records a new running session and returns its id.
func (db *DB) CreateSession(milestone, scope string) (string, error) {
	id := uuid.New().String()
	_, err := db.conn.Exec(
		`INSERT INTO sessions (id, milestone, scope, state, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, milestone, scope, string(loop.StateRunning), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// RecordIteration persists one iteration of a session.
func (db *DB) RecordIteration(sessionID string, rec loop.IterationRecord) error {
	outcomes, err := json.Marshal(rec.Outcomes)
	if err != nil {
		return fmt.Errorf("marshal outcomes: %w", err)
	}

	blocking := make([]string, len(rec.Blocking))
	for i, s := range rec.Blocking {
		blocking[i] = string(s)
	}

	_, err = db.conn.Exec(
		`INSERT INTO iterations (session_id, n, blocking, verdict, authoring_error, outcomes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, rec.N, strings.Join(blocking, ","), string(rec.Verdict), rec.AuthoringError, string(outcomes),
	)
	if err != nil {
		return fmt.Errorf("record iteration: %w", err)
	}
	return nil
}

// FinishSession marks a session terminal with its final state and verdict.
func (db *DB) FinishSession(sessionID string, state loop.State, verdict models.Verdict) error {
	res, err := db.conn.Exec(
		`UPDATE sessions SET state = ?, verdict = ?, finished_at = ? WHERE id = ?`,
		string(state), string(verdict), time.Now().UTC(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("finish session: unknown session %s", sessionID)
	}
	return nil
}

// ListSessions returns sessions newest-first, optionally filtered by
// milestone (empty string means all).
func (db *DB) ListSessions(milestone string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, milestone, scope, state, COALESCE(verdict, ''), started_at, finished_at
	          FROM sessions`
	args := []interface{}{}
	if milestone != "" {
		query += ` WHERE milestone = ?`
		args = append(args, milestone)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var state, verdict string
		var finished sql.NullTime
		if err := rows.Scan(&s.ID, &s.Milestone, &s.Scope, &state, &verdict, &s.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.State = loop.State(state)
		s.Verdict = models.Verdict(verdict)
		if finished.Valid {
			t := finished.Time
			s.FinishedAt = &t
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Iterations returns the recorded iterations of a session in order.
func (db *DB) Iterations(sessionID string) ([]loop.IterationRecord, error) {
	rows, err := db.conn.Query(
		`SELECT n, blocking, COALESCE(verdict, ''), COALESCE(authoring_error, ''), outcomes
		 FROM iterations WHERE session_id = ? ORDER BY n`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load iterations: %w", err)
	}
	defer rows.Close()

	var records []loop.IterationRecord
	for rows.Next() {
		var rec loop.IterationRecord
		var blocking, verdict, outcomes string
		if err := rows.Scan(&rec.N, &blocking, &verdict, &rec.AuthoringError, &outcomes); err != nil {
			return nil, fmt.Errorf("scan iteration: %w", err)
		}
		rec.Verdict = models.Verdict(verdict)
		for _, s := range strings.Split(blocking, ",") {
			if s != "" {
				rec.Blocking = append(rec.Blocking, models.Severity(s))
			}
		}
		if outcomes != "" {
			if err := json.Unmarshal([]byte(outcomes), &rec.Outcomes); err != nil {
				return nil, fmt.Errorf("unmarshal outcomes: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
