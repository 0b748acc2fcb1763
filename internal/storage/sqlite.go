package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/codewithboateng/lracheck/internal/model"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("storage: not found")

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// single writer keeps WAL contention out of concurrent API handlers
	c.SetMaxOpenConns(1)
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id            TEXT PRIMARY KEY,
  started_at    TEXT,          -- RFC3339Nano
  sources       TEXT,          -- comma separated
  model_version TEXT,
  classes       INTEGER NOT NULL DEFAULT 0,
  run_json      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
  id       TEXT,
  run_id   TEXT NOT NULL,
  seq      INTEGER NOT NULL,
  code     TEXT NOT NULL,
  class    TEXT NOT NULL,
  method   TEXT,
  kind     TEXT,
  message  TEXT NOT NULL,
  PRIMARY KEY (id, run_id),
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
CREATE INDEX IF NOT EXISTS idx_findings_code ON findings(code);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);

CREATE TABLE IF NOT EXISTS waivers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code        TEXT NOT NULL,
  class       TEXT,              -- optional exact match; NULL = any
  method      TEXT,              -- optional exact match; NULL = any
  pattern_sub TEXT,              -- optional substring of the message
  reason      TEXT NOT NULL,
  expires_at  TEXT NOT NULL,     -- RFC3339Nano
  created_by  TEXT NOT NULL,
  created_at  TEXT NOT NULL,
  revoked_at  TEXT               -- NULL = active
);
`)
	return err
}

// SaveRun upserts a run JSON and (re)writes its findings.
func (db *DB) SaveRun(run *model.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, sources, model_version, classes, run_json)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, sources=excluded.sources,
           model_version=excluded.model_version, classes=excluded.classes, run_json=excluded.run_json`,
		run.ID, ts, strings.Join(run.Sources, ","), run.ModelVersion, len(run.Classes), string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM findings WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Findings) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO findings (id, run_id, seq, code, class, method, kind, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, f := range run.Findings {
			if _, err := stmt.Exec(
				f.ID, run.ID, i, string(f.Code), string(f.Class), f.Method, string(f.Kind), f.Message,
			); err != nil {
				return fmt.Errorf("finding %s: %w", f.ID, err)
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full run (from stored JSON).
func (db *DB) LoadRun(id string) (model.Run, error) {
	return db.loadRun(db.conn.QueryRow(`SELECT run_json FROM runs WHERE id = ?`, id))
}

// LoadLatestRun returns the most recently started run.
func (db *DB) LoadLatestRun() (model.Run, error) {
	return db.loadRun(db.conn.QueryRow(`SELECT run_json FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`))
}

func (db *DB) loadRun(row *sql.Row) (model.Run, error) {
	var s string
	if err := row.Scan(&s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Run{}, ErrNotFound
		}
		return model.Run{}, err
	}
	var run model.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return model.Run{}, err
	}
	return run, nil
}
