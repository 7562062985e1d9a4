package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id         TEXT PRIMARY KEY,
  started_at TEXT,          -- RFC3339
  source     TEXT,
  currency   TEXT,
  as_of      TEXT,
  version    TEXT,
  run_json   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
  run_id       TEXT NOT NULL,
  use_case     TEXT NOT NULL,
  category     TEXT,
  healthy      INTEGER,
  leakage      INTEGER,
  excluded     INTEGER,
  total_impact TEXT,        -- decimal string, exact
  revenue      TEXT,
  PRIMARY KEY (run_id, use_case),
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_category ON results(category);

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
  use_case   TEXT NOT NULL,
  record_id  TEXT,              -- optional exact match; NULL = any
  note_sub   TEXT,              -- optional substring to match the outcome note
  reason     TEXT NOT NULL,
  expires_at TEXT NOT NULL,     -- RFC3339Nano
  created_by TEXT NOT NULL,
  created_at TEXT NOT NULL,
  revoked_at TEXT               -- NULL = active
);
`)
	return err
}

// SaveRun upserts a run JSON and (re)writes its per-use-case rows.
func (db *DB) SaveRun(run *report.Run) error {
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
		`INSERT INTO runs (id, started_at, source, currency, as_of, version, run_json)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, source=excluded.source,
           currency=excluded.currency, as_of=excluded.as_of, version=excluded.version, run_json=excluded.run_json`,
		run.ID, ts, run.Source, run.Currency, run.AsOf.UTC().Format("2006-01-02"), run.Version, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM results WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Results) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO results
			(run_id, use_case, category, healthy, leakage, excluded, total_impact, revenue)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range run.Results {
			if _, err := stmt.Exec(
				run.ID,
				r.UseCase,
				r.Category,
				r.Healthy,
				r.Leakage,
				r.Excluded,
				r.TotalImpact.String(),
				r.Revenue.String(),
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full run (from stored JSON).
func (db *DB) LoadRun(id string) (report.Run, error) {
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return report.Run{}, err
	}
	var run report.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return report.Run{}, err
	}
	return run, nil
}

// LoadLatestRun returns the most recently started run.
func (db *DB) LoadLatestRun() (report.Run, error) {
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	if err := row.Scan(&s); err != nil {
		return report.Run{}, err
	}
	var run report.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return report.Run{}, err
	}
	return run, nil
}
