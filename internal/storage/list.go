package storage

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

// ListRuns returns a lightweight list of runs with use-case counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, COALESCE(r.source,''), COALESCE(r.currency,''), COALESCE(r.version,''),
		       (SELECT COUNT(1) FROM results x WHERE x.run_id = r.id) AS use_cases
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Source, &rr.Currency, &rr.Version, &rr.UseCases); err != nil {
			return nil, err
		}
		// Parse RFC3339Nano first, fallback to RFC3339
		if t, err := time.Parse(time.RFC3339Nano, startedAtStr); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAtStr); err2 == nil {
			rr.StartedAt = t2
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListResults returns the per-use-case summary rows of one run,
// optionally filtered to a single category. Outcomes are not loaded;
// callers wanting them use LoadRun.
func (db *DB) ListResults(runID, category string) ([]report.UseCaseResult, error) {
	q := `
		SELECT use_case, COALESCE(category,''), healthy, leakage, excluded,
		       COALESCE(total_impact,'0'), COALESCE(revenue,'0')
		  FROM results
		 WHERE run_id = ?`
	args := []any{runID}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY category, use_case`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.UseCaseResult
	for rows.Next() {
		var (
			r            report.UseCaseResult
			impact, revs string
		)
		if err := rows.Scan(&r.UseCase, &r.Category, &r.Healthy, &r.Leakage, &r.Excluded, &impact, &revs); err != nil {
			return nil, err
		}
		if d, err := decimal.NewFromString(impact); err == nil {
			r.TotalImpact = d
		}
		if d, err := decimal.NewFromString(revs); err == nil {
			r.Revenue = d
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Optional helper used by future endpoints.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
