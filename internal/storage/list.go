package storage

import (
	"database/sql"
	"strings"
	"time"

	"github.com/codewithboateng/lracheck/internal/model"
)

// ListRuns returns a lightweight list of runs with counts, newest first.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, COALESCE(r.sources,''), COALESCE(r.model_version,''), r.classes,
		       (SELECT COUNT(1) FROM findings f WHERE f.run_id = r.id) AS findings
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
		var startedAt string
		if err := rows.Scan(&rr.ID, &startedAt, &rr.Sources, &rr.ModelVersion, &rr.Classes, &rr.Findings); err != nil {
			return nil, err
		}
		rr.StartedAt = parseTime(startedAt)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListFindings returns findings for a run in stored order, optionally
// restricted to one error code (case-insensitive; "" = all).
func (db *DB) ListFindings(runID, code string) ([]model.Finding, error) {
	const q = `
		SELECT id, code, class, COALESCE(method,''), COALESCE(kind,''), message
		  FROM findings
		 WHERE run_id = ?
		   AND (? = '' OR code = ?)
		 ORDER BY seq`
	code = strings.ToUpper(strings.TrimSpace(code))
	rows, err := db.conn.Query(q, runID, code, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Finding
	for rows.Next() {
		var (
			f                   model.Finding
			fcode, class, kind string
		)
		if err := rows.Scan(&f.ID, &fcode, &class, &f.Method, &kind, &f.Message); err != nil {
			return nil, err
		}
		f.Code, f.Class, f.Kind = model.ErrorCode(fcode), model.TypeRef(class), model.MarkerKind(kind)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// parseTime accepts RFC3339Nano and RFC3339; anything else is the zero time.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
