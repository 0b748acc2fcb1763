package storage

import (
	"database/sql"
	"strings"
	"time"
)

// Waiver suppresses findings of one code, optionally narrowed to a class,
// a method and a message substring.
type Waiver struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Class      string     `json:"class,omitempty"`
	Method     string     `json:"method,omitempty"`
	PatternSub string     `json:"pattern_sub,omitempty"`
	Reason     string     `json:"reason"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

func (db *DB) CreateWaiver(code, class, method, pattern, reason, createdBy string, expires time.Time) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := db.conn.Exec(`
INSERT INTO waivers(code, class, method, pattern_sub, reason, expires_at, created_by, created_at)
VALUES(?,?,?,?,?,?,?,?)`,
		strings.ToUpper(strings.TrimSpace(code)), nz(class), nz(method), nz(pattern), reason,
		expires.UTC().Format(time.RFC3339Nano), createdBy, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RevokeWaiver marks an active waiver revoked. Revoking an unknown or
// already revoked waiver fails.
func (db *DB) RevokeWaiver(id int64) error {
	return execOne(db.conn, `UPDATE waivers SET revoked_at=? WHERE id=? AND revoked_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339Nano), id)
}

func (db *DB) ListWaivers(activeOnly bool) ([]Waiver, error) {
	q := `
SELECT id, code, COALESCE(class,''), COALESCE(method,''), COALESCE(pattern_sub,''),
       reason, expires_at, created_by, created_at, revoked_at
FROM waivers`
	args := []any{}
	if activeOnly {
		q += ` WHERE (revoked_at IS NULL) AND (expires_at > ?)`
		args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	}
	q += ` ORDER BY id DESC`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Waiver
	for rows.Next() {
		var (
			w       Waiver
			exp, ca string
			ra      sql.NullString
		)
		if err := rows.Scan(&w.ID, &w.Code, &w.Class, &w.Method, &w.PatternSub, &w.Reason, &exp, &w.CreatedBy, &ca, &ra); err != nil {
			return nil, err
		}
		w.ExpiresAt, w.CreatedAt = parseTime(exp), parseTime(ca)
		if ra.Valid {
			t := parseTime(ra.String)
			w.RevokedAt = &t
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func nz(s string) any {
	if s == "" {
		return nil
	}
	return s
}
