package storage

import (
	"database/sql"
	"time"
)

// Ignore is a persistent suppression record: matching issues are dropped
// from reports until the record expires or is revoked.
type Ignore struct {
	ID         int64      `json:"id"`
	RuleID     string     `json:"rule_id"`
	Line       int        `json:"line,omitempty"`
	PatternSub string     `json:"pattern_sub,omitempty"`
	Reason     string     `json:"reason"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

func (db *DB) CreateIgnore(ruleID string, line int, pattern, reason, createdBy string, expires time.Time) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := db.conn.Exec(`
INSERT INTO ignores(rule_id, line, pattern_sub, reason, expires_at, created_by, created_at)
VALUES(?,?,?,?,?,?,?)`,
		ruleID, line, nz(pattern), reason, expires.UTC().Format(time.RFC3339Nano), createdBy, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) RevokeIgnore(id int64) error {
	_, err := db.conn.Exec(`UPDATE ignores SET revoked_at=? WHERE id=? AND revoked_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}

func (db *DB) ListIgnores(activeOnly bool) ([]Ignore, error) {
	q := `
SELECT id, rule_id, COALESCE(line,0), COALESCE(pattern_sub,''),
       reason, expires_at, created_by, created_at, revoked_at
FROM ignores`
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

	var out []Ignore
	for rows.Next() {
		var (
			ig          Ignore
			exp, ca, ra sql.NullString
		)
		if err := rows.Scan(&ig.ID, &ig.RuleID, &ig.Line, &ig.PatternSub,
			&ig.Reason, &exp, &ig.CreatedBy, &ca, &ra); err != nil {
			return nil, err
		}
		if exp.Valid {
			if t, e := time.Parse(time.RFC3339Nano, exp.String); e == nil {
				ig.ExpiresAt = t
			}
		}
		if ca.Valid {
			if t, e := time.Parse(time.RFC3339Nano, ca.String); e == nil {
				ig.CreatedAt = t
			}
		}
		if ra.Valid {
			if t, e := time.Parse(time.RFC3339Nano, ra.String); e == nil {
				ig.RevokedAt = &t
			}
		}
		out = append(out, ig)
	}
	return out, rows.Err()
}

func nz(s string) any {
	if s == "" {
		return nil
	}
	return s
}
