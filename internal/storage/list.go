package storage

import (
	"database/sql"
	"time"

	"github.com/Nash0810/docktor/internal/ir"
)

// ListRuns returns a lightweight list of runs with issue counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.source, r.ir_version,
		       (SELECT COUNT(1) FROM issues i WHERE i.run_id = r.id) AS issues
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
		if err := rows.Scan(&rr.ID, &startedAt, &rr.Source, &rr.IRVersion, &rr.Issues); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAt); err2 == nil {
			rr.StartedAt = t2
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListIssues returns a run's issues at or above a minimum severity, worst
// first then by line.
func (db *DB) ListIssues(runID, minSeverity string) ([]ir.Issue, error) {
	const q = `
		SELECT id, rule_id, severity, line, message, explanation, fix_suggestion, fix_confidence
		  FROM issues
		 WHERE run_id = ?
		   AND (CASE severity WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		       >= (CASE ? WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		 ORDER BY
		       (CASE severity WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END) DESC,
		       line, rule_id, id`
	rows, err := db.conn.Query(q, runID, minSeverity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ir.Issue
	for rows.Next() {
		var issue ir.Issue
		if err := rows.Scan(&issue.ID, &issue.RuleID, &issue.Severity, &issue.Line,
			&issue.Message, &issue.Explanation, &issue.FixSuggestion, &issue.FixConfidence); err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

// HasRun reports whether a run with the given ID exists.
func (db *DB) HasRun(id string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM runs WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
