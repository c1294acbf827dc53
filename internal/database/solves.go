package database

import (
	"context"
	"database/sql"
	"time"
)

// SolveRow is one recorded assistant solve.
type SolveRow struct {
	SessionID  string
	Moves      int
	Remaining  int
	Suggestion string
	Source     string
}

// SolveLog records solves for usage stats. History itself is never stored.
type SolveLog struct{ db *sql.DB }

func NewSolveLog(db *sql.DB) *SolveLog { return &SolveLog{db: db} }

func (l *SolveLog) Record(ctx context.Context, r SolveRow) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO solves (session_id, moves, remaining, suggestion, source, created_at)
		 VALUES (?,?,?,?,?,?)`,
		r.SessionID, r.Moves, r.Remaining, r.Suggestion, r.Source, time.Now().UTC().Format(time.RFC3339))
	return err
}

// CountBySource returns how many solves each suggestion source produced.
func (l *SolveLog) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT source, COUNT(1) FROM solves GROUP BY source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return nil, err
		}
		out[src] = n
	}
	return out, rows.Err()
}
