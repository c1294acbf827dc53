// internal/daily/store.go
//
// Persistence for finished daily challenges (table daily_results).
//   - One row per player and date; the first finished game wins the slot.
//   - Wins and losses are both recorded, so a lost day cannot be replayed.
//   - The scored guesses are kept as "0123 1200,4455 0000" text.
//   - Leaderboard ranks winners only; Summary aggregates the whole day.

package daily

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/codebreaker/internal/solver"
)

// ErrNotPlayed is returned by Load when the player has no result for the date.
var ErrNotPlayed = errors.New("no daily result")

// Result is one player's finished daily challenge.
type Result struct {
	UserID    string         `json:"userId"`
	Date      string         `json:"date"`
	CodeIndex int            `json:"codeIndex"`
	History   solver.History `json:"history"`
	Won       bool           `json:"won"`
	ElapsedMs int            `json:"elapsedMs"`
}

// Guesses is the number of rounds played.
func (r Result) Guesses() int { return len(r.History) }

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult respects UNIQUE(user_id, date); a second insert is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, code_index, guesses, elapsed_ms, won, history)
		 VALUES(?,?,?,?,?,?,?)`,
		r.UserID, r.Date, r.CodeIndex, r.Guesses(), r.ElapsedMs, r.Won, encodeHistory(r.History),
	)
	return err
}

// Load returns the player's recorded result for date, or ErrNotPlayed.
func (s *Store) Load(ctx context.Context, userID, date string) (Result, error) {
	r := Result{UserID: userID, Date: date}
	var history string
	err := s.db.QueryRowContext(ctx,
		`SELECT code_index, elapsed_ms, won, history FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&r.CodeIndex, &r.ElapsedMs, &r.Won, &history)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotPlayed
	}
	if err != nil {
		return Result{}, err
	}
	if r.History, err = decodeHistory(history); err != nil {
		return Result{}, fmt.Errorf("daily %s/%s: %w", userID, date, err)
	}
	return r, nil
}

type LBRow struct {
	UserID    string `json:"userId"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard lists winners by guesses, then time, then who finished first.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, guesses, elapsed_ms
		 FROM daily_results
		 WHERE date=? AND won=1
		 ORDER BY guesses ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DaySummary aggregates every recorded result of one date.
type DaySummary struct {
	Date       string  `json:"date"`
	Players    int     `json:"players"`
	Wins       int     `json:"wins"`
	AvgGuesses float64 `json:"avgGuesses"` // over wins; 0 when nobody won
}

func (s *Store) Summary(ctx context.Context, date string) (DaySummary, error) {
	sum := DaySummary{Date: date}
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(won), 0), AVG(CASE WHEN won=1 THEN guesses END)
		 FROM daily_results WHERE date=?`, date,
	).Scan(&sum.Players, &sum.Wins, &avg)
	if err != nil {
		return DaySummary{}, err
	}
	sum.AvgGuesses = avg.Float64
	return sum, nil
}

func encodeHistory(h solver.History) string {
	parts := make([]string, len(h))
	for i, e := range h {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

func decodeHistory(s string) (solver.History, error) {
	h := solver.History{}
	if s == "" {
		return h, nil
	}
	for _, part := range strings.Split(s, ",") {
		guess, fb, ok := strings.Cut(part, " ")
		if !ok {
			return nil, fmt.Errorf("bad history entry %q", part)
		}
		g, err := solver.ParseCode(guess)
		if err != nil {
			return nil, err
		}
		f, err := solver.ParseFeedback(fb)
		if err != nil {
			return nil, err
		}
		h = append(h, solver.Entry{Guess: g, Feedback: f})
	}
	return h, nil
}
