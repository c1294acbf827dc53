// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes four endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 winners for today (or a given date)
//   - GET  /daily/summary     → players, wins, average guesses and solver par
//
// Each player can play once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB when the
// game ends, win or lose.
// The daily secret is picked from the solver's universe by date + salt.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	Game      *game.Game
	UserID    string
	Date      string
	CodeIndex int
	Start     time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
		r.Get("/summary", dd.handleSummary)
	})
}

// today returns today's date key plus the daily code index and secret.
func (d *dailyServer) today() (date string, idx int, secret string) {
	now := time.Now().UTC()
	idx, c := daily.Secret(now, d.srv.cfg.DailySalt, d.srv.engine.Universe())
	return daily.DateKey(now), idx, c.String()
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID     string        `json:"gameId,omitempty"`
	Date       string        `json:"date"`
	Played     bool          `json:"played"`
	MaxGuesses int           `json:"maxGuesses,omitempty"`
	Result     *daily.Result `json:"result,omitempty"` // set once played
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.ownerID(w, r)
	date, idx, secret := d.today()

	res, err := d.store.Load(r.Context(), uid, date)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true, Result: &res})
		return
	case !errors.Is(err, daily.ErrNotPlayed):
		log.Warn().Err(err).Str("user", uid).Msg("load daily result")
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.Game.ID, Date: date, MaxGuesses: sess.Game.Rows})
		return
	}
	g, err := game.New(nil, secret, d.srv.cfg.MaxGuesses)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "daily_unavailable", "")
		return
	}
	sess := &dailySession{Game: g, UserID: uid, Date: date, CodeIndex: idx, Start: time.Now()}
	d.sessions[key] = sess
	writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID, Date: date, MaxGuesses: g.Rows})
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessRes struct {
	Feedback string     `json:"feedback,omitempty"`
	State    game.State `json:"state"`
	Guesses  int        `json:"guesses"`
}

// handleGuess validates and applies a guess for today's daily session.
// A finished game (won or lost) is persisted to daily_results.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.ownerID(w, r)

	var p guessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	date, _, _ := d.today()
	key := uid + "|" + date

	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.Game.ID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session", "")
		return
	}
	fb, state, err := sess.Game.ApplyGuess(p.Guess)
	guesses := sess.Game.Moves()
	d.mu.Unlock()

	if errors.Is(err, game.ErrFinished) {
		writeJSON(w, http.StatusOK, dailyGuessRes{State: state, Guesses: guesses})
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	if state != game.StatePlaying {
		res := daily.Result{
			UserID:    uid,
			Date:      date,
			CodeIndex: sess.CodeIndex,
			History:   sess.Game.Rounds(),
			Won:       state == game.StateWon,
			ElapsedMs: int(time.Since(sess.Start).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, dailyGuessRes{Feedback: fb.String(), State: state, Guesses: guesses})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

type summaryRes struct {
	daily.DaySummary
	Par int `json:"par"` // guesses the solver needs for today's code
}

// handleSummary aggregates today's results and the solver's par for today's code.
func (d *dailyServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	date, idx, _ := d.today()
	sum, err := d.store.Summary(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	universe := d.srv.engine.Universe()
	par := daily.Par(d.srv.engine, universe[idx], d.srv.cfg.MaxGuesses)
	writeJSON(w, http.StatusOK, summaryRes{DaySummary: sum, Par: par})
}
