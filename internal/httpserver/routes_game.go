// internal/httpserver/routes_game.go
//
// Practice game endpoints:
//   - POST /game/new   → start a game against a hidden secret
//   - POST /game/guess → score a guess, persist progress, bump stats when finished
//   - POST /game/hint  → run the solver over the game's own history
//
// Games live in memory while being played; a row in the games table tracks
// owner, progress and outcome for /games/mine and stats.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/game"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Post("/game/hint", s.handleHint)
}

type newGameReq struct {
	Secret string `json:"secret"` // optional fixed secret (testing)
}

type newGameRes struct {
	GameID     string `json:"gameId"`
	MaxGuesses int    `json:"maxGuesses"`
}

// handleNewGame creates a new in-memory game and persists an owner row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}

	g, err := game.New(s.engine.Universe(), req.Secret, s.cfg.MaxGuesses)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if err := s.games.Save(r.Context(), g.ID, g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}

	// The secret is only written once the game is over.
	now := time.Now().UTC().Format(time.RFC3339)
	if me := userFrom(r); me != nil {
		if _, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, started_at, status, guesses)
		                     VALUES (?,?,?,?,0)`, g.ID, me.ID, now, string(game.StatePlaying)); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert user game row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		if _, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, started_at, status, guesses)
		                     VALUES (?,?,?,?,0)`, g.ID, anon, now, string(game.StatePlaying)); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert anon game row")
		}
	}

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, MaxGuesses: g.Rows})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Feedback string     `json:"feedback"`
	State    game.State `json:"state"`
	Guesses  int        `json:"guesses"`
	Secret   string     `json:"secret,omitempty"` // revealed once finished
}

// handleGuess applies a guess to an in-memory game, persists progress,
// and (if finished) updates user stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	g, err := s.games.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	fb, state, err := g.ApplyGuess(req.Guess)
	if err != nil {
		code := "invalid_input"
		if errors.Is(err, game.ErrFinished) {
			code = "game_finished"
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}
	if err := s.games.Save(r.Context(), g.ID, g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}

	s.persistProgress(w, r, g, state)

	res := guessRes{Feedback: fb.String(), State: state, Guesses: g.Moves()}
	if state != game.StatePlaying {
		res.Secret = g.Secret.String()
	}
	writeJSON(w, http.StatusOK, res)
}

// persistProgress updates counters/outcome. Best effort: failures are logged only.
func (s *Server) persistProgress(w http.ResponseWriter, r *http.Request, g *game.Game, state game.State) {
	ctx := r.Context()
	me := userFrom(r)
	ownerClause := `anonymous_id=?`
	ownerArg := any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause = `user_id=?`
		ownerArg = any(me.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin progress tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+ownerClause, g.ID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}

	if state != game.StatePlaying {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, secret=?, finished_at=? WHERE id=? AND `+ownerClause,
			string(state), g.Secret.String(), time.Now().UTC().Format(time.RFC3339), g.ID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := bumpStats(ctx, tx, me.ID, state == game.StateWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit progress")
	}
}

type hintReq struct {
	GameID string `json:"gameId"`
}

// handleHint suggests a guess using only what the player has observed.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	g, err := s.games.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, s.present(g.Hint(s.engine)))
}
