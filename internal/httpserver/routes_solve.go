// internal/httpserver/routes_solve.go
//
// Solver endpoints.
//   - POST /solve     → stateless: full history in, suggestion + candidates out
//   - POST /validate  → boundary check for one guess/feedback pair
//   - POST /score     → feedback of a guess against a known secret
//   - /sessions/*     → server-held assistant history (add / delete / clear / solve / drop)
//
// Candidate lists are only rendered when few enough remain to be useful.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/database"
	"github.com/robalobadob/codebreaker/internal/session"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/store"
)

// entryDTO is one history round as text.
type entryDTO struct {
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"`
}

// solveRes is the rendered outcome of a solve.
type solveRes struct {
	Status     solver.Status `json:"status"`
	Message    string        `json:"message"`
	NextGuess  string        `json:"nextGuess,omitempty"`
	Source     solver.Source `json:"source"`
	Remaining  int           `json:"remaining"`
	Candidates []string      `json:"candidates,omitempty"`
}

// present turns a solver.Result into the response shape.
func (s *Server) present(res solver.Result) solveRes {
	out := solveRes{Status: res.Status(), Source: res.Source, Remaining: len(res.Candidates)}
	switch out.Status {
	case solver.StatusContradiction:
		out.Message = "no consistent secret, check the entered feedback"
	case solver.StatusSolved:
		out.NextGuess = res.Guess.String()
		out.Message = "answer found: " + out.NextGuess
	default:
		out.NextGuess = res.Guess.String()
		out.Message = fmt.Sprintf("next guess %s, %d possible secrets", out.NextGuess, out.Remaining)
	}
	if out.Remaining > 0 && out.Remaining <= s.cfg.ListThreshold {
		out.Candidates = make([]string, len(res.Candidates))
		for i, c := range res.Candidates {
			out.Candidates[i] = c.String()
		}
	}
	return out
}

// parseHistory validates every round, reporting the first bad index.
func (s *Server) parseHistory(in []entryDTO) (solver.History, error) {
	h := make(solver.History, 0, len(in))
	for i, e := range in {
		entry, err := s.engine.ParseEntry(e.Guess, e.Feedback)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		h = append(h, entry)
	}
	return h, nil
}

type solveReq struct {
	History []entryDTO `json:"history"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	h, err := s.parseHistory(req.History)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.present(s.engine.NextGuess(h)))
}

type validateRes struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req entryDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if _, err := s.engine.ParseEntry(req.Guess, req.Feedback); err != nil {
		writeJSON(w, http.StatusOK, validateRes{Valid: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, validateRes{Valid: true})
}

type scoreReq struct {
	Guess  string `json:"guess"`
	Secret string `json:"secret"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	fb, err := solver.ScoreText(req.Guess, req.Secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"feedback": fb.String()})
}

// -----------------------------------------------------------------------------
// /sessions

func (s *Server) mountSessions(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/entries", s.handleAddEntry)
			r.Delete("/entries", s.handleClearEntries)
			r.Delete("/entries/{index}", s.handleRemoveEntry)
			r.Post("/solve", s.handleSolveSession)
		})
	})
}

type sessionEntry struct {
	Index    int    `json:"index"`
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"`
}

type sessionRes struct {
	SessionID string         `json:"sessionId"`
	Entries   []sessionEntry `json:"entries"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func renderSession(sess *session.Session) sessionRes {
	h := sess.History()
	out := sessionRes{SessionID: sess.ID, Entries: make([]sessionEntry, len(h)), UpdatedAt: sess.UpdatedAt()}
	for i, e := range h {
		out.Entries[i] = sessionEntry{Index: i, Guess: e.Guess.String(), Feedback: e.Feedback.String()}
	}
	return out
}

// loadSession fetches the session in the URL and checks it belongs to the caller.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || sess.Owner != s.ownerID(w, r) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Msg("load session")
		}
		writeError(w, http.StatusNotFound, "not_found", "")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.ownerID(w, r))
	if err := s.sessions.Save(r.Context(), sess.ID, sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	writeJSON(w, http.StatusCreated, renderSession(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, renderSession(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	var req entryDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if _, err := sess.Add(s.engine, req.Guess, req.Feedback); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input",
			"guess needs 4 digits 0-5 (each at most twice), feedback needs 4 digits 0-2")
		return
	}
	writeJSON(w, http.StatusOK, renderSession(sess))
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_index", "")
		return
	}
	if err := sess.Remove(idx); err != nil {
		writeError(w, http.StatusNotFound, "no_such_entry", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, renderSession(sess))
}

func (s *Server) handleClearEntries(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	sess.Clear()
	writeJSON(w, http.StatusOK, renderSession(sess))
}

func (s *Server) handleSolveSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	res, err := sess.Solve(s.engine)
	if errors.Is(err, session.ErrEmptyHistory) {
		writeError(w, http.StatusBadRequest, "empty_history", "add at least one guess first")
		return
	}
	out := s.present(res)

	row := database.SolveRow{
		SessionID:  sess.ID,
		Moves:      len(sess.History()),
		Remaining:  out.Remaining,
		Suggestion: out.NextGuess,
		Source:     string(out.Source),
	}
	if err := s.solves.Record(r.Context(), row); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("record solve")
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSolverStats reports how assistant suggestions were produced.
func (s *Server) handleSolverStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.solves.CountBySource(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bySource": counts})
}
