// internal/httpserver/server.go
//
// HTTP server wiring for the codebreaker backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/solver".
//   - Solver endpoints: POST /solve, /validate, /score.
//   - Assistant sessions (optional auth): /sessions/*.
//   - Practice game (optional auth): POST /game/new, /game/guess, /game/hint.
//   - Daily Challenge (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - One solver.Engine is shared by every handler; it is read-only after construction.
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes still run for guests.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/codebreaker/internal/database"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/session"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/store"
)

// Config carries the environment-derived knobs the handlers need.
type Config struct {
	ListThreshold  int    // list candidates only when this many or fewer remain
	MaxGuesses     int    // practice/daily guess limit
	JWTSecret      string // HS256 signing key
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool // Secure + SameSite=None cookies
	DailySalt      string
}

// ConfigFromEnv reads Config from the process environment with local-dev defaults.
func ConfigFromEnv() Config {
	return Config{
		ListThreshold:  envInt("SOLVER_LIST_THRESHOLD", 15),
		MaxGuesses:     envInt("GAME_MAX_GUESSES", game.DefaultRows),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "codebreaker_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("APP_ENV") == "production",
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
	}
}

// Server bundles router, solver, live stores and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      Config
	engine   *solver.Engine
	games    store.Store[*game.Game]
	sessions store.Store[*session.Session]
	db       *sql.DB
	solves   *database.SolveLog
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg Config, engine *solver.Engine, db *sql.DB) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		engine:   engine,
		games:    store.NewMemoryStore[*game.Game](),
		sessions: store.NewMemoryStore[*session.Session](),
		db:       db,
		solves:   database.NewSolveLog(db),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"codebreaker","endpoints":["/health","POST /solve","/sessions/*","POST /game/new","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/solver", s.handleDebugSolver)

	// Stateless solver endpoints
	s.r.Post("/solve", s.handleSolve)
	s.r.Post("/validate", s.handleValidate)
	s.r.Post("/score", s.handleScore)
	s.r.Get("/stats/solver", s.handleSolverStats)

	// Assistant sessions, practice game, daily: OPTIONAL AUTH
	s.mountSessions(s.r.With(s.withOptionalAuth()))
	s.mountGame(s.r.With(s.withOptionalAuth()))
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleDebugSolver reports universe size and table coverage.
func (s *Server) handleDebugSolver(w http.ResponseWriter, r *http.Request) {
	t := s.engine.Table()
	l1, l2 := t.Len()
	res := map[string]any{
		"universe":    len(s.engine.Universe()),
		"tableLoaded": t != nil,
		"layer1":      l1,
		"layer2":      l2,
		"skipped":     t.Skipped(),
	}
	if t != nil {
		res["opener"] = t.Opener().String()
	}
	writeJSON(w, http.StatusOK, res)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- small util --------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code} plus an optional detail.
func writeError(w http.ResponseWriter, status int, code string, detail string) {
	body := map[string]string{"error": code}
	if detail != "" {
		body["detail"] = detail
	}
	writeJSON(w, status, body)
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an int, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
