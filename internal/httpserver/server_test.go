package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/codebreaker/assets"
	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/database"
	"github.com/robalobadob/codebreaker/internal/solver"
)

type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func testConfig() Config {
	return Config{
		ListThreshold:  15,
		MaxGuesses:     8,
		JWTSecret:      "test_secret",
		JWTExpiresDays: 1,
		CookieName:     "codebreaker_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "test_salt",
	}
}

func newTestServer(t *testing.T, opts ...solver.Option) (*Server, *testClient) {
	t.Helper()
	db, err := database.Open(database.DriverPure, filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	srv := New(testConfig(), solver.New(opts...), db)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, newClient(t, ts.URL)
}

// newClient returns a client with its own cookie jar, i.e. a separate visitor.
func newClient(t *testing.T, base string) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testClient{t: t, base: base, http: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes the response into out (if non-nil).
func (c *testClient) do(method, path string, body, out any) int {
	c.t.Helper()
	var rd bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&rd).Encode(body); err != nil {
			c.t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &rd)
	if err != nil {
		c.t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res.StatusCode
}

// postRaw sends body verbatim, for malformed-JSON cases.
func (c *testClient) postRaw(path, body string) int {
	c.t.Helper()
	res, err := c.http.Post(c.base+path, "application/json", strings.NewReader(body))
	if err != nil {
		c.t.Fatalf("POST %s: %v", path, err)
	}
	res.Body.Close()
	return res.StatusCode
}

func entries(pairs ...string) []entryDTO {
	out := make([]entryDTO, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, entryDTO{Guess: pairs[i], Feedback: pairs[i+1]})
	}
	return out
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t)
	var body map[string]bool
	if code := c.do(http.MethodGet, "/health", nil, &body); code != http.StatusOK || !body["ok"] {
		t.Fatalf("health: %d %v", code, body)
	}
}

func TestDebugSolver(t *testing.T) {
	_, c := newTestServer(t)
	var body map[string]any
	c.do(http.MethodGet, "/debug/solver", nil, &body)
	if body["universe"] != float64(1170) || body["tableLoaded"] != false {
		t.Fatalf("debug: %v", body)
	}
}

func TestSolve(t *testing.T) {
	_, c := newTestServer(t)

	var open solveRes
	if code := c.do(http.MethodPost, "/solve", solveReq{History: entries("0123", "0000")}, &open); code != http.StatusOK {
		t.Fatalf("solve: status %d", code)
	}
	if open.Status != solver.StatusOpen || open.NextGuess != "4455" || open.Remaining != 6 {
		t.Fatalf("solve: %+v", open)
	}
	if got := strings.Join(open.Candidates, " "); got != "4455 4545 4554 5445 5454 5544" {
		t.Fatalf("candidates = %s", got)
	}

	var solved solveRes
	c.do(http.MethodPost, "/solve", solveReq{History: entries("0123", "0000", "4545", "2222")}, &solved)
	if solved.Status != solver.StatusSolved || solved.NextGuess != "5454" || solved.Message != "answer found: 5454" {
		t.Fatalf("solved: %+v", solved)
	}

	var bad solveRes
	c.do(http.MethodPost, "/solve", solveReq{History: entries("0123", "1111", "0123", "0000")}, &bad)
	if bad.Status != solver.StatusContradiction || bad.NextGuess != "" || bad.Remaining != 0 {
		t.Fatalf("contradiction: %+v", bad)
	}

	var wide solveRes
	c.do(http.MethodPost, "/solve", solveReq{}, &wide)
	if wide.Remaining != 1170 || wide.Candidates != nil || wide.Source != solver.SourceMinimax {
		t.Fatalf("empty history: remaining %d, %d candidates, source %s", wide.Remaining, len(wide.Candidates), wide.Source)
	}
}

func TestSolveRejectsInvalidInput(t *testing.T) {
	_, c := newTestServer(t)
	var body map[string]string
	code := c.do(http.MethodPost, "/solve", solveReq{History: entries("0123", "0000", "0003", "0000")}, &body)
	if code != http.StatusBadRequest || body["error"] != "invalid_input" || !strings.HasPrefix(body["detail"], "entry 1:") {
		t.Fatalf("invalid: %d %v", code, body)
	}
}

func TestSolveUsesTable(t *testing.T) {
	table := solver.New().BuildTable(solver.DefaultOpener, nil)
	_, c := newTestServer(t, solver.WithTable(table))

	var res solveRes
	c.do(http.MethodPost, "/solve", solveReq{}, &res)
	if res.NextGuess != "0123" || res.Source != solver.SourceTable {
		t.Fatalf("opener: %+v", res)
	}
}

func TestValidateAndScore(t *testing.T) {
	_, c := newTestServer(t)

	cases := []struct {
		guess, feedback string
		valid           bool
	}{
		{"0123", "1200", true},
		{"0011", "2211", true},
		{"0003", "0000", false},
		{"0123", "0300", false},
		{"012", "0000", false},
	}
	for _, tc := range cases {
		var res validateRes
		c.do(http.MethodPost, "/validate", entryDTO{Guess: tc.guess, Feedback: tc.feedback}, &res)
		if res.Valid != tc.valid {
			t.Errorf("validate(%s, %s) = %v, want %v", tc.guess, tc.feedback, res.Valid, tc.valid)
		}
	}

	var score map[string]string
	c.do(http.MethodPost, "/score", scoreReq{Guess: "0123", Secret: "3210"}, &score)
	if score["feedback"] != "2222" {
		t.Fatalf("score = %v", score)
	}
	if code := c.do(http.MethodPost, "/score", scoreReq{Guess: "0123", Secret: "321"}, nil); code != http.StatusBadRequest {
		t.Fatalf("short secret: status %d", code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	_, c := newTestServer(t)

	var sess sessionRes
	if code := c.do(http.MethodPost, "/sessions", nil, &sess); code != http.StatusCreated || sess.SessionID == "" {
		t.Fatalf("create: %d %+v", code, sess)
	}
	base := "/sessions/" + sess.SessionID

	if code := c.do(http.MethodPost, base+"/solve", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("solve empty: status %d", code)
	}

	var errBody map[string]string
	if code := c.do(http.MethodPost, base+"/entries", entryDTO{Guess: "0003", Feedback: "0000"}, &errBody); code != http.StatusBadRequest {
		t.Fatalf("add invalid: status %d", code)
	}

	for _, e := range entries("0123", "1111", "0123", "0000") {
		c.do(http.MethodPost, base+"/entries", e, &sess)
	}
	if len(sess.Entries) != 2 {
		t.Fatalf("entries = %+v", sess.Entries)
	}

	var res solveRes
	c.do(http.MethodPost, base+"/solve", nil, &res)
	if res.Status != solver.StatusContradiction {
		t.Fatalf("solve contradiction: %+v", res)
	}

	c.do(http.MethodDelete, base+"/entries/0", nil, &sess)
	if len(sess.Entries) != 1 || sess.Entries[0].Feedback != "0000" {
		t.Fatalf("after delete: %+v", sess.Entries)
	}
	c.do(http.MethodPost, base+"/solve", nil, &res)
	if res.NextGuess != "4455" || res.Remaining != 6 {
		t.Fatalf("solve: %+v", res)
	}

	if code := c.do(http.MethodDelete, base+"/entries/5", nil, nil); code != http.StatusNotFound {
		t.Fatalf("delete out of range: status %d", code)
	}
	c.do(http.MethodDelete, base+"/entries", nil, &sess)
	if len(sess.Entries) != 0 {
		t.Fatalf("after clear: %+v", sess.Entries)
	}

	// Another visitor cannot see the session.
	other := newClient(t, c.base)
	if code := other.do(http.MethodGet, base, nil, nil); code != http.StatusNotFound {
		t.Fatalf("foreign session: status %d", code)
	}

	if code := c.do(http.MethodDelete, base, nil, nil); code != http.StatusOK {
		t.Fatalf("drop session: status %d", code)
	}
	if code := c.do(http.MethodGet, base, nil, nil); code != http.StatusNotFound {
		t.Fatalf("dropped session still served: status %d", code)
	}

	var stats map[string]map[string]int
	c.do(http.MethodGet, "/stats/solver", nil, &stats)
	if stats["bySource"]["none"] != 1 || stats["bySource"]["minimax"] != 1 {
		t.Fatalf("solver stats = %v", stats)
	}
}

func TestPracticeGame(t *testing.T) {
	_, c := newTestServer(t)

	var g newGameRes
	c.do(http.MethodPost, "/game/new", newGameReq{Secret: "5454"}, &g)
	if g.GameID == "" || g.MaxGuesses != 8 {
		t.Fatalf("new game: %+v", g)
	}

	var gr guessRes
	c.do(http.MethodPost, "/game/guess", guessReq{GameID: g.GameID, Guess: "0123"}, &gr)
	if gr.Feedback != "0000" || gr.Secret != "" {
		t.Fatalf("first guess: %+v", gr)
	}

	var hint solveRes
	c.do(http.MethodPost, "/game/hint", hintReq{GameID: g.GameID}, &hint)
	if hint.NextGuess != "4455" || hint.Remaining != 6 {
		t.Fatalf("hint: %+v", hint)
	}

	c.do(http.MethodPost, "/game/guess", guessReq{GameID: g.GameID, Guess: "5454"}, &gr)
	if gr.Feedback != "1111" || gr.State != "won" || gr.Secret != "5454" {
		t.Fatalf("winning guess: %+v", gr)
	}

	var errBody map[string]string
	c.do(http.MethodPost, "/game/guess", guessReq{GameID: g.GameID, Guess: "0123"}, &errBody)
	if errBody["error"] != "game_finished" {
		t.Fatalf("guess after win: %v", errBody)
	}

	if code := c.do(http.MethodPost, "/game/new", newGameReq{Secret: "0000"}, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid secret: status %d", code)
	}
}

func TestNewGameBody(t *testing.T) {
	_, c := newTestServer(t)

	if code := c.postRaw("/game/new", `{"secret": "5454"`); code != http.StatusBadRequest {
		t.Fatalf("truncated body: status %d", code)
	}
	if code := c.postRaw("/game/new", `{"secret": 5454}`); code != http.StatusBadRequest {
		t.Fatalf("non-string secret: status %d", code)
	}

	var g newGameRes
	if code := c.do(http.MethodPost, "/game/new", nil, &g); code != http.StatusOK || g.GameID == "" {
		t.Fatalf("empty body: status %d %+v", code, g)
	}
}

func TestAuthClaimsGuestGames(t *testing.T) {
	_, c := newTestServer(t)

	// Play as a guest first.
	var g newGameRes
	c.do(http.MethodPost, "/game/new", newGameReq{Secret: "0011"}, &g)
	c.do(http.MethodPost, "/game/guess", guessReq{GameID: g.GameID, Guess: "0011"}, nil)

	if code := c.do(http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me before signup: status %d", code)
	}

	creds := credentials{Username: "breaker", Password: "correct horse"}
	if code := c.do(http.MethodPost, "/auth/signup", creds, nil); code != http.StatusOK {
		t.Fatalf("signup: status %d", code)
	}
	if code := c.do(http.MethodPost, "/auth/signup", creds, nil); code != http.StatusConflict {
		t.Fatalf("duplicate signup: status %d", code)
	}

	var me authUser
	c.do(http.MethodGet, "/auth/me", nil, &me)
	if me.Username != "breaker" {
		t.Fatalf("me = %+v", me)
	}

	var mine []gameRow
	c.do(http.MethodGet, "/games/mine", nil, &mine)
	if len(mine) != 1 || mine[0].Status != "won" || mine[0].Guesses != 1 {
		t.Fatalf("games/mine = %+v", mine)
	}

	// A logged-in win bumps stats.
	c.do(http.MethodPost, "/game/new", newGameReq{Secret: "0011"}, &g)
	c.do(http.MethodPost, "/game/guess", guessReq{GameID: g.GameID, Guess: "0011"}, nil)
	var stats map[string]any
	c.do(http.MethodGet, "/stats/me", nil, &stats)
	if stats["gamesPlayed"] != float64(1) || stats["wins"] != float64(1) || stats["streak"] != float64(1) {
		t.Fatalf("stats = %v", stats)
	}

	c.do(http.MethodPost, "/auth/logout", nil, nil)
	if code := c.do(http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d", code)
	}

	fresh := newClient(t, c.base)
	if code := fresh.do(http.MethodPost, "/auth/login", credentials{Username: "breaker", Password: "wrong password"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d", code)
	}
	if code := fresh.do(http.MethodPost, "/auth/login", creds, nil); code != http.StatusOK {
		t.Fatalf("login: status %d", code)
	}
}

func TestDailyFlow(t *testing.T) {
	srv, c := newTestServer(t)
	_, secret := daily.Secret(time.Now().UTC(), srv.cfg.DailySalt, srv.engine.Universe())

	var first, again dailyNewRes
	c.do(http.MethodPost, "/daily/new", nil, &first)
	c.do(http.MethodPost, "/daily/new", nil, &again)
	if first.GameID == "" || first.Played || again.GameID != first.GameID {
		t.Fatalf("daily/new: %+v then %+v", first, again)
	}

	if code := c.do(http.MethodPost, "/daily/guess", guessReq{GameID: "nope", Guess: "0123"}, nil); code != http.StatusConflict {
		t.Fatalf("wrong game id: status %d", code)
	}

	var res dailyGuessRes
	c.do(http.MethodPost, "/daily/guess", guessReq{GameID: first.GameID, Guess: secret.String()}, &res)
	if res.State != "won" || res.Feedback != "1111" || res.Guesses != 1 {
		t.Fatalf("winning daily guess: %+v", res)
	}

	var after dailyNewRes
	c.do(http.MethodPost, "/daily/new", nil, &after)
	if !after.Played || after.Result == nil || !after.Result.Won || after.Result.Guesses() != 1 {
		t.Fatalf("daily/new after win: %+v", after)
	}

	// A second visitor runs out of guesses; the loss is recorded but not ranked.
	wrong := "0011"
	if secret.String() == wrong {
		wrong = "2233"
	}
	loser := newClient(t, c.base)
	var lg dailyNewRes
	loser.do(http.MethodPost, "/daily/new", nil, &lg)
	for i := 0; i < srv.cfg.MaxGuesses; i++ {
		loser.do(http.MethodPost, "/daily/guess", guessReq{GameID: lg.GameID, Guess: wrong}, &res)
	}
	if res.State != "lost" || res.Guesses != srv.cfg.MaxGuesses {
		t.Fatalf("losing daily game: %+v", res)
	}
	var lost dailyNewRes
	loser.do(http.MethodPost, "/daily/new", nil, &lost)
	if !lost.Played || lost.Result == nil || lost.Result.Won || len(lost.Result.History) != srv.cfg.MaxGuesses {
		t.Fatalf("daily/new after loss: %+v", lost)
	}

	var lb lbRes
	c.do(http.MethodGet, "/daily/leaderboard", nil, &lb)
	if lb.Date != daily.DateKey(time.Now().UTC()) || len(lb.Top) != 1 || lb.Top[0].Guesses != 1 {
		t.Fatalf("leaderboard: %+v", lb)
	}

	var sum summaryRes
	c.do(http.MethodGet, "/daily/summary", nil, &sum)
	wantPar := daily.Par(srv.engine, secret, srv.cfg.MaxGuesses)
	if sum.Players != 2 || sum.Wins != 1 || sum.AvgGuesses != 1 || sum.Par != wantPar {
		t.Fatalf("summary = %+v, want par %d", sum, wantPar)
	}
}
