// internal/game/engine.go
//
// Practice game: the server holds a secret and scores guesses with the solver's
// feedback rules, so players can rehearse against the same feedback they enter
// into the assistant.
// Responsibilities:
//   - Create games with a random (or fixed, for tests) valid secret.
//   - Validate and score guesses.
//   - Track state transitions: playing → won/lost.
//   - Offer a hint computed from the game's own history.

package game

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/google/uuid"

	"github.com/robalobadob/codebreaker/internal/solver"
)

// DefaultRows is the guess limit when none is configured.
const DefaultRows = 8

var (
	ErrFinished = errors.New("game finished")
)

// New constructs a new game instance.
// If withSecret is empty, a random secret is drawn from universe.
func New(universe []solver.Code, withSecret string, rows int) (*Game, error) {
	if rows <= 0 {
		rows = DefaultRows
	}
	var secret solver.Code
	if withSecret != "" {
		c, err := solver.ParseCode(withSecret)
		if err != nil {
			return nil, err
		}
		secret = c
	} else {
		if len(universe) == 0 {
			return nil, errors.New("empty universe")
		}
		secret = universe[randomIndex(len(universe))]
	}
	return &Game{
		ID:      uuid.NewString(),
		Secret:  secret,
		Rows:    rows,
		History: solver.History{},
	}, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns the feedback, the new state, or an error.
//
// State transitions:
//   - Feedback "1111" → Finished = true, Won = true.
//   - Else if the number of guesses reaches g.Rows → Finished = true (loss).
func (g *Game) ApplyGuess(guess string) (solver.Feedback, State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Finished {
		return solver.Feedback{}, g.state(), ErrFinished
	}
	c, err := solver.ParseCode(guess)
	if err != nil {
		return solver.Feedback{}, g.state(), err
	}

	fb := solver.Score(c, g.Secret)
	g.History = append(g.History, solver.Entry{Guess: c, Feedback: fb})

	if fb.Solved() {
		g.Finished, g.Won = true, true
	} else if len(g.History) >= g.Rows {
		g.Finished = true
	}
	return fb, g.state(), nil
}

// Hint runs the solver over a snapshot of the game's history. The secret is not consulted.
func (g *Game) Hint(e *solver.Engine) solver.Result {
	return e.NextGuess(g.Rounds())
}

// Rounds returns a copy of the scored guesses.
func (g *Game) Rounds() solver.History {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append(solver.History{}, g.History...)
}

// Moves is the number of guesses made so far.
func (g *Game) Moves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.History)
}

// State reports the current game state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
