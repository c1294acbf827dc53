// internal/game/types.go
//
// Core type definitions for the practice game.
// Defines:
//   - State: coarse lifecycle of a game (playing/won/lost).
//   - Game:  a hidden secret plus the scored guesses made against it.

package game

import (
	"sync"

	"github.com/robalobadob/codebreaker/internal/solver"
)

// State is the coarse lifecycle of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game holds the state of a single practice session.
// Use its methods once the game is shared; they hold mu.
type Game struct {
	mu sync.Mutex


	ID       string         // Unique game identifier (UUID).
	Secret   solver.Code    // The hidden code; never sent to clients while playing.
	Rows     int            // Maximum number of guesses allowed.
	History  solver.History // Scored guesses so far, in order.
	Finished bool           // True once the game is over (won or lost).
	Won      bool           // True if the game was finished with a win.
}
