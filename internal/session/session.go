// internal/session/session.go
//
// Assistant sessions: the player's hand-entered history for a game played
// elsewhere. The solver itself never stores history; a Session does, and hands
// the solver a snapshot on every solve.
//
// Rules:
//   - Entries are validated before they are appended.
//   - Entries can be removed by index or cleared as a whole.
//   - Solving an empty history is refused; the caller should add a round first.

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/codebreaker/internal/solver"
)

var (
	ErrEmptyHistory = errors.New("history is empty")
	ErrIndex        = errors.New("entry index out of range")
)

// Session is safe for concurrent use.
type Session struct {
	ID        string
	Owner     string // user ID or anonymous cookie value; may be empty
	CreatedAt time.Time

	mu        sync.Mutex
	history   solver.History
	updatedAt time.Time
}

// New creates an empty session.
func New(owner string) *Session {
	now := time.Now().UTC()
	return &Session{ID: uuid.NewString(), Owner: owner, CreatedAt: now, updatedAt: now}
}

// Add validates and appends one round.
func (s *Session) Add(e *solver.Engine, guess, feedback string) (solver.Entry, error) {
	entry, err := e.ParseEntry(guess, feedback)
	if err != nil {
		return solver.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
	s.updatedAt = time.Now().UTC()
	return entry, nil
}

// Remove deletes the entry at index i.
func (s *Session) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.history) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	s.history = append(s.history[:i:i], s.history[i+1:]...)
	s.updatedAt = time.Now().UTC()
	return nil
}

// Clear drops every entry. Returns false if there was nothing to clear.
func (s *Session) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return false
	}
	s.history = nil
	s.updatedAt = time.Now().UTC()
	return true
}

// History returns a copy of the recorded rounds.
func (s *Session) History() solver.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(solver.History{}, s.history...)
}

// UpdatedAt is the time of the last change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Solve runs the engine over a snapshot of the history.
func (s *Session) Solve(e *solver.Engine) (solver.Result, error) {
	h := s.History()
	if len(h) == 0 {
		return solver.Result{}, ErrEmptyHistory
	}
	return e.NextGuess(h), nil
}
