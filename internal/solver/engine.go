// internal/solver/engine.go
//
// Solver engine: history in, (next guess, remaining candidates) out.
// Responsibilities:
//   - Own the candidate universe (computed once in New, read-only afterwards).
//   - Filter the universe by history on every call.
//   - Prefer the precomputed table for the opening moves, fall back to minimax.
//   - Validate guess/feedback text before it becomes history.
//
// An Engine is safe for concurrent use: NextGuess only reads shared state.

package solver

import (
	"errors"

	"github.com/rs/zerolog"
)

// Source records where a suggestion came from.
type Source string

const (
	SourceNone    Source = "none"    // no consistent secret
	SourceSolved  Source = "solved"  // exactly one candidate left
	SourceTable   Source = "table"   // precomputed table hit
	SourceMinimax Source = "minimax" // live minimax search
)

// Status is the caller-facing classification of a Result.
type Status string

const (
	StatusContradiction Status = "contradiction"
	StatusSolved        Status = "solved"
	StatusOpen          Status = "open"
)

// Result is the outcome of one NextGuess call.
type Result struct {
	Guess      Code   // valid only when Found
	Found      bool   // false iff Candidates is empty
	Source     Source // how Guess was chosen
	Candidates []Code // consistent secrets, universe order
}

// Status classifies r by the number of remaining candidates.
func (r Result) Status() Status {
	switch len(r.Candidates) {
	case 0:
		return StatusContradiction
	case 1:
		return StatusSolved
	}
	return StatusOpen
}

// Engine bundles the universe and an optional table.
type Engine struct {
	universe []Code
	table    *Table
	log      zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable installs a precomputed table. nil means no table.
func WithTable(t *Table) Option { return func(e *Engine) { e.table = t } }

// WithLogger sets the logger used for debug tracing.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// New builds an Engine. The universe is enumerated here, once.
func New(opts ...Option) *Engine {
	e := &Engine{universe: NewUniverse(), log: zerolog.Nop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Universe returns a copy of every valid code.
func (e *Engine) Universe() []Code { return append([]Code(nil), e.universe...) }

// Table returns the installed table, or nil.
func (e *Engine) Table() *Table { return e.table }

// Candidates filters the universe by history.
func (e *Engine) Candidates(history History) []Code { return Filter(e.universe, history) }

// NextGuess suggests the next guess for history.
func (e *Engine) NextGuess(history History) Result {
	candidates := Filter(e.universe, history)

	switch len(candidates) {
	case 0:
		e.log.Debug().Int("moves", len(history)).Msg("no consistent secret")
		return Result{Source: SourceNone, Candidates: candidates}
	case 1:
		return Result{Guess: candidates[0], Found: true, Source: SourceSolved, Candidates: candidates}
	}

	if g, ok := e.table.Lookup(len(history), history); ok {
		e.log.Debug().Str("guess", g.String()).Int("remaining", len(candidates)).Msg("table hit")
		return Result{Guess: g, Found: true, Source: SourceTable, Candidates: candidates}
	}

	g, _ := Select(candidates)
	e.log.Debug().Str("guess", g.String()).Int("remaining", len(candidates)).Msg("minimax")
	return Result{Guess: g, Found: true, Source: SourceMinimax, Candidates: candidates}
}

// ParseEntry validates one round of text input and converts it.
func (e *Engine) ParseEntry(guess, feedback string) (Entry, error) {
	g, err := ParseCode(guess)
	if err != nil {
		return Entry{}, err
	}
	f, err := ParseFeedback(feedback)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Guess: g, Feedback: f}, nil
}

// Validate reports whether guess/feedback text may be added to a history.
func (e *Engine) Validate(guess, feedback string) bool {
	_, err := e.ParseEntry(guess, feedback)
	return err == nil
}

// IsInvalidInput reports whether err came from boundary validation.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }
