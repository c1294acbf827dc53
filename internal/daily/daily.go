// internal/daily/daily.go
//
// Deterministic daily secret selection: every player gets the same code on the
// same UTC date, and the choice can't be predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/codebreaker/internal/solver"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CodeIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func CodeIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Secret picks the daily code out of universe.
func Secret(date time.Time, salt string, universe []solver.Code) (int, solver.Code) {
	if len(universe) == 0 {
		return 0, solver.Code{}
	}
	idx := CodeIndex(date, salt, len(universe))
	return idx, universe[idx]
}

// Par is how many guesses the engine needs for secret, capped at limit.
// The engine only ever sees the feedback, like a player would.
func Par(e *solver.Engine, secret solver.Code, limit int) int {
	var h solver.History
	for len(h) < limit {
		res := e.NextGuess(h)
		if !res.Found {
			break
		}
		fb := solver.Score(res.Guess, secret)
		h = append(h, solver.Entry{Guess: res.Guess, Feedback: fb})
		if fb.Solved() {
			break
		}
	}
	return len(h)
}
