package solver

import "fmt"

// Score computes the feedback for guess against secret.
//
// Pass 1:
//   - Count positional matches as full and consume both positions.
//
// Pass 2:
//   - For each digit, add min(remaining count in guess, remaining count in secret).
//
// The counts are symmetric: Score(a, b) and Score(b, a) always agree.
func Score(guess, secret Code) Feedback {
	var fb Feedback
	var g, s [Alphabet]uint8

	for i := 0; i < Length; i++ {
		if guess[i] == secret[i] {
			fb.Full++
			continue
		}
		g[guess[i]]++
		s[secret[i]]++
	}

	for d := 0; d < Alphabet; d++ {
		fb.Partial += min(g[d], s[d])
	}
	return fb
}

// ScoreText scores two textual codes.
// Returns ErrLengthMismatch when the lengths differ and ErrInvalidInput when either
// side is not a valid code.
func ScoreText(guess, secret string) (Feedback, error) {
	if len(guess) != len(secret) {
		return Feedback{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(guess), len(secret))
	}
	g, err := ParseCode(guess)
	if err != nil {
		return Feedback{}, fmt.Errorf("guess: %w", err)
	}
	s, err := ParseCode(secret)
	if err != nil {
		return Feedback{}, fmt.Errorf("secret: %w", err)
	}
	return Score(g, s), nil
}
