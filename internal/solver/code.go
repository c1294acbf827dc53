// internal/solver/code.go
//
// Core value types for the code-breaking solver.
// Defines:
//   - Code:     a 4-position guess or candidate secret over digits 0–5.
//   - Feedback: (full, partial, wrong) counts, rendered canonically as 1*2*0*.
//   - Entry / History: one observed round and the ordered list of rounds.
//
// Text parsing lives here so every value that reaches the filter/selector
// has already passed the boundary rules.

package solver

import (
	"fmt"
	"strings"
)

const (
	Length    = 4 // positions per code
	Alphabet  = 6 // digits 0..Alphabet-1
	MaxRepeat = 2 // max occurrences of a single digit in a valid code
)

// Code holds digit values (0..Alphabet-1), not ASCII characters.
type Code [Length]uint8

// ParseCode converts "0123"-style text into a Code.
// Rejects wrong length, characters outside '0'..'5', and codes that repeat a digit
// more than MaxRepeat times.
func ParseCode(s string) (Code, error) {
	var c Code
	if len(s) != Length {
		return c, fmt.Errorf("%w: code must be %d digits, got %q", ErrInvalidInput, Length, s)
	}
	for i := 0; i < Length; i++ {
		d := s[i]
		if d < '0' || d >= '0'+Alphabet {
			return c, fmt.Errorf("%w: code digit %q out of range 0-%d", ErrInvalidInput, d, Alphabet-1)
		}
		c[i] = d - '0'
	}
	if !c.Valid() {
		return c, fmt.Errorf("%w: code %q repeats a digit more than %d times", ErrInvalidInput, s, MaxRepeat)
	}
	return c, nil
}

// MustParseCode is ParseCode for literals known to be valid.
func MustParseCode(s string) Code {
	c, err := ParseCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Valid reports whether every digit is in range and none occurs more than MaxRepeat times.
func (c Code) Valid() bool {
	var counts [Alphabet]int
	for _, d := range c {
		if int(d) >= Alphabet {
			return false
		}
		counts[d]++
		if counts[d] > MaxRepeat {
			return false
		}
	}
	return true
}

func (c Code) String() string {
	var b [Length]byte
	for i, d := range c {
		b[i] = '0' + d
	}
	return string(b[:])
}

// MarshalText lets Code travel as "0123" in JSON.
func (c Code) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Code) UnmarshalText(b []byte) error {
	parsed, err := ParseCode(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Feedback encodes only counts; positions are never reported.
type Feedback struct {
	Full    uint8 // right digit, right position
	Partial uint8 // right digit, other position
}

// Wrong is the number of unmatched positions.
func (f Feedback) Wrong() uint8 { return Length - f.Full - f.Partial }

// Solved reports whether every position matched.
func (f Feedback) Solved() bool { return f.Full == Length }

// String renders the canonical form, e.g. {1,2} -> "1220".
func (f Feedback) String() string {
	return strings.Repeat("1", int(f.Full)) +
		strings.Repeat("2", int(f.Partial)) +
		strings.Repeat("0", int(f.Wrong()))
}

// ParseFeedback reads a 4-character string over '0'..'2'.
// Only the counts matter, so "0121" and "1120" parse to the same Feedback.
func ParseFeedback(s string) (Feedback, error) {
	var f Feedback
	if len(s) != Length {
		return f, fmt.Errorf("%w: feedback must be %d characters, got %q", ErrInvalidInput, Length, s)
	}
	for i := 0; i < Length; i++ {
		switch s[i] {
		case '1':
			f.Full++
		case '2':
			f.Partial++
		case '0':
		default:
			return Feedback{}, fmt.Errorf("%w: feedback character %q out of range 0-2", ErrInvalidInput, s[i])
		}
	}
	return f, nil
}

func (f Feedback) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Feedback) UnmarshalText(b []byte) error {
	parsed, err := ParseFeedback(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// index maps a Feedback onto 0..(Length+1)^2-1 for array-backed bucket counts.
func (f Feedback) index() int { return int(f.Full)*(Length+1) + int(f.Partial) }

// feedbackBuckets is large enough to count every possible Feedback.
const feedbackBuckets = (Length + 1) * (Length + 1)

// Entry is one observed round: the guess played and the feedback it received.
type Entry struct {
	Guess    Code     `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

func (e Entry) String() string { return e.Guess.String() + " " + e.Feedback.String() }

// History is the ordered list of rounds, in game order.
type History []Entry

// Feedbacks returns the feedback column of h, in order.
func (h History) Feedbacks() []Feedback {
	out := make([]Feedback, len(h))
	for i, e := range h {
		out[i] = e.Feedback
	}
	return out
}
