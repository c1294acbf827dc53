package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/robalobadob/codebreaker/internal/solver"
)

func runScript(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	r := newREPL(solver.New(), 15, &out)
	r.plain = true
	if err := r.run(strings.NewReader(strings.Join(lines, "\n") + "\n")); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestREPLSolvesNoSharedDigits(t *testing.T) {
	out := runScript(t, "add 0123 0000", "solve", "4545 2222", "solve", "quit")

	for _, want := range []string{
		"1. 0123 0000",
		"next guess 4455, 6 possible secrets (minimax)",
		"4455 4545 4554 5445 5454 5544",
		"2. 4545 2222",
		"answer found: 5454",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLRejectsInvalidInput(t *testing.T) {
	out := runScript(t, "add 0003 0000", "add 0123 0003", "list")
	if got := strings.Count(out, invalidInput); got != 2 {
		t.Fatalf("invalid input reported %d times, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, "no rounds yet") {
		t.Fatalf("rejected rounds were recorded:\n%s", out)
	}
}

func TestREPLEditing(t *testing.T) {
	out := runScript(t, "solve", "add 0123 1111", "solve", "add 0123 0000", "solve", "del 2", "list", "clear", "clear", "del 9")

	checks := []string{
		"add history first",
		"no consistent secret, check the entered feedback",
		"answer found: 0123",
		"1. 0123 1111\n> ",
		"cleared",
		"nothing to clear",
		"no round 9",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLStopsAtQuit(t *testing.T) {
	out := runScript(t, "quit", "add 0123 0000")
	if strings.Contains(out, "0123") {
		t.Fatalf("command after quit was executed:\n%s", out)
	}
}

func TestOpeningTableDefaultsToEmbedded(t *testing.T) {
	for _, path := range []string{"", "does/not/exist.json"} {
		table := openingTable(path)
		if table == nil {
			t.Fatalf("openingTable(%q) = nil", path)
		}
		r := solver.New(solver.WithTable(table)).NextGuess(nil)
		if r.Guess.String() != "0123" || r.Source != solver.SourceTable {
			t.Fatalf("openingTable(%q): first guess %s via %s", path, r.Guess, r.Source)
		}
	}
}
