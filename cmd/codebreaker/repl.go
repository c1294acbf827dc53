package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TwiN/go-color"
	"golang.org/x/exp/slices"

	"github.com/robalobadob/codebreaker/internal/session"
	"github.com/robalobadob/codebreaker/internal/solver"
)

const invalidInput = "guess needs 4 digits 0-5 (each at most twice), feedback needs 4 digits 0-2"

const helpText = `commands:
  add <guess> <feedback>   record a round, e.g. "add 0123 1200"
  <guess> <feedback>       same as add
  del <n>                  remove round n (as numbered by list)
  clear                    remove every round
  list                     show recorded rounds
  solve                    suggest the next guess
  help                     this text
  quit                     leave
`

var digitColors = []string{color.Red, color.Green, color.Blue, color.Yellow, color.Purple, color.Cyan}

var quitWords = []string{"quit", "exit", "q"}

type repl struct {
	engine    *solver.Engine
	sess      *session.Session
	threshold int
	plain     bool
	out       io.Writer
}

func newREPL(e *solver.Engine, threshold int, out io.Writer) *repl {
	return &repl{engine: e, sess: session.New(""), threshold: threshold, out: out}
}

// run reads commands until EOF or quit.
func (r *repl) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(r.out, "> ")
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 && slices.Contains(quitWords, strings.ToLower(fields[0])) {
			return nil
		}
		r.exec(fields)
		fmt.Fprint(r.out, "> ")
	}
	return sc.Err()
}

func (r *repl) exec(fields []string) {
	if len(fields) == 0 {
		return
	}
	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; {
	case cmd == "add" && len(args) == 2:
		r.add(args[0], args[1])
	case len(fields) == 2 && cmd != "del":
		r.add(fields[0], fields[1])
	case cmd == "del" && len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(r.out, "del needs a round number")
			return
		}
		if err := r.sess.Remove(n - 1); err != nil {
			fmt.Fprintf(r.out, "no round %d\n", n)
			return
		}
		r.list()
	case cmd == "clear":
		if !r.sess.Clear() {
			fmt.Fprintln(r.out, "nothing to clear")
			return
		}
		fmt.Fprintln(r.out, "cleared")
	case cmd == "list":
		r.list()
	case cmd == "solve":
		r.solve()
	case cmd == "help":
		fmt.Fprint(r.out, helpText)
	default:
		fmt.Fprintln(r.out, "unknown command, try help")
	}
}

func (r *repl) add(guess, feedback string) {
	entry, err := r.sess.Add(r.engine, guess, feedback)
	if err != nil {
		fmt.Fprintln(r.out, invalidInput)
		return
	}
	fmt.Fprintf(r.out, "%d. %s %s\n", len(r.sess.History()), r.paint(entry.Guess), entry.Feedback)
}

func (r *repl) list() {
	h := r.sess.History()
	if len(h) == 0 {
		fmt.Fprintln(r.out, "no rounds yet")
		return
	}
	for i, e := range h {
		fmt.Fprintf(r.out, "%d. %s %s\n", i+1, r.paint(e.Guess), e.Feedback)
	}
}

func (r *repl) solve() {
	res, err := r.sess.Solve(r.engine)
	if errors.Is(err, session.ErrEmptyHistory) {
		fmt.Fprintln(r.out, "add history first")
		return
	}
	switch res.Status() {
	case solver.StatusContradiction:
		fmt.Fprintln(r.out, "no consistent secret, check the entered feedback")
		return
	case solver.StatusSolved:
		fmt.Fprintf(r.out, "answer found: %s\n", r.paint(res.Guess))
		return
	}
	fmt.Fprintf(r.out, "next guess %s, %d possible secrets (%s)\n", r.paint(res.Guess), len(res.Candidates), res.Source)
	if len(res.Candidates) <= r.threshold {
		parts := make([]string, len(res.Candidates))
		for i, c := range res.Candidates {
			parts[i] = r.paint(c)
		}
		fmt.Fprintln(r.out, strings.Join(parts, " "))
	}
}

// paint colors each digit of c.
func (r *repl) paint(c solver.Code) string {
	if r.plain {
		return c.String()
	}
	var b strings.Builder
	for _, d := range c {
		b.WriteString(color.Ize(digitColors[d], strconv.Itoa(int(d))))
	}
	return b.String()
}
