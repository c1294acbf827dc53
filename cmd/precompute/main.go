// cmd/precompute writes the two-level opening table the server loads from
// PRECOMPUTE_FILE. Every entry is the live minimax choice for that path, so a
// table-backed engine and a table-less one suggest the same guesses.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/slices"

	"github.com/robalobadob/codebreaker/internal/solver"
)

func main() {
	out := flag.String("out", "./data/precomputed_depth2.json", "output path for the table")
	opener := flag.String("opener", solver.DefaultOpener.String(), "first guess of every game")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	first, err := solver.ParseCode(*opener)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -opener: %v\n", err)
		os.Exit(2)
	}

	engine := solver.New(solver.WithLogger(log.Logger))
	bar := progressbar.Default(int64(engine.FirstFeedbackClasses(first)), "building table")
	table := engine.BuildTable(first, func() { _ = bar.Add(1) })
	_ = bar.Finish()

	if err := write(*out, table); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("write table")
	}

	summarize(table)
	log.Info().Str("path", *out).Msg("table written")
}

func write(path string, t *solver.Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// summarize prints one line per first-move branch, widest feedback first.
func summarize(t *solver.Table) {
	branches := t.Branches()
	slices.SortStableFunc(branches, func(a, b solver.PathKey) int {
		return int(b.Feedback.Full+b.Feedback.Partial) - int(a.Feedback.Full+a.Feedback.Partial)
	})
	l1, l2 := t.Len()
	fmt.Printf("opener %s: %d first-move branches, %d second-move entries\n", t.Opener(), l1, l2)
	for _, k := range branches {
		g, _ := t.Lookup(1, solver.History{{Guess: k.First, Feedback: k.Feedback}})
		fmt.Printf("  %s -> %s\n", k, g)
	}
}
