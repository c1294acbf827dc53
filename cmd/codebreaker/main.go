// cmd/codebreaker is a terminal assistant: enter the feedback you got for each
// guess in a game played elsewhere and it suggests the next guess.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/assets"
	"github.com/robalobadob/codebreaker/internal/solver"
)

func main() {
	tablePath := flag.String("table", "", "opening table file (default: embedded table)")
	noTable := flag.Bool("no-table", false, "always use live search")
	threshold := flag.Int("threshold", 15, "list candidates when this many or fewer remain")
	plain := flag.Bool("plain", false, "disable colored digits")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	opts := []solver.Option{solver.WithLogger(log.Logger)}
	if !*noTable {
		if t := openingTable(*tablePath); t != nil {
			opts = append(opts, solver.WithTable(t))
		}
	}

	r := newREPL(solver.New(opts...), *threshold, os.Stdout)
	r.plain = *plain
	fmt.Fprint(os.Stdout, helpText)
	if err := r.run(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}
}

func openingTable(path string) *solver.Table {
	if path != "" {
		t, err := solver.LoadTable(path)
		if err == nil {
			return t
		}
		log.Warn().Err(err).Msg("table not loaded, using embedded table")
	}
	t, err := solver.ParseTable(assets.OpeningTable())
	if err != nil {
		log.Warn().Err(err).Msg("embedded table not loaded, using live search")
		return nil
	}
	return t
}
