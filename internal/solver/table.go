// internal/solver/table.go
//
// Precomputed decision table for the opening moves.
// Responsibilities:
//   - Parse the JSON asset (layer1 / layer2 shape) into structured keys.
//   - Answer lookups for move 0, 1 and 2; everything else is a miss.
//   - Serialize a table back to deterministic JSON (used by cmd/precompute).
//
// A table is a cache only. A nil *Table is valid and misses on every lookup.

package solver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// DefaultOpener is the first guess used when the asset does not name one.
var DefaultOpener = Code{0, 1, 2, 3}

// PathKey identifies the second-move branch: the first guess and its feedback.
type PathKey struct {
	First    Code
	Feedback Feedback
}

// String is the asset's "<first>_<feedback>" form.
func (k PathKey) String() string { return k.First.String() + "_" + k.Feedback.String() }

func parsePathKey(s string) (PathKey, error) {
	first, fb, ok := strings.Cut(s, "_")
	if !ok {
		return PathKey{}, fmt.Errorf("%w: path key %q has no separator", ErrInvalidInput, s)
	}
	c, err := ParseCode(first)
	if err != nil {
		return PathKey{}, err
	}
	f, err := ParseFeedback(fb)
	if err != nil {
		return PathKey{}, err
	}
	return PathKey{First: c, Feedback: f}, nil
}

// Table is immutable once built or loaded.
type Table struct {
	opener  Code
	layer1  map[Feedback]Code
	layer2  map[PathKey]map[Feedback]Code
	skipped int
}

// NewTable returns an empty table that only knows its opener.
func NewTable(opener Code) *Table {
	return &Table{
		opener: opener,
		layer1: make(map[Feedback]Code),
		layer2: make(map[PathKey]map[Feedback]Code),
	}
}

// Opener returns the move-0 guess.
func (t *Table) Opener() Code { return t.opener }

// Len reports the number of layer1 and layer2 entries.
func (t *Table) Len() (layer1, layer2 int) {
	if t == nil {
		return 0, 0
	}
	for _, m := range t.layer2 {
		layer2 += len(m)
	}
	return len(t.layer1), layer2
}

// Skipped is the number of malformed asset entries ignored while parsing.
func (t *Table) Skipped() int {
	if t == nil {
		return 0
	}
	return t.skipped
}

// Lookup returns the table's suggestion for move (== len(prior)).
//
//   - move 0: the opener.
//   - move 1: layer1[first feedback], if the first guess was the opener.
//   - move 2: layer2[(first guess, first feedback)][second feedback], if the second
//     guess was the layer1 suggestion for that branch.
//
// Anything else, including a nil table, is a miss.
func (t *Table) Lookup(move int, prior History) (Code, bool) {
	if t == nil || move != len(prior) {
		return Code{}, false
	}
	switch move {
	case 0:
		return t.opener, true
	case 1:
		if prior[0].Guess != t.opener {
			return Code{}, false
		}
		g, ok := t.layer1[prior[0].Feedback]
		return g, ok
	case 2:
		second, ok := t.layer1[prior[0].Feedback]
		if !ok || prior[0].Guess != t.opener || prior[1].Guess != second {
			return Code{}, false
		}
		branch, ok := t.layer2[PathKey{First: prior[0].Guess, Feedback: prior[0].Feedback}]
		if !ok {
			return Code{}, false
		}
		g, ok := branch[prior[1].Feedback]
		return g, ok
	}
	return Code{}, false
}

// setLayer1 and setLayer2 are only used while building.
func (t *Table) setLayer1(fb Feedback, g Code) { t.layer1[fb] = g }

func (t *Table) setLayer2(k PathKey, fb Feedback, g Code) {
	m, ok := t.layer2[k]
	if !ok {
		m = make(map[Feedback]Code)
		t.layer2[k] = m
	}
	m[fb] = g
}

// ----------------------------- JSON codec ----------------------------------

type tableNode struct {
	NextGuess string `json:"next_guess"`
}

type tableDoc struct {
	Opener string                          `json:"opener,omitempty"`
	Layer1 map[string]tableNode            `json:"layer1"`
	Layer2 map[string]map[string]tableNode `json:"layer2"`
}

// LoadTable reads the asset at path.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	return ParseTable(f)
}

// ParseTable decodes the asset. A document that is not valid JSON is an error;
// individual entries with bad keys or guesses are skipped and counted.
func ParseTable(r io.Reader) (*Table, error) {
	var doc tableDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}

	opener := DefaultOpener
	if doc.Opener != "" {
		c, err := ParseCode(doc.Opener)
		if err != nil {
			return nil, fmt.Errorf("table opener: %w", err)
		}
		opener = c
	}

	t := NewTable(opener)
	for key, node := range doc.Layer1 {
		fb, err1 := ParseFeedback(key)
		g, err2 := ParseCode(node.NextGuess)
		if err1 != nil || err2 != nil {
			t.skipped++
			continue
		}
		t.setLayer1(fb, g)
	}
	for path, branch := range doc.Layer2 {
		k, err := parsePathKey(path)
		if err != nil {
			t.skipped += len(branch)
			continue
		}
		for key, node := range branch {
			fb, err1 := ParseFeedback(key)
			g, err2 := ParseCode(node.NextGuess)
			if err1 != nil || err2 != nil {
				t.skipped++
				continue
			}
			t.setLayer2(k, fb, g)
		}
	}
	return t, nil
}

// WriteJSON emits the asset form. encoding/json sorts map keys, so output is stable.
func (t *Table) WriteJSON(w io.Writer) error {
	doc := tableDoc{
		Opener: t.opener.String(),
		Layer1: make(map[string]tableNode, len(t.layer1)),
		Layer2: make(map[string]map[string]tableNode, len(t.layer2)),
	}
	for fb, g := range t.layer1 {
		doc.Layer1[fb.String()] = tableNode{NextGuess: g.String()}
	}
	for k, branch := range t.layer2 {
		m := make(map[string]tableNode, len(branch))
		for fb, g := range branch {
			m[fb.String()] = tableNode{NextGuess: g.String()}
		}
		doc.Layer2[k.String()] = m
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Branches lists the layer2 path keys in asset order, for reporting.
func (t *Table) Branches() []PathKey {
	if t == nil {
		return nil
	}
	keys := make([]PathKey, 0, len(t.layer2))
	for k := range t.layer2 {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
