package solver

// Filter returns the members of universe consistent with every entry of history,
// preserving universe order. An empty result means the history is contradictory.
// universe is never modified.
func Filter(universe []Code, history History) []Code {
	candidates := universe
	for _, e := range history {
		kept := make([]Code, 0, len(candidates))
		for _, c := range candidates {
			if Score(e.Guess, c) == e.Feedback {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}
	if len(history) == 0 {
		// Hand back a copy so callers can't scribble on the shared universe.
		candidates = append([]Code(nil), universe...)
	}
	return candidates
}

// Partition groups candidates by the feedback they would give against guess.
// Group order follows candidate order.
func Partition(guess Code, candidates []Code) map[Feedback][]Code {
	groups := make(map[Feedback][]Code)
	for _, c := range candidates {
		fb := Score(guess, c)
		groups[fb] = append(groups[fb], c)
	}
	return groups
}
