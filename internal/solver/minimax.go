package solver

// Select picks the candidate whose worst-case feedback group is smallest.
//
// Only members of candidates are considered as guesses. Ties go to the earliest
// candidate, so the result is stable for a given input order.
// Returns false when candidates is empty.
func Select(candidates []Code) (Code, bool) {
	switch len(candidates) {
	case 0:
		return Code{}, false
	case 1:
		return candidates[0], true
	}

	best := candidates[0]
	bestWorst := len(candidates) + 1
	for _, g := range candidates {
		w := worstCase(g, candidates, bestWorst)
		if w < bestWorst {
			best, bestWorst = g, w
		}
	}
	return best, true
}

// worstCase returns the size of the largest group produced by guessing g.
// Counting stops once a group reaches cutoff, since g can no longer win.
func worstCase(g Code, candidates []Code, cutoff int) int {
	var buckets [feedbackBuckets]int
	worst := 0
	for _, c := range candidates {
		i := Score(g, c).index()
		buckets[i]++
		if buckets[i] > worst {
			worst = buckets[i]
			if worst >= cutoff {
				return worst
			}
		}
	}
	return worst
}
