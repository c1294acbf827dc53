package solver

// BuildTable derives a two-level table from live minimax search.
//
// layer1 holds the minimax choice for every first-feedback class of opener with at
// least two candidates. layer2 holds, for each of those, the minimax choice for every
// second-feedback class of the layer1 suggestion. Singleton and empty classes are
// omitted because NextGuess never consults the table for them.
//
// progress, if non-nil, is called once per layer1 branch.
func (e *Engine) BuildTable(opener Code, progress func()) *Table {
	t := NewTable(opener)

	first := Partition(opener, e.universe)
	for fb1, c1 := range first {
		if progress != nil {
			progress()
		}
		if len(c1) < 2 {
			continue
		}
		second, _ := Select(c1)
		t.setLayer1(fb1, second)

		key := PathKey{First: opener, Feedback: fb1}
		for fb2, c2 := range Partition(second, c1) {
			if len(c2) < 2 {
				continue
			}
			third, _ := Select(c2)
			t.setLayer2(key, fb2, third)
		}
	}
	e.log.Debug().Str("opener", opener.String()).Int("branches", len(t.layer1)).Msg("table built")
	return t
}

// FirstFeedbackClasses returns how many distinct first-move feedbacks opener can receive.
func (e *Engine) FirstFeedbackClasses(opener Code) int {
	return len(Partition(opener, e.universe))
}
