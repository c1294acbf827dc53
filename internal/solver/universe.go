package solver

// NewUniverse enumerates every valid Code in lexicographic order ("0011" .. "5544").
// Codes that use a digit more than MaxRepeat times are skipped, which leaves
// 1170 of the 6^4 sequences.
func NewUniverse() []Code {
	total := 1
	for i := 0; i < Length; i++ {
		total *= Alphabet
	}

	out := make([]Code, 0, total)
	for n := 0; n < total; n++ {
		var c Code
		rem := n
		for pos := Length - 1; pos >= 0; pos-- {
			c[pos] = uint8(rem % Alphabet)
			rem /= Alphabet
		}
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}
