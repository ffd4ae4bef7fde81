package game

// script is a deterministic dice for tests: each call returns the next
// scripted value reduced modulo n. Running past the end returns 1, which
// never trips an event table (every freq is > 1).
type script struct {
	draws []int
	pos   int
}

func (s *script) Intn(n int) int {
	if s.pos >= len(s.draws) {
		return 1 % n
	}
	v := s.draws[s.pos] % n
	s.pos++
	return v
}

// noEvents is enough failing draws to walk every event table without a
// single trigger: 20 market, 12 health, 7 money.
func noEvents() []int {
	draws := make([]int, 39)
	for i := range draws {
		draws[i] = 1
	}
	return draws
}

// basePrices is the 8 price draws that leave every instrument at its
// base price.
func basePrices() []int {
	return []int{0, 0, 0, 0, 0, 0, 0, 0}
}

func concat(chunks ...[]int) []int {
	var out []int
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
