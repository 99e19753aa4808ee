package pairing

// sessionTable maps each paired user to its partner. Pair and Unpair keep it
// symmetric; the only way to observe an asymmetric table is external
// corruption, which Relay reports instead of repairing.
type sessionTable struct {
	partners map[int64]int64
}

func newSessionTable() *sessionTable {
	return &sessionTable{partners: make(map[int64]int64)}
}

func (s *sessionTable) Partner(id int64) (int64, bool) {
	p, ok := s.partners[id]
	return p, ok
}

func (s *sessionTable) Has(id int64) bool {
	_, ok := s.partners[id]
	return ok
}

// Pair records a and b as partners of each other.
func (s *sessionTable) Pair(a, b int64) {
	s.partners[a] = b
	s.partners[b] = a
}

// Unpair removes id and, when it still points back, its partner.
// It returns the partner id and whether id had a session.
func (s *sessionTable) Unpair(id int64) (int64, bool) {
	partner, ok := s.partners[id]
	if !ok {
		return 0, false
	}
	delete(s.partners, id)
	if back, ok := s.partners[partner]; ok && back == id {
		delete(s.partners, partner)
	}
	return partner, true
}

// Pairs returns the number of distinct active pairs.
func (s *sessionTable) Pairs() int {
	n := 0
	for id, partner := range s.partners {
		if back, ok := s.partners[partner]; ok && back == id && id < partner {
			n++
		}
	}
	return n
}

