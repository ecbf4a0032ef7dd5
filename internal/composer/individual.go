// internal/composer/individual.go
package composer

// Individual is a candidate meal: one food id per blueprint slot, shorter
// when a slot had nothing to offer.
type Individual []int64

func (ind Individual) Clone() Individual {
	return append(Individual(nil), ind...)
}

func (ind Individual) set() map[int64]struct{} {
	s := make(map[int64]struct{}, len(ind))
	for _, id := range ind {
		s[id] = struct{}{}
	}
	return s
}
