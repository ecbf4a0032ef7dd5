// internal/composer/operators.go
package composer

// DefaultMutationRate is the chance that a child gets one slot replaced.
const DefaultMutationRate = 0.2

// newIndividual samples one food per blueprint slot.
func (c *Composer) newIndividual() Individual {
	ind := make(Individual, 0, len(c.blueprint))
	for _, slot := range c.blueprint {
		if id, ok := c.catalog.pick(c.rng, slot.Resolve(c.rng), nil); ok {
			ind = append(ind, id)
		}
	}
	return ind
}

// selectParent runs a binary tournament. scores[i] is the fitness of
// population[i]; ties go to the second contender.
func (c *Composer) selectParent(population []Individual, scores []float64) Individual {
	n := len(population)
	a := c.rng.Intn(n)
	b := c.rng.Intn(n - 1)
	if b >= a {
		b++
	}
	if scores[a] > scores[b] {
		return population[a]
	}
	return population[b]
}

// crossover builds a child slot by slot, preferring parent 1, then parent
// 2, then a fresh sample. The child never repeats an id.
func (c *Composer) crossover(p1, p2 Individual) Individual {
	child := make(Individual, 0, len(c.blueprint))
	used := make(map[int64]struct{}, len(c.blueprint))

	for i, slot := range c.blueprint {
		id, ok := c.inherit(i, used, p1, p2)
		if !ok {
			id, ok = c.catalog.pick(c.rng, slot.Resolve(c.rng), used)
		}
		if !ok {
			continue
		}
		child = append(child, id)
		used[id] = struct{}{}
	}
	return child
}

func (c *Composer) inherit(i int, used map[int64]struct{}, parents ...Individual) (int64, bool) {
	for _, p := range parents {
		if i >= len(p) {
			continue
		}
		id := p[i]
		if _, taken := used[id]; taken || !c.catalog.contains(id) {
			continue
		}
		return id, true
	}
	return 0, false
}

// mutate replaces one random position in place with probability
// c.mutationRate. Duplicates are allowed. It reports whether a
// replacement happened.
func (c *Composer) mutate(ind Individual) bool {
	if c.rng.Float64() >= c.mutationRate || len(ind) == 0 {
		return false
	}
	idx := c.rng.Intn(len(ind))
	if idx >= len(c.blueprint) {
		return false
	}
	id, ok := c.catalog.pick(c.rng, c.blueprint[idx].Resolve(c.rng), nil)
	if !ok {
		return false
	}
	ind[idx] = id
	return true
}
