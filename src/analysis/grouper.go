package analysis

// orderedGroups accumulates one value per key and remembers the order in
// which keys were first seen.
type orderedGroups[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
}

func newOrderedGroups[K comparable, V any]() *orderedGroups[K, V] {
	return &orderedGroups[K, V]{index: make(map[K]int)}
}

// update applies fn to the accumulator of key, creating a zero one if needed.
func (g *orderedGroups[K, V]) update(key K, fn func(acc *V)) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.keys)
		g.index[key] = i
		g.keys = append(g.keys, key)
		var zero V
		g.vals = append(g.vals, zero)
	}
	fn(&g.vals[i])
}

func (g *orderedGroups[K, V]) len() int {
	return len(g.keys)
}

// each visits groups in first-seen order.
func (g *orderedGroups[K, V]) each(fn func(key K, val V)) {
	for i, k := range g.keys {
		fn(k, g.vals[i])
	}
}
