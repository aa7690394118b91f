package analysis

// orderedMap remembers the order keys were first set in.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{values: make(map[string]V)}
}

func (m *orderedMap[V]) get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap[V]) set(key string, v V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *orderedMap[V]) len() int {
	return len(m.keys)
}

// counter counts labels in first-seen order.
type counter struct {
	m *orderedMap[int]
}

func newCounter() *counter {
	return &counter{m: newOrderedMap[int]()}
}

func (c *counter) add(label string) {
	n, _ := c.m.get(label)
	c.m.set(label, n+1)
}

func (c *counter) counts() []Count {
	out := make([]Count, 0, c.m.len())
	for _, k := range c.m.keys {
		n, _ := c.m.get(k)
		out = append(out, Count{Label: k, Count: n})
	}
	return out
}
