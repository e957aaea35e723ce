package ccl

// Kind distinguishes the two shapes a Model can take.
type Kind int

const (
	// KindSingleton holds a single scalar string.
	KindSingleton Kind = iota
	// KindMap holds an ordered sequence of (key, Model) pairs. Unlike a Go
	// map, duplicate keys are permitted and preserved in order; this is
	// what lets Build represent both real hierarchy and the bare-list
	// foldChain shape without losing information.
	KindMap
)

// pair is one (key, child) entry inside a KindMap Model.
type pair struct {
	key   string
	value *Model
}

// Model is a node in a parsed CCL document: either a scalar (Singleton) or
// an ordered, duplicate-permitting association list (Map).
type Model struct {
	kind  Kind
	sctxt string
	pairs []pair
}

// Singleton builds a scalar Model.
func Singleton(value string) *Model {
	return &Model{kind: KindSingleton, sctxt: value}
}

// NewMap builds an empty map Model.
func NewMap() *Model {
	return &Model{kind: KindMap}
}

// IsSingleton reports whether m is a scalar.
func (m *Model) IsSingleton() bool {
	return m != nil && m.kind == KindSingleton
}

// IsMap reports whether m is a map.
func (m *Model) IsMap() bool {
	return m != nil && m.kind == KindMap
}

// Len returns the number of (key, child) pairs in a map Model, or 0 for a
// singleton.
func (m *Model) Len() int {
	if m == nil || m.kind != KindMap {
		return 0
	}
	return len(m.pairs)
}

// Pairs returns the map's (key, child) pairs in stored order. The returned
// slice is owned by the caller; mutating it does not affect m.
func (m *Model) Pairs() []struct {
	Key   string
	Value *Model
} {
	if m == nil || m.kind != KindMap {
		return nil
	}
	out := make([]struct {
		Key   string
		Value *Model
	}, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = struct {
			Key   string
			Value *Model
		}{Key: p.key, Value: p.value}
	}
	return out
}

// append adds a (key, child) pair to a map Model in place.
func (m *Model) append(key string, child *Model) {
	m.pairs = append(m.pairs, pair{key: key, value: child})
}

// childrenOf returns, in order, every child whose key equals key.
func (m *Model) childrenOf(key string) []*Model {
	if m == nil || m.kind != KindMap {
		return nil
	}
	var out []*Model
	for _, p := range m.pairs {
		if p.key == key {
			out = append(out, p.value)
		}
	}
	return out
}

// isFoldChain reports whether m is the synthetic shape Build produces for a
// repeated key: a map whose pairs are all keyed "".
func (m *Model) isFoldChain() bool {
	if m == nil || m.kind != KindMap || len(m.pairs) == 0 {
		return false
	}
	for _, p := range m.pairs {
		if p.key != "" {
			return false
		}
	}
	return true
}
