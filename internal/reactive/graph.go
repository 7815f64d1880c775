package reactive

import (
	"fmt"
	"sync"
)

// Validator accepts or rejects a Selection value
type Validator func(entity string) error

type slot struct {
	value    any
	err      error
	gen      uint64
	filled   bool
	computes int
}

// Graph is one session's Selection cell plus its derived-value caches.
// All reads and writes are serialized, so any resolution observes a single
// Selection value.
type Graph struct {
	bp       *Blueprint
	nodes    []*nodeDef
	validate Validator

	mu         sync.Mutex
	selection  string
	generation uint64
	slots      []slot
}

// NewGraph seals the blueprint and creates a graph selecting initial
func (bp *Blueprint) NewGraph(initial string, validate Validator) (*Graph, error) {
	if validate != nil {
		if err := validate(initial); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
		}
	}
	nodes := bp.seal()
	return &Graph{
		bp:         bp,
		nodes:      nodes,
		validate:   validate,
		selection:  initial,
		generation: 1,
		slots:      make([]slot, len(nodes)),
	}, nil
}

// Select writes the Selection. Rejected values leave the previous Selection
// and every cache untouched. Writing the current value is a no-op.
func (g *Graph) Select(entity string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if entity == g.selection {
		return nil
	}
	if g.validate != nil {
		if err := g.validate(entity); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
		}
	}
	g.selection = entity
	g.generation++
	return nil
}

// Selection returns the current Selection value
func (g *Graph) Selection() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selection
}

// Generation increments on every accepted Selection change
func (g *Graph) Generation() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation
}

// Get resolves a node, recomputing it only if stale
func Get[T any](g *Graph, k Key[T]) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if k.bp != g.bp {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrForeignDependency, k.name)
	}
	return resolveAs[T](g, k.index)
}

// Peek returns the cached value without computing. ok is false when the node
// has never been computed or is stale for the current Selection.
func Peek[T any](g *Graph, k Key[T]) (T, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var zero T
	if k.bp != g.bp {
		return zero, false
	}
	sl := g.slots[k.index]
	if !g.fresh(k.index) || sl.err != nil {
		return zero, false
	}
	v, _ := sl.value.(T)
	return v, true
}

// View runs fn with a scope that may read any node. The Selection cannot
// change while fn runs, so every read inside it is consistent.
func (g *Graph) View(fn func(s *Scope) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(&Scope{g: g, node: -1})
}

// Stats returns how many times each node has been computed
func (g *Graph) Stats() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		out[n.name] = g.slots[i].computes
	}
	return out
}

func (g *Graph) fresh(i int) bool {
	sl := g.slots[i]
	return sl.filled && (!g.nodes[i].onSelection || sl.gen == g.generation)
}

// resolve must be called with g.mu held
func (g *Graph) resolve(i int) (any, error) {
	if g.fresh(i) {
		return g.slots[i].value, g.slots[i].err
	}

	scope := &Scope{g: g, node: i}
	value, err := g.run(i, scope)
	if scope.violation != nil {
		value, err = nil, scope.violation
	}

	sl := &g.slots[i]
	sl.value, sl.err = value, err
	sl.gen = g.generation
	sl.filled = true
	sl.computes++
	return value, err
}

func (g *Graph) run(i int, scope *Scope) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, fmt.Errorf("%w: %s: %v", ErrComputePanic, g.nodes[i].name, r)
		}
	}()
	return g.nodes[i].compute(scope)
}

func resolveAs[T any](g *Graph, i int) (T, error) {
	var zero T
	v, err := g.resolve(i)
	if err != nil {
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}
