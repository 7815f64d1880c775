package reactive

import "fmt"

// Scope is handed to compute functions (and View callbacks) to read inputs.
// Reads are checked against the node's declared dependencies.
type Scope struct {
	g         *Graph
	node      int // -1 for View scopes, which may read anything
	violation error
}

// Selection returns the Selection value the current resolution observes
func (s *Scope) Selection() string {
	if s.node >= 0 && !s.g.nodes[s.node].deps[-1] {
		s.violate("selection")
	}
	return s.g.selection
}

// Generation returns the generation the current resolution observes
func (s *Scope) Generation() uint64 {
	return s.g.generation
}

// Read resolves an upstream node from inside a compute function or View
func Read[T any](s *Scope, k Key[T]) (T, error) {
	var zero T
	if k.bp != s.g.bp {
		return zero, fmt.Errorf("%w: %q", ErrForeignDependency, k.name)
	}
	if s.node >= 0 && !s.g.nodes[s.node].deps[k.index] {
		s.violate(k.name)
		return zero, s.violation
	}
	return resolveAs[T](s.g, k.index)
}

func (s *Scope) violate(dep string) {
	if s.violation == nil {
		s.violation = fmt.Errorf("%w: %s reads %s", ErrUndeclaredDependency, s.g.nodes[s.node].name, dep)
	}
}
