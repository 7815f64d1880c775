package reactive

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrSealed               = errors.New("blueprint is sealed")
	ErrDuplicateNode        = errors.New("duplicate node name")
	ErrForeignDependency    = errors.New("dependency belongs to another blueprint")
	ErrUndeclaredDependency = errors.New("undeclared dependency")
	ErrInvalidSelection     = errors.New("invalid selection")
	ErrComputePanic         = errors.New("node compute panicked")
)

// Dependency is an upstream input of a node: the Selection cell or an earlier Key
type Dependency interface {
	nodeIndex() int
	owner() *Blueprint
}

type selectionDep struct{}

func (selectionDep) nodeIndex() int    { return -1 }
func (selectionDep) owner() *Blueprint { return nil }

// Selection is the dependency on the session's selected entity
var Selection Dependency = selectionDep{}

// On lists dependencies for Define
func On(deps ...Dependency) []Dependency { return deps }

// Key is a typed handle to a defined node
type Key[T any] struct {
	bp    *Blueprint
	index int
	name  string
}

func (k Key[T]) nodeIndex() int    { return k.index }
func (k Key[T]) owner() *Blueprint { return k.bp }

// Name returns the node's registered name
func (k Key[T]) Name() string { return k.name }

type nodeDef struct {
	name        string
	deps        map[int]bool // -1 is the Selection
	onSelection bool         // transitively depends on the Selection
	compute     func(*Scope) (any, error)
}

// Blueprint is the static catalog of derived nodes shared by every Graph
type Blueprint struct {
	mu     sync.Mutex
	nodes  []*nodeDef
	names  map[string]int
	sealed bool
}

func NewBlueprint() *Blueprint {
	return &Blueprint{names: make(map[string]int)}
}

// Define registers a node. Dependencies must be the Selection or keys
// previously returned by Define on the same blueprint, so the graph is
// acyclic by construction.
func Define[T any](bp *Blueprint, name string, deps []Dependency, compute func(*Scope) (T, error)) (Key[T], error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.sealed {
		return Key[T]{}, fmt.Errorf("%w: cannot define %q", ErrSealed, name)
	}
	if _, dup := bp.names[name]; dup {
		return Key[T]{}, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}

	def := &nodeDef{
		name: name,
		deps: make(map[int]bool, len(deps)),
		compute: func(s *Scope) (any, error) {
			return compute(s)
		},
	}
	for _, d := range deps {
		if d.owner() != nil && d.owner() != bp {
			return Key[T]{}, fmt.Errorf("%w: %q", ErrForeignDependency, name)
		}
		idx := d.nodeIndex()
		def.deps[idx] = true
		if idx < 0 || bp.nodes[idx].onSelection {
			def.onSelection = true
		}
	}

	idx := len(bp.nodes)
	bp.nodes = append(bp.nodes, def)
	bp.names[name] = idx
	return Key[T]{bp: bp, index: idx, name: name}, nil
}

// MustDefine is Define for startup registration, panicking on misuse
func MustDefine[T any](bp *Blueprint, name string, deps []Dependency, compute func(*Scope) (T, error)) Key[T] {
	k, err := Define(bp, name, deps, compute)
	if err != nil {
		panic(err)
	}
	return k
}

// Names lists node names in definition order
func (bp *Blueprint) Names() []string {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	out := make([]string, len(bp.nodes))
	for i, n := range bp.nodes {
		out[i] = n.name
	}
	return out
}

// DependsOnSelection reports whether the named node is invalidated by Selection writes
func (bp *Blueprint) DependsOnSelection(name string) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	idx, ok := bp.names[name]
	return ok && bp.nodes[idx].onSelection
}

func (bp *Blueprint) seal() []*nodeDef {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.sealed = true
	return bp.nodes
}
