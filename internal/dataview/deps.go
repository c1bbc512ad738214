package dataview

import "sync"

// Graph records which resources embed data derived from another resource,
// e.g. a summary endpoint built from the rows of a list endpoint. Mutations
// invalidate the owning resource plus everything the graph derives from it,
// so handlers never hand-maintain "related key" lists.
type Graph struct {
	mu   sync.RWMutex
	deps map[string][]string
}

func NewGraph() *Graph {
	return &Graph{deps: map[string][]string{}}
}

// Register declares that mutating resource also invalidates dependents.
func (g *Graph) Register(resource string, dependents ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deps[resource] = append(g.deps[resource], dependents...)
}

// Affected returns the resource itself plus its transitive dependents, each
// at most once, in registration order.
func (g *Graph) Affected(resource string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := map[string]bool{resource: true}
	affected := []string{resource}
	queue := []string{resource}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.deps[current] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			affected = append(affected, dep)
			queue = append(queue, dep)
		}
	}
	return affected
}
