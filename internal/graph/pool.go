package graph

import "github.com/thought-machine/ninjagraph/internal/label"

// Pool is a named concurrency limit (spec.md §3: "Label + integer
// depth"), referenced by tools (default pool for a rule) and by targets
// (per-build-statement override). "console" is reserved by Ninja itself
// and never declared by the top-level emitter even if referenced.
type Pool struct {
	Label label.Label
	Depth int
}

// AddPool registers a pool, rejecting a duplicate label with a different depth.
func (g *BuildGraph) AddPool(p *Pool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.pools[p.Label]; ok {
		if existing.Depth != p.Depth {
			return &DuplicatePoolError{Label: p.Label, First: existing.Depth, Second: p.Depth}
		}
		return nil
	}
	g.pools[p.Label] = p
	return nil
}

// Pool looks up a registered pool by label.
func (g *BuildGraph) Pool(l label.Label) (*Pool, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pools[l]
	return p, ok
}

// AllPools returns every registered pool, in map order (callers that need
// a stable order, e.g. the top-level emitter, sort by Ninja-pool-name
// themselves).
func (g *BuildGraph) AllPools() []*Pool {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Pool, 0, len(g.pools))
	for _, p := range g.pools {
		out = append(out, p)
	}
	return out
}

// DuplicatePoolError reports the same pool label declared twice with
// conflicting depths.
type DuplicatePoolError struct {
	Label        label.Label
	First, Second int
}

func (e *DuplicatePoolError) Error() string {
	return "DuplicatePool: " + e.Label.String() + " declared with conflicting depths"
}
