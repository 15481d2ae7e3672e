package graph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/thought-machine/ninjagraph/internal/config"
	"github.com/thought-machine/ninjagraph/internal/label"
)

// BuildGraph owns every Target and Config across every toolchain
// instantiation, following the arena+index pattern: pointers into these maps
// are the "indices" other structures hold onto (TargetDep.Target,
// ConfigDep.Config) rather than re-looking-up by label on every access.
//
// Go maps aren't safe for concurrent mutation, and targets/configs are
// registered from worker goroutines as the loader parses files in parallel,
// so a single mutex arbitrates insertion the same way the upstream graph
// does for its own target map.
type BuildGraph struct {
	mu      sync.Mutex
	targets map[label.Label]*Target
	configs map[label.Label]*config.Config
	pools   map[label.Label]*Pool
}

// NewBuildGraph constructs an empty BuildGraph.
func NewBuildGraph() *BuildGraph {
	return &BuildGraph{
		targets: map[label.Label]*Target{},
		configs: map[label.Label]*config.Config{},
		pools:   map[label.Label]*Pool{},
	}
}

// AddTarget inserts t into the graph. Panics on a duplicate label - callers
// (the Builder) must detect DuplicateItem before calling this.
func (g *BuildGraph) AddTarget(t *Target) *Target {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.targets[t.Label]; ok {
		panic(fmt.Sprintf("DuplicateItem: target %s already present in graph", t.Label))
	}
	g.targets[t.Label] = t
	return t
}

// Target retrieves a target by label, or nil if absent.
func (g *BuildGraph) Target(l label.Label) *Target {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.targets[l]
}

// AddConfig inserts c into the graph. Panics on a duplicate label.
func (g *BuildGraph) AddConfig(c *config.Config) *config.Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.configs[c.Label]; ok {
		panic(fmt.Sprintf("DuplicateItem: config %s already present in graph", c.Label))
	}
	g.configs[c.Label] = c
	return c
}

// Config retrieves a config by label, or nil if absent.
func (g *BuildGraph) Config(l label.Label) *config.Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.configs[l]
}

// AllTargets returns every target in the graph, sorted by label string -
// the stable order the rule-emitter needs for deterministic output.
func (g *BuildGraph) AllTargets() []*Target {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Target, 0, len(g.targets))
	for _, t := range g.targets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label.String() < out[j].Label.String() })
	return out
}

// Len returns the number of targets currently registered.
func (g *BuildGraph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.targets)
}
