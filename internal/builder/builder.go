// Package builder implements the deferred-item registry described in
// spec.md §4.6: a concurrent map from Label to ItemRecord, tracking
// unresolved dependency counts and firing a caller-supplied callback once
// every reference an item names has itself been declared.
package builder

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/thought-machine/ninjagraph/internal/config"
	"github.com/thought-machine/ninjagraph/internal/graph"
	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

// ItemKind distinguishes which payload an Item carries.
type ItemKind int

const (
	TargetItem ItemKind = iota
	ConfigItem
	ToolchainItem
)

// Item is the tagged union over the three kinds of thing a build file can
// declare. Pools are intentionally omitted here - they carry no dependency
// references of their own, so the Loader registers them directly onto the
// BuildGraph's pool table without going through the Builder.
type Item struct {
	Kind      ItemKind
	Target    *graph.Target
	Config    *config.Config
	Toolchain *toolchain.Toolchain
}

func (i Item) label() label.Label {
	switch i.Kind {
	case TargetItem:
		return i.Target.Label
	case ConfigItem:
		return i.Config.Label
	case ToolchainItem:
		return i.Toolchain.Label
	default:
		panic("builder: item has no recognised kind")
	}
}

// record is one label's bookkeeping entry. It exists from the moment any
// other item first references the label, whether or not the label has
// actually been declared yet.
type record struct {
	label    label.Label
	item     *Item
	declared bool
	pending  int           // count of deps[] entries not yet ready (declared with pending == 0)
	deps     []label.Label // the full dependency list, for cycle reconstruction
	waiters  []label.Label // records whose pending count decrements when this one becomes ready
}

// DuplicateItemError reports the same label declared twice within one toolchain.
type DuplicateItemError struct {
	Label label.Label
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("DuplicateItem: %s already declared", e.Label)
}

// UnresolvedReferenceError reports a label referenced by some item but never declared.
type UnresolvedReferenceError struct {
	Label      label.Label
	Dependents []label.Label
}

func (e *UnresolvedReferenceError) Error() string {
	parts := make([]string, len(e.Dependents))
	for i, l := range e.Dependents {
		parts[i] = l.String()
	}
	return fmt.Sprintf("UnresolvedReference: %s was never declared (referenced by %s)", e.Label, strings.Join(parts, ", "))
}

// DepCycleError reports a set of labels whose only unresolved references
// are each other.
type DepCycleError struct {
	Cycle []label.Label
}

func (e *DepCycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, l := range e.Cycle {
		parts[i] = l.String()
	}
	return fmt.Sprintf("DepCycle: %s", strings.Join(parts, " -> "))
}

// OnReady is invoked once a declared item's every dependency reference has
// itself become ready (declared, with all of its own dependencies ready).
// What happens per item kind is up to the callback: cmd/ninjagraph's
// onItemReady runs the resolution pipeline for a Target, SetupComplete for
// a Toolchain and Resolve for a Config.
type OnReady func(item Item)

// Builder is the deferred-item registry. A single mutex guards the record
// map, matching spec.md §5's "Builder's label map is protected by a single
// mutex; item insertion and back-reference registration take it" - this
// mirrors the upstream BuildGraph's own single-mutex map protection
// (src/core/graph.go).
type Builder struct {
	mu      sync.Mutex
	records map[label.Label]*record
	ready   OnReady
}

// New constructs a Builder that invokes ready whenever an item becomes fully resolved.
func New(ready OnReady) *Builder {
	return &Builder{records: map[label.Label]*record{}, ready: ready}
}

func (b *Builder) recordFor(l label.Label) *record {
	r, ok := b.records[l]
	if !ok {
		r = &record{label: l}
		b.records[l] = r
	}
	return r
}

// Declare registers item under its own label, with deps naming every other
// label it references (dep targets, configs, toolchain). Declare fires
// OnReady for item immediately if every dep is already ready, and then,
// transitively, for every already-declared item whose last pending dep
// became ready as a result.
func (b *Builder) Declare(item Item, deps []label.Label) error {
	l := item.label()

	b.mu.Lock()
	rec := b.recordFor(l)
	if rec.declared {
		b.mu.Unlock()
		return &DuplicateItemError{Label: l}
	}
	rec.item = &item
	rec.declared = true
	rec.deps = deps

	for _, dep := range deps {
		if dep == l {
			continue // a self-reference can't gate its own readiness
		}
		depRec := b.recordFor(dep)
		if depRec.declared && depRec.pending == 0 {
			continue
		}
		depRec.waiters = append(depRec.waiters, l)
		rec.pending++
	}

	var toFire []label.Label
	if rec.pending == 0 {
		queue := []label.Label{l}
		for len(queue) > 0 {
			cur := b.records[queue[0]]
			queue = queue[1:]
			toFire = append(toFire, cur.label)
			for _, waiter := range cur.waiters {
				wr := b.records[waiter]
				wr.pending--
				if wr.pending == 0 && wr.declared {
					queue = append(queue, waiter)
				}
			}
		}
	}
	items := make([]*Item, len(toFire))
	for i, rl := range toFire {
		items[i] = b.records[rl].item
	}
	b.mu.Unlock()

	for _, it := range items {
		b.ready(*it)
	}
	return nil
}

// DetectUnresolved runs once the Scheduler has drained: every record still
// not fully resolved is either an UnresolvedReference (never declared at
// all) or part of a DepCycle (declared, but its pending deps never reach
// zero because they form a cycle).
func (b *Builder) DetectUnresolved() []error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	seenCycle := map[label.Label]bool{}

	labels := make([]label.Label, 0, len(b.records))
	for l := range b.records {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].String() < labels[j].String() })

	for _, l := range labels {
		rec := b.records[l]
		if !rec.declared {
			dependents := make([]label.Label, 0, len(rec.waiters))
			dependents = append(dependents, rec.waiters...)
			errs = append(errs, &UnresolvedReferenceError{Label: l, Dependents: dependents})
			continue
		}
		if rec.pending == 0 || seenCycle[l] {
			continue
		}
		if cycle := b.findCycle(l); cycle != nil {
			for _, c := range cycle {
				seenCycle[c] = true
			}
			errs = append(errs, &DepCycleError{Cycle: cycle})
		}
	}
	return errs
}

// findCycle performs a DFS over pending (declared-but-not-ready) deps
// starting at start, looking for a path back to start - the same
// reachability idea as the upstream cycle_detector, adapted to run
// synchronously over the already-built record map instead of a channel of
// queued dependency links, since this check only runs once the scheduler
// has fully drained.
func (b *Builder) findCycle(start label.Label) []label.Label {
	var path []label.Label
	visiting := map[label.Label]bool{}

	var dfs func(l label.Label) bool
	dfs = func(l label.Label) bool {
		if l == start && len(path) > 0 {
			return true
		}
		if visiting[l] {
			return false
		}
		visiting[l] = true
		path = append(path, l)
		rec, ok := b.records[l]
		if ok && rec.declared && rec.pending > 0 {
			for _, dep := range rec.deps {
				depRec, ok := b.records[dep]
				if !ok || !depRec.declared || depRec.pending == 0 {
					continue // not part of the unresolved residue
				}
				if dfs(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		visiting[l] = false
		return false
	}

	if dfs(start) {
		return append(path, start)
	}
	return nil
}

// Len reports how many records (declared or stub) the Builder currently holds.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}
