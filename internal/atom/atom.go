// Package atom implements process-wide string interning.
//
// An Atom is a handle to a deduplicated, immutable string. Two atoms
// interned from equal byte sequences compare equal as values; this lets
// callers use Atom directly as a map key and get pointer-speed comparisons
// without giving up content semantics, mirroring the StringAtom type GN
// uses throughout its build graph.
package atom

import "sync"

// Atom is a handle to an interned string. The zero value is the empty atom.
type Atom struct {
	s *string
}

// Empty is the sentinel empty atom. All interned empty strings collapse to it.
var Empty = Atom{s: new(string)}

// String returns the underlying string content.
func (a Atom) String() string {
	if a.s == nil {
		return ""
	}
	return *a.s
}

// IsEmpty reports whether this atom holds the empty string.
func (a Atom) IsEmpty() bool {
	return a.s == nil || *a.s == ""
}

// Same reports whether a and other were interned from the same storage slot,
// i.e. pointer identity rather than content equality. For atoms drawn from
// the same Pool this is equivalent to ==, but Same is explicit about intent
// at call sites that care about it.
func (a Atom) Same(other Atom) bool {
	return a.s == other.s
}

// Pool is a process-lifetime interning arena. The zero value is usable.
// All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	strings map[string]*string
}

// Intern returns the Atom for s, allocating new storage the first time s is
// seen and reusing it on every subsequent call with an equal string.
func (p *Pool) Intern(s string) Atom {
	if s == "" {
		return Empty
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.strings == nil {
		p.strings = make(map[string]*string)
	}
	if ptr, ok := p.strings[s]; ok {
		return Atom{s: ptr}
	}
	ptr := new(string)
	*ptr = s
	p.strings[s] = ptr
	return Atom{s: ptr}
}

// Len returns the number of distinct strings interned so far. Intended for
// diagnostics and tests, not for hot paths.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strings)
}

// Global is the default process-wide pool. Most callers should use this
// rather than constructing their own Pool, matching the single-singleton
// interning arena the data model calls for.
var Global = &Pool{}

// Intern interns s in the global pool.
func Intern(s string) Atom { return Global.Intern(s) }
