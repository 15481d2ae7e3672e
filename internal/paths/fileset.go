package paths

import "github.com/thought-machine/ninjagraph/internal/atom"

// FileSet is an ordered, deduplicated collection of SourceFile values.
// Membership is tracked by atom pointer identity for speed, with a secondary
// by-content index to support heterogeneous lookup by plain string.
type FileSet struct {
	set     *atom.Set
	byValue map[string]SourceFile
}

// NewFileSet constructs an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{set: atom.NewSet(), byValue: map[string]SourceFile{}}
}

// Add inserts f if not already present. Returns true if newly added.
func (s *FileSet) Add(f SourceFile) bool {
	added := s.set.Add(f.value)
	if added {
		s.byValue[f.String()] = f
	}
	return added
}

// Contains reports whether f (by content) is already in the set.
func (s *FileSet) Contains(f SourceFile) bool {
	_, ok := s.byValue[f.String()]
	return ok
}

// ContainsString reports whether a file with this path string is present.
func (s *FileSet) ContainsString(p string) bool {
	_, ok := s.byValue[p]
	return ok
}

// Files returns the set contents in insertion order.
func (s *FileSet) Files() []SourceFile {
	atoms := s.set.Items()
	out := make([]SourceFile, 0, len(atoms))
	for _, a := range atoms {
		out = append(out, s.byValue[a.String()])
	}
	return out
}

// Len returns the number of files in the set.
func (s *FileSet) Len() int {
	return s.set.Len()
}
