// Package label implements build target identifiers of the form
// "//dir:name(//toolchain:tc)" and patterns that match sets of them.
package label

import (
	"fmt"
	"strings"

	"github.com/thought-machine/ninjagraph/internal/atom"
)

// Label identifies a target within a specific toolchain context. The same
// dir:name may be instantiated independently under several toolchains; each
// instantiation is a distinct Label.
type Label struct {
	Dir           atom.Atom
	Name          atom.Atom
	ToolchainDir  atom.Atom
	ToolchainName atom.Atom
}

// DefaultToolchain is the distinguished toolchain label used when a target
// doesn't explicitly specify one.
var DefaultToolchain = Label{
	Dir:  atom.Intern("build/toolchain"),
	Name: atom.Intern("default"),
}

// New interns and constructs a Label in the default toolchain.
func New(dir, name string) Label {
	return Label{Dir: atom.Intern(dir), Name: atom.Intern(name)}
}

// NewWithToolchain constructs a Label qualified by an explicit toolchain.
func NewWithToolchain(dir, name string, tc Label) Label {
	return Label{
		Dir:           atom.Intern(dir),
		Name:          atom.Intern(name),
		ToolchainDir:  tc.Dir,
		ToolchainName: tc.Name,
	}
}

// Toolchain returns the toolchain label this target is instantiated under,
// defaulting to DefaultToolchain when unset.
func (l Label) Toolchain() Label {
	if l.ToolchainDir.IsEmpty() && l.ToolchainName.IsEmpty() {
		return DefaultToolchain
	}
	return Label{Dir: l.ToolchainDir, Name: l.ToolchainName}
}

// IsDefaultToolchain reports whether l is instantiated under the default toolchain.
func (l Label) IsDefaultToolchain() bool {
	return l.Toolchain() == DefaultToolchain
}

// String renders the canonical form, eliding the toolchain when it is the default one.
func (l Label) String() string {
	base := "//" + l.Dir.String() + ":" + l.Name.String()
	if l.IsDefaultToolchain() {
		return base
	}
	return base + "(" + l.Toolchain().String() + ")"
}

// VisibleName renders l relative to a reading context: the toolchain is
// elided when it matches the default, or when it matches the reader's own
// toolchain context.
func (l Label) VisibleName(reader Label) string {
	base := "//" + l.Dir.String() + ":" + l.Name.String()
	tc := l.Toolchain()
	if tc == DefaultToolchain || tc == reader.Toolchain() {
		return base
	}
	return base + "(" + tc.String() + ")"
}

// WithoutToolchain strips the toolchain qualifier, retaining the bare label.
func (l Label) WithoutToolchain() Label {
	return Label{Dir: l.Dir, Name: l.Name}
}

// Parse parses a label string of the form "//dir:name" or
// "//dir:name(//tc-dir:tc-name)". Relative forms (":name") are resolved
// against currentDir. The toolchain defaults to DefaultToolchain if absent.
func Parse(s, currentDir string) (Label, error) {
	toolchainPart := ""
	if idx := strings.IndexByte(s, '('); idx != -1 {
		if !strings.HasSuffix(s, ")") {
			return Label{}, fmt.Errorf("invalid label %q: unterminated toolchain qualifier", s)
		}
		toolchainPart = s[idx+1 : len(s)-1]
		s = s[:idx]
	}

	var dir, name string
	switch {
	case strings.HasPrefix(s, "//"):
		rest := s[2:]
		idx := strings.IndexByte(rest, ':')
		if idx == -1 {
			dir = rest
			if i := strings.LastIndexByte(dir, '/'); i != -1 {
				name = dir[i+1:]
			} else {
				name = dir
			}
		} else {
			dir = rest[:idx]
			name = rest[idx+1:]
		}
	case strings.HasPrefix(s, ":"):
		dir = currentDir
		name = s[1:]
	default:
		return Label{}, fmt.Errorf("invalid label %q: must start with // or :", s)
	}
	if name == "" {
		return Label{}, fmt.Errorf("invalid label %q: empty target name", s)
	}

	l := Label{Dir: atom.Intern(dir), Name: atom.Intern(name)}
	if toolchainPart != "" {
		tc, err := Parse(toolchainPart, currentDir)
		if err != nil {
			return Label{}, fmt.Errorf("invalid toolchain qualifier in %q: %w", s, err)
		}
		l.ToolchainDir = tc.Dir
		l.ToolchainName = tc.Name
	}
	return l, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// hard-coded labels, matching the teacher's NewBuildLabel/ParseBuildLabel pairing.
func MustParse(s, currentDir string) Label {
	l, err := Parse(s, currentDir)
	if err != nil {
		panic(err)
	}
	return l
}
