// Package paths implements the normalised source- and output-relative path
// types the build graph uses: SourceDir, SourceFile and OutputFile, plus the
// process-wide alias table that maps "//foo" style prefixes onto arbitrary
// on-disk directories.
package paths

import (
	"strings"

	"github.com/thought-machine/ninjagraph/internal/atom"
)

// SourceDir is a directory path, always ending in "/". It carries both the
// user-facing "source form" (starting with "//", "/" or a drive letter) and
// the on-disk "actual form" produced by consulting the AliasTable.
type SourceDir struct {
	value  atom.Atom
	actual atom.Atom
}

// SourceFile is a file path, never ending in "/".
type SourceFile struct {
	value  atom.Atom
	actual atom.Atom
}

// OutputFile is a path relative to the build directory.
type OutputFile struct {
	value atom.Atom
}

func normalize(p string) string {
	if p == "" {
		return p
	}
	// Collapse consecutive slashes, preserving a leading "//".
	prefix := ""
	rest := p
	if strings.HasPrefix(p, "//") {
		prefix = "//"
		rest = p[2:]
	} else if strings.HasPrefix(p, "/") {
		prefix = "/"
		rest = p[1:]
	}
	parts := strings.Split(rest, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else {
				out = append(out, "..")
			}
		default:
			out = append(out, part)
		}
	}
	trailingSlash := strings.HasSuffix(p, "/")
	joined := strings.Join(out, "/")
	if trailingSlash && joined != "" {
		joined += "/"
	} else if trailingSlash && joined == "" {
		joined = ""
	}
	return prefix + joined
}

// NewSourceDir constructs a SourceDir from its user-facing form, normalising
// "." and ".." components and consulting t for the actual on-disk path.
// The result always ends with "/".
func NewSourceDir(p string, t *AliasTable) SourceDir {
	n := normalize(p)
	if !strings.HasSuffix(n, "/") {
		n += "/"
	}
	actual := n
	if t != nil {
		actual = t.ToActual(n)
	}
	return SourceDir{value: atom.Intern(n), actual: atom.Intern(actual)}
}

// NewSourceFile constructs a SourceFile from its user-facing form.
func NewSourceFile(p string, t *AliasTable) SourceFile {
	n := normalize(p)
	n = strings.TrimSuffix(n, "/")
	actual := n
	if t != nil {
		actual = t.ToActual(n)
	}
	return SourceFile{value: atom.Intern(n), actual: atom.Intern(actual)}
}

// NewOutputFile constructs an OutputFile from a path already relative to the
// build directory.
func NewOutputFile(p string) OutputFile {
	return OutputFile{value: atom.Intern(strings.TrimSuffix(normalize(p), "/"))}
}

// String returns the source-facing form.
func (d SourceDir) String() string { return d.value.String() }
func (f SourceFile) String() string { return f.value.String() }
func (o OutputFile) String() string { return o.value.String() }

// Actual returns the on-disk form (post alias substitution).
func (d SourceDir) Actual() string { return d.actual.String() }
func (f SourceFile) Actual() string { return f.actual.String() }

// IsEmpty reports whether this is the zero value.
func (d SourceDir) IsEmpty() bool { return d.value.IsEmpty() }
func (f SourceFile) IsEmpty() bool { return f.value.IsEmpty() }
func (o OutputFile) IsEmpty() bool { return o.value.IsEmpty() }

// Child returns the SourceFile for name resolved inside this directory.
func (d SourceDir) Child(name string, t *AliasTable) SourceFile {
	return NewSourceFile(d.String()+name, t)
}

// ToSourceFile converts an OutputFile to a SourceFile given the build
// directory (itself expressed relative to the source root, e.g. "plz-out").
func (o OutputFile) ToSourceFile(buildDir string, t *AliasTable) SourceFile {
	return NewSourceFile("//"+strings.TrimSuffix(buildDir, "/")+"/"+o.String(), t)
}

// FromSourceFile converts a SourceFile under buildDir into an OutputFile,
// relative to the build directory. It panics if f is not under buildDir.
func FromSourceFile(f SourceFile, buildDir string) OutputFile {
	rel := strings.TrimPrefix(f.String(), "//")
	prefix := strings.TrimSuffix(buildDir, "/") + "/"
	if !strings.HasPrefix(rel, prefix) {
		panic("source file " + f.String() + " is not inside build directory " + buildDir)
	}
	return NewOutputFile(strings.TrimPrefix(rel, prefix))
}
