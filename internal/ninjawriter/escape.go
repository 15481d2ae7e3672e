// Package ninjawriter implements the per-toolchain rule-file emitter and
// the top-level coordinator emitter described in spec.md §4.8/§4.9: rule
// blocks translated from the Tool catalogue, per-target build statements,
// the self-regeneration rule, pool declarations, the subninja list, and
// phony aliases in their documented priority order.
package ninjawriter

import "strings"

// EscapeCommand escapes s for use as the value of a Ninja `command =` (or
// any other free-text variable) binding: only `$` is special there, since
// Ninja treats everything else in a variable's raw text literally.
func EscapeCommand(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// EscapePath escapes s for use inside a Ninja build statement's input or
// output path list, where `$`, space and `:` all carry syntactic meaning.
func EscapePath(s string) string {
	s = strings.ReplaceAll(s, "$", "$$")
	s = strings.ReplaceAll(s, ":", "$:")
	s = strings.ReplaceAll(s, " ", "$ ")
	return s
}

// EscapeDepfile escapes s for use as a path on a Makefile-syntax depfile
// line: space is escaped with a backslash, and a literal backslash must
// itself be doubled to avoid being read as an escape introducer.
func EscapeDepfile(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, " ", "\\ ")
	return s
}
