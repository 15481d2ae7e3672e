package frontend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseArgsFile evaluates args.gn (or a `--args=...` command-line string):
// spec.md §6 describes it as "same source language, variable assignments
// only", which is exactly ParseScope's grammar.
func ParseArgsFile(src string) (*Scope, error) {
	return ParseScope(src)
}

// FormatArgsFile serialises scope back to args.gn source, one assignment
// per line in the scope's own assignment order, matching
// original_source/.../setup.cc's SaveArgsToFile: the persisted file is
// meant to be read back by a human as much as by the tool itself.
func FormatArgsFile(scope *Scope) string {
	var b strings.Builder
	for _, key := range scope.Keys() {
		v, _ := scope.Get(key)
		fmt.Fprintf(&b, "%s = %s\n", key, formatValue(v))
	}
	return b.String()
}

func formatValue(v Value) string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = formatValue(item)
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case KindScope:
		keys := make([]string, 0, len(v.Scope))
		for k := range v.Scope {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("{\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s = %s\n", k, formatValue(v.Scope[k]))
		}
		b.WriteString("}")
		return b.String()
	default:
		return ""
	}
}

// RoundTripError reports that re-parsing a freshly-formatted args.gn
// produced a different value set than what was written, per
// original_source/.../setup.cc's expectation that a regenerated args.gn
// parses back to the same values it was generated from.
type RoundTripError struct {
	Key string
}

func (e *RoundTripError) Error() string {
	return fmt.Sprintf("args.gn round-trip mismatch at key %q", e.Key)
}

// ValidateRoundTrip formats original, re-parses the result, and confirms
// every key/value pair is recovered unchanged. Callers persist the
// formatted text only after this succeeds.
func ValidateRoundTrip(original *Scope) (string, error) {
	formatted := FormatArgsFile(original)
	reparsed, err := ParseArgsFile(formatted)
	if err != nil {
		return "", fmt.Errorf("args.gn did not re-parse: %w", err)
	}
	for _, key := range original.Keys() {
		want, _ := original.Get(key)
		got, ok := reparsed.Get(key)
		if !ok || !valueEqual(want, got) {
			return "", &RoundTripError{Key: key}
		}
	}
	return formatted, nil
}

func valueEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !valueEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindScope:
		if len(a.Scope) != len(b.Scope) {
			return false
		}
		for k, av := range a.Scope {
			bv, ok := b.Scope[k]
			if !ok || !valueEqual(av, bv) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
