package paths

import "strings"

// AliasEntry maps a source-root-relative prefix onto an actual on-disk
// relative prefix. Both are expressed without a leading "//". An empty
// ActualPrefix means "maps to the source root".
type AliasEntry struct {
	SourcePrefix string
	ActualPrefix string
}

// AliasTable is an ordered list of AliasEntry substitutions. It is built up
// once before any worker starts and never mutated afterwards, matching the
// "alias table is never mutated after startup" concurrency guarantee.
type AliasTable struct {
	entries []AliasEntry
}

// NewAliasTable constructs a table from the given entries, preserving order.
func NewAliasTable(entries ...AliasEntry) *AliasTable {
	return &AliasTable{entries: entries}
}

func trimDoubleSlash(p string) string {
	return strings.TrimPrefix(p, "//")
}

func collapseSlashes(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// ToActual rewrites a source-form path (starting with "//") to its actual
// on-disk form by substituting the first matching prefix, walking the
// entries front-to-back.
func (t *AliasTable) ToActual(p string) string {
	if t == nil || !strings.HasPrefix(p, "//") {
		return p
	}
	rest := trimDoubleSlash(p)
	for _, e := range t.entries {
		if rest == e.SourcePrefix || strings.HasPrefix(rest, e.SourcePrefix+"/") {
			suffix := strings.TrimPrefix(rest, e.SourcePrefix)
			var out string
			if e.ActualPrefix == "" {
				out = strings.TrimPrefix(suffix, "/")
			} else {
				out = e.ActualPrefix + suffix
			}
			return collapseSlashes(out)
		}
	}
	return rest
}

// ToSource rewrites an actual on-disk path back to its source form, walking
// the entries back-to-front and applying the reverse substitution. Entries
// whose ActualPrefix is "" (maps to source root) are tried last, as a
// fallback, since any path could otherwise match them.
func (t *AliasTable) ToSource(p string) string {
	if t == nil {
		return "//" + p
	}
	var fallback *AliasEntry
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if e.ActualPrefix == "" {
			if fallback == nil {
				fallback = &t.entries[i]
			}
			continue
		}
		if p == e.ActualPrefix || strings.HasPrefix(p, e.ActualPrefix+"/") {
			suffix := strings.TrimPrefix(p, e.ActualPrefix)
			return collapseSlashes("//" + e.SourcePrefix + suffix)
		}
	}
	if fallback != nil {
		return collapseSlashes("//" + fallback.SourcePrefix + "/" + p)
	}
	return collapseSlashes("//" + p)
}
