package ninjawriter

import (
	"strings"

	"github.com/thought-machine/ninjagraph/internal/label"
)

// sanitizePoolName turns a pool's Label into a flat Ninja pool identifier.
// "console" is reserved by Ninja itself and passed through unchanged.
func sanitizePoolName(l label.Label) string {
	if l.Name.String() == "console" && l.Dir.IsEmpty() {
		return "console"
	}
	r := strings.NewReplacer("/", "_", ":", "_", "(", "_", ")", "_")
	if l.Dir.IsEmpty() {
		return r.Replace(l.Name.String())
	}
	return r.Replace(l.Dir.String()) + "_" + r.Replace(l.Name.String())
}

// toolchainSubdir flattens a non-default toolchain's label into the
// subdirectory name its rule file lives under.
func toolchainSubdir(tc label.Label) string {
	r := strings.NewReplacer("/", "_", ":", "_", "(", "_", ")", "_")
	if tc.Dir.IsEmpty() {
		return r.Replace(tc.Name.String())
	}
	return r.Replace(tc.Dir.String()) + "_" + r.Replace(tc.Name.String())
}

// joinPaths escapes and space-joins a list of Ninja build-statement paths.
func joinPaths(paths []string) string {
	escaped := make([]string, len(paths))
	for i, p := range paths {
		escaped[i] = EscapePath(p)
	}
	return strings.Join(escaped, " ")
}
