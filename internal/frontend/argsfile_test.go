package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRoundTripSucceedsForWellFormedArgs(t *testing.T) {
	scope, err := ParseArgsFile(`
is_debug = true
target_cpu = "x64"
extra_flags = [ "-DFOO", "-DBAR" ]
`)
	require.NoError(t, err)

	formatted, err := ValidateRoundTrip(scope)
	require.NoError(t, err)
	assert.Contains(t, formatted, `is_debug = true`)
	assert.Contains(t, formatted, `target_cpu = "x64"`)
	assert.Contains(t, formatted, `extra_flags = [ "-DFOO", "-DBAR" ]`)
}

func TestFormatArgsFilePreservesAssignmentOrder(t *testing.T) {
	scope, err := ParseArgsFile(`
z = "last-declared-first"
a = "second"
`)
	require.NoError(t, err)

	out := FormatArgsFile(scope)
	zIdx := indexOf(out, "z =")
	aIdx := indexOf(out, "a =")
	require.NotEqual(t, -1, zIdx)
	require.NotEqual(t, -1, aIdx)
	assert.Less(t, zIdx, aIdx)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
