package ninjawriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeCommandOnlyDollar(t *testing.T) {
	assert.Equal(t, "a$$b", EscapeCommand("a$b"))
	assert.Equal(t, "a b:c", EscapeCommand("a b:c"))
}

func TestEscapePathEscapesAll(t *testing.T) {
	assert.Equal(t, "a$ b$:c$$d", EscapePath("a b:c$d"))
}

func TestEscapeDepfileEscapesSpaceAndBackslash(t *testing.T) {
	assert.Equal(t, `C:\\Program\ Files`, EscapeDepfile(`C:\Program Files`))
}
