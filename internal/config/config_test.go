package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thought-machine/ninjagraph/internal/label"
)

func TestResolveConcatenatesInOrderWithDuplicates(t *testing.T) {
	base := New(label.MustParse("//build/config:base", ""))
	base.Own.Defines = []string{"BASE=1"}

	warnings := New(label.MustParse("//build/config:warnings", ""))
	warnings.Own.Cflags = []string{"-Wall"}
	warnings.SubConfigs = []*Config{base}

	top := New(label.MustParse("//build/config:strict", ""))
	top.Own.Cflags = []string{"-Werror"}
	top.Own.Defines = []string{"BASE=1"} // duplicate on purpose
	top.SubConfigs = []*Config{warnings, base}

	v, err := top.Resolve()
	assert.NoError(t, err)
	// warnings contributes -Wall and (via base) BASE=1, base is walked again
	// directly, then top's own values are appended last.
	assert.Equal(t, []string{"-Wall", "-Werror"}, v.Cflags)
	assert.Equal(t, []string{"BASE=1", "BASE=1", "BASE=1"}, v.Defines)
}

func TestResolveDetectsCycle(t *testing.T) {
	a := New(label.MustParse("//build/config:a", ""))
	b := New(label.MustParse("//build/config:b", ""))
	a.SubConfigs = []*Config{b}
	b.SubConfigs = []*Config{a}

	_, err := a.Resolve()
	assert.Error(t, err)
	var cycleErr *CycleError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestResolveCachesResult(t *testing.T) {
	c := New(label.MustParse("//build/config:once", ""))
	c.Own.Defines = []string{"X=1"}
	v1, err := c.Resolve()
	assert.NoError(t, err)
	c.Own.Defines = append(c.Own.Defines, "Y=2") // mutate after first resolve
	v2, err := c.Resolve()
	assert.NoError(t, err)
	assert.Equal(t, v1, v2) // cached, mutation not observed
}

func TestCheckVisibility(t *testing.T) {
	c := New(label.MustParse("//lib/internal:cfg", ""))
	set, err := label.ParseSet([]string{"//lib/*"}, "")
	assert.NoError(t, err)
	c.Visibility = set

	assert.NoError(t, c.CheckVisibility(label.MustParse("//lib/sub:user", "")))
	assert.Error(t, c.CheckVisibility(label.MustParse("//other:user", "")))
}

func TestCheckVisibilityEmptyMeansPublic(t *testing.T) {
	c := New(label.MustParse("//lib:cfg", ""))
	assert.NoError(t, c.CheckVisibility(label.MustParse("//anything:here", "")))
}
