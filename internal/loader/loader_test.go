package loader

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/paths"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

// fakePoster runs every posted task synchronously and inline, which is
// sufficient for exercising the Loader's own state machine without
// pulling in the Scheduler.
type fakePoster struct {
	mu    sync.Mutex
	calls int
}

func (p *fakePoster) Post(task func() error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	_ = task()
}

func TestLoadTransitionsToLoaded(t *testing.T) {
	poster := &fakePoster{}
	var parsed []string
	l := New(func(req LoadRequest) error {
		parsed = append(parsed, req.File.String())
		return nil
	}, poster, paths.NewSourceFile("//BUILD.gn", nil), "")

	f := paths.NewSourceFile("//a/BUILD.gn", nil)
	tc := label.DefaultToolchain
	assert.Equal(t, NotRequested, l.State(f, tc))

	l.Load(f, tc)
	assert.Equal(t, Loaded, l.State(f, tc))
	assert.Equal(t, []string{"//a/BUILD.gn"}, parsed)
}

func TestLoadCollapsesConcurrentRequestsForSameKey(t *testing.T) {
	poster := &fakePoster{}
	count := 0
	l := New(func(req LoadRequest) error {
		count++
		return nil
	}, poster, paths.NewSourceFile("//BUILD.gn", nil), "")

	f := paths.NewSourceFile("//a/BUILD.gn", nil)
	tc := label.DefaultToolchain

	l.Load(f, tc)
	l.Load(f, tc)
	l.Load(f, tc)

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, poster.calls)
}

func TestLoadSameFileDifferentToolchainsAreDistinctKeys(t *testing.T) {
	poster := &fakePoster{}
	count := 0
	l := New(func(req LoadRequest) error {
		count++
		return nil
	}, poster, paths.NewSourceFile("//BUILD.gn", nil), "")

	f := paths.NewSourceFile("//a/BUILD.gn", nil)
	other := label.NewWithToolchain("tc", "other", label.DefaultToolchain)

	l.Load(f, label.DefaultToolchain)
	l.Load(f, other)

	assert.Equal(t, 2, count)
}

func TestLoadToolchainDefaultIgnoresArgOverrides(t *testing.T) {
	poster := &fakePoster{}
	var gotScope map[string]string
	l := New(func(req LoadRequest) error {
		gotScope = req.ArgScope
		return nil
	}, poster, paths.NewSourceFile("//BUILD.gn", nil), "")

	tc := toolchain.New(label.DefaultToolchain)
	tc.ArgOverrides["is_debug"] = "false"

	l.LoadToolchain(tc, map[string]string{"is_debug": "true"})
	assert.Equal(t, map[string]string{"is_debug": "true"}, gotScope)
}

func TestLoadToolchainNonDefaultMergesOverridesAtopCliArgs(t *testing.T) {
	poster := &fakePoster{}
	var gotScope map[string]string
	l := New(func(req LoadRequest) error {
		gotScope = req.ArgScope
		return nil
	}, poster, paths.NewSourceFile("//BUILD.gn", nil), "")

	other := label.NewWithToolchain("tc", "other", label.DefaultToolchain)
	tc := toolchain.New(other)
	tc.ArgOverrides["is_debug"] = "false"

	l.LoadToolchain(tc, map[string]string{"is_debug": "true", "cpu": "arm64"})
	assert.Equal(t, map[string]string{"is_debug": "false", "cpu": "arm64"}, gotScope)
}

func TestGetToolchainSettingsNilUntilRecorded(t *testing.T) {
	poster := &fakePoster{}
	l := New(func(req LoadRequest) error { return nil }, poster, paths.NewSourceFile("//BUILD.gn", nil), "")

	tc := label.DefaultToolchain
	_, ok := l.GetToolchainSettings(tc)
	assert.False(t, ok)

	l.RecordToolchainSettings(tc, map[string]string{"cpu": "x64"})
	settings, ok := l.GetToolchainSettings(tc)
	assert.True(t, ok)
	assert.Equal(t, "x64", settings["cpu"])
}

func TestResolveActualPathFallsBackToSecondaryRoot(t *testing.T) {
	poster := &fakePoster{}
	l := New(func(req LoadRequest) error { return nil }, poster, paths.NewSourceFile("//BUILD.gn", nil), "")
	l.SetSourceRoots("/primary", "/secondary")

	exists := map[string]bool{"/secondary/a/BUILD.gn": true}
	l.Exists = func(p string) bool { return exists[p] }

	f := paths.NewSourceFile("//a/BUILD.gn", nil)
	assert.Equal(t, "/secondary/a/BUILD.gn", l.ResolveActualPath(f))
}

func TestResolveActualPathPrefersPrimaryWhenPresent(t *testing.T) {
	poster := &fakePoster{}
	l := New(func(req LoadRequest) error { return nil }, poster, paths.NewSourceFile("//BUILD.gn", nil), "")
	l.SetSourceRoots("/primary", "/secondary")
	l.Exists = func(p string) bool { return true }

	f := paths.NewSourceFile("//a/BUILD.gn", nil)
	assert.Equal(t, f.Actual(), l.ResolveActualPath(f))
}
