// Package loader implements the per-(file, toolchain) load state machine
// described in spec.md §4.7: every build file is parsed at most once per
// toolchain context, concurrent requests for the same key collapse to a
// single scheduled task, and a toolchain's build-config file is re-read in
// an arg-overridden scope the first time that toolchain is referenced.
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"

	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/paths"
	"github.com/thought-machine/ninjagraph/internal/toolchain"
)

// LoadState is a file-key's position in the NotRequested -> Loading ->
// Loaded state machine.
type LoadState int32

const (
	NotRequested LoadState = iota
	Loading
	Loaded
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	default:
		return "NotRequested"
	}
}

type fileKey struct {
	file      string
	toolchain label.Label
}

// LoadRequest is what the Loader hands to the frontend's parse callback:
// which file to parse, under which toolchain context, and (for a
// toolchain's first build-config reload only) the merged arg scope it
// should evaluate with.
type LoadRequest struct {
	File      paths.SourceFile
	Toolchain label.Label
	ArgScope  map[string]string
}

// ParseFunc is supplied by the frontend boundary; it is responsible for
// actually reading and evaluating file, posting any Items it declares to
// the Builder, and - if this load is a toolchain's build-config reload -
// calling RecordToolchainSettings with whatever scope values the
// buildconfig script set.
type ParseFunc func(req LoadRequest) error

// TaskPoster is the minimal surface the Loader needs from the Scheduler:
// posting a unit of work to run on the worker pool.
type TaskPoster interface {
	Post(task func() error)
}

// Loader is grounded on the (file, toolchain) state machine spec.md §4.7
// describes; the actual parsing is delegated to ParseFunc since the
// parser/evaluator is an out-of-scope frontend concern (spec.md §1).
type Loader struct {
	mu     sync.Mutex
	states map[fileKey]LoadState

	settings map[label.Label]map[string]string

	parse ParseFunc
	post  TaskPoster

	buildConfigFile     paths.SourceFile
	buildFileExtension  string
	primarySourceRoot   string
	secondarySourceRoot string

	// Exists is injectable so tests don't need a real filesystem; it
	// defaults to a real os.Stat-backed check.
	Exists func(path string) bool
}

// New constructs a Loader. buildConfigFile is the dotfile-designated
// build-config script (spec.md §6's `buildconfig` key); buildFileExtension
// is the dotfile's `build_file_extension` (default "" meaning "BUILD.gn").
func New(parse ParseFunc, post TaskPoster, buildConfigFile paths.SourceFile, buildFileExtension string) *Loader {
	return &Loader{
		states:             map[fileKey]LoadState{},
		settings:           map[label.Label]map[string]string{},
		parse:              parse,
		post:               post,
		buildConfigFile:    buildConfigFile,
		buildFileExtension: buildFileExtension,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// SetSourceRoots records the primary and (optional) secondary source
// roots, per original_source/.../build_settings.cc.
func (l *Loader) SetSourceRoots(primary, secondary string) {
	l.primarySourceRoot = primary
	l.secondarySourceRoot = secondary
}

// State reports a file-key's current load state.
func (l *Loader) State(file paths.SourceFile, tc label.Label) LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[fileKey{file: file.String(), toolchain: tc}]
}

// Load requests that file be parsed under toolchain's context. If this
// exact (file, toolchain) pair has already been requested, Load is a
// no-op: the collapsing the Loader promises in spec.md §5 happens here,
// at state-check time, before any task is posted.
func (l *Loader) Load(file paths.SourceFile, tc label.Label) {
	l.loadKey(file, tc, nil)
}

// LoadToolchain triggers the toolchain's build-config reload the first
// time tc is referenced: arg overrides from tc.ArgOverrides are merged
// atop cliArgs, except for the default toolchain, whose overrides are
// ignored entirely (its args are expected to come from args.gn/--args).
func (l *Loader) LoadToolchain(tc *toolchain.Toolchain, cliArgs map[string]string) {
	merged := make(map[string]string, len(cliArgs))
	for k, v := range cliArgs {
		merged[k] = v
	}
	if tc.Label != label.DefaultToolchain {
		for k, v := range tc.ArgOverrides {
			merged[k] = v
		}
	}
	l.loadKey(l.buildConfigFile, tc.Label, merged)
}

func (l *Loader) loadKey(file paths.SourceFile, tc label.Label, argScope map[string]string) {
	key := fileKey{file: file.String(), toolchain: tc}

	l.mu.Lock()
	if l.states[key] != NotRequested {
		l.mu.Unlock()
		return
	}
	l.states[key] = Loading
	l.mu.Unlock()

	l.post.Post(func() error {
		err := l.parse(LoadRequest{File: file, Toolchain: tc, ArgScope: argScope})
		l.mu.Lock()
		l.states[key] = Loaded
		l.mu.Unlock()
		return err
	})
}

// RecordToolchainSettings is called by the parse callback once a
// toolchain's build-config script has executed, storing whatever scope
// values it set so GetToolchainSettings can return them.
func (l *Loader) RecordToolchainSettings(tc label.Label, vals map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settings[tc] = vals
}

// GetToolchainSettings returns the scope values a toolchain's build-config
// script set, or (nil, false) if that toolchain's build-config has not
// executed yet.
func (l *Loader) GetToolchainSettings(tc label.Label) (map[string]string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.settings[tc]
	return v, ok
}

// LoadedFiles returns the distinct set of file paths that have reached
// Loaded (or are still Loading) for any toolchain, sorted. Used to build
// build.ninja.d's input list alongside the Scheduler's gen-dependency files.
func (l *Loader) LoadedFiles() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	seen := map[string]bool{}
	for k, st := range l.states {
		if st == NotRequested {
			continue
		}
		seen[k.file] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// buildFileName is the basename a directory's build file must have.
func (l *Loader) buildFileName() string {
	if l.buildFileExtension == "" {
		return "BUILD.gn"
	}
	return "BUILD" + l.buildFileExtension
}

// ResolveActualPath tries the primary source root's mapping of f first,
// falling back to the secondary source root (if configured) when the
// primary doesn't exist on disk, per original_source/.../build_settings.cc.
func (l *Loader) ResolveActualPath(f paths.SourceFile) string {
	actual := f.Actual()
	if l.Exists(actual) || l.secondarySourceRoot == "" {
		return actual
	}
	alt := filepath.Join(l.secondarySourceRoot, strings.TrimPrefix(f.String(), "//"))
	if l.Exists(alt) {
		return alt
	}
	return actual
}

// WalkBuildFiles recursively finds every build file under rootDir whose
// containing directory satisfies match (or every build file if match is
// nil), used to expand `root_patterns` / `//...`-style wildcards. It is a
// thin wrapper over godirwalk, the same package src/fs/walk.go wraps for
// please's own package-discovery glob.
func (l *Loader) WalkBuildFiles(rootDir string, match func(dir string) bool) ([]string, error) {
	var found []string
	name := l.buildFileName()
	err := godirwalk.Walk(rootDir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() || filepath.Base(path) != name {
				return nil
			}
			dir := filepath.Dir(path)
			if match == nil || match(dir) {
				found = append(found, path)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
