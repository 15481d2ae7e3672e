package main

import (
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/thought-machine/ninjagraph/internal/label"
	"github.com/thought-machine/ninjagraph/internal/paths"
)

func main() {
	os.Exit(run())
}

// run is main's testable body: it returns a process exit code instead of
// calling os.Exit directly, the same split please.go's own main()/execute()
// keeps for the sake of defer-running cleanly.
func run() int {
	start := time.Now()

	if _, err := parseArgs(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	configureLogging(opts.Verbose, opts.Quiet)

	d, err := Setup()
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}

	if err := loadRoots(d); err != nil {
		log.Errorf("%v", err)
		return 1
	}

	if err := Run(d); err != nil {
		log.Errorf("%v", err)
		return 1
	}

	if opts.Watch {
		watchAndRegenerate(d)
		return 0
	}

	if opts.Time {
		fmt.Fprintf(os.Stderr, "ninjagraph: generated in %s\n", humanize.RelTime(start, time.Now(), "", ""))
	}
	return 0
}

// loadRoots expands root_patterns (dotfile-declared, plus any --root-pattern
// repeats) into concrete build files and requests each one under the default
// toolchain - the seed loads that get the Builder/Scheduler pipeline moving.
// A plain root target (the dotfile/graph default) is
// loaded implicitly once its containing directory's build file is parsed,
// so it needs no separate Load call here.
func loadRoots(d *Driver) error {
	patterns := append([]string(nil), d.Dotfile.RootPatterns...)
	patterns = append(patterns, opts.RootPattern...)
	if len(patterns) == 0 {
		patterns = []string{"//..."}
	}

	seen := map[string]bool{}
	for _, pattern := range patterns {
		dir := rootPatternDir(d, pattern)
		files, err := d.Loader.WalkBuildFiles(dir, nil)
		if err != nil {
			return fmt.Errorf("expanding root pattern %q: %w", pattern, err)
		}
		for _, f := range files {
			if seen[f] {
				continue
			}
			seen[f] = true
			d.Loader.Load(paths.NewSourceFile(f, nil), label.DefaultToolchain)
		}
	}
	return nil
}

// rootPatternDir maps a root_patterns entry to the filesystem directory
// WalkBuildFiles should search. Only the "//..." (recurse everything) and
// "//some/dir/..." (recurse under a subdirectory) forms are supported - the
// single-target and name-pattern forms are a frontend concern, since
// resolving them needs the target-definition language this repository
// doesn't implement.
func rootPatternDir(d *Driver, pattern string) string {
	trimmed := pattern
	for len(trimmed) > 0 && trimmed[0] == '/' {
		trimmed = trimmed[1:]
	}
	trimmed = trimWildcard(trimmed)
	if trimmed == "" {
		return d.Root
	}
	return d.Root + "/" + trimmed
}

func trimWildcard(s string) string {
	const suffix = "..."
	if len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix {
		s = s[:len(s)-len(suffix)]
	}
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
