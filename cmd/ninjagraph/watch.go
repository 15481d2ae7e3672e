package main

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thought-machine/ninjagraph/internal/paths"
)

const debounceInterval = 50 * time.Millisecond

// watchAndRegenerate re-runs a fresh Setup+loadRoots+Run cycle every time a
// file the previous run actually read changes, grounded on please's own
// src/watch/watch.go: one watcher, a coalescing debounce window so a burst
// of writes collapses into a single rebuild, and a log line per rebuild.
// It never returns; the process is killed (Ctrl-C, signal) to stop it.
func watchAndRegenerate(d *Driver) {
	for {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			log.Fatalf("setting up watcher: %s", err)
		}
		watchLoadedFiles(watcher, d)

		log.Notice("Watching %d files for changes", len(d.Loader.LoadedFiles()))
		waitForChange(watcher)
		watcher.Close()

		log.Notice("Change detected, regenerating")
		next, err := Setup()
		if err != nil {
			log.Errorf("regeneration failed: %v", err)
			continue
		}
		if err := loadRoots(next); err != nil {
			log.Errorf("regeneration failed: %v", err)
			continue
		}
		if err := Run(next); err != nil {
			log.Errorf("regeneration failed: %v", err)
			continue
		}
		d = next
	}
}

func watchLoadedFiles(watcher *fsnotify.Watcher, d *Driver) {
	seenDirs := map[string]bool{}
	for _, f := range d.Loader.LoadedFiles() {
		dir := dirOf(d.Loader.ResolveActualPath(paths.NewSourceFile(f, nil)))
		if seenDirs[dir] {
			continue
		}
		seenDirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			log.Warningf("could not watch %s: %s", dir, err)
		}
	}
}

func waitForChange(watcher *fsnotify.Watcher) {
	for {
		select {
		case event := <-watcher.Events:
			log.Debugf("event: %s", event)
		outer:
			for {
				select {
				case <-watcher.Events:
				case <-time.After(debounceInterval):
					break outer
				}
			}
			return
		case err := <-watcher.Errors:
			log.Warningf("watcher error: %s", err)
		}
	}
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
