package main

import (
	"os"

	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("ninjagraph")

// configureLogging sets the process-wide logging level, grounded on
// please's own single-logger-per-package convention
// (src/cli/logging/logging.go): one MustGetLogger singleton, verbosity
// controlled centrally rather than per call site.
func configureLogging(verbose, quiet bool) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	level := logging.NOTICE
	switch {
	case verbose:
		level = logging.DEBUG
	case quiet:
		level = logging.ERROR
	}
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}
