package main

import "github.com/thought-machine/go-flags"

// opts is the CLI surface spec.md §6 defines, struct-tag driven in the
// same style as please's own `opts` in src/please.go.
var opts struct {
	Usage string `usage:"ninjagraph reads a declarative build-file graph and emits a Ninja build plan.\n\nIt is a from-scratch, Go-native reimplementation of a GN-style meta-build-system generator."`

	Root                      string   `long:"root" description:"Root source directory. Defaults to the current directory."`
	Dotfile                   string   `long:"dotfile" description:"Path to the dotfile. Defaults to the nearest .ninjagraph in <root> or one of its parent directories."`
	Args                      string   `long:"args" description:"Build argument assignments, persisted to args.gn."`
	Quiet                     bool     `short:"q" long:"quiet" description:"Suppress informational output."`
	Verbose                   bool     `long:"verbose" description:"Enable verbose logging."`
	Time                      bool     `long:"time" description:"Print elapsed generation time on exit."`
	TraceLog                  string   `long:"tracelog" description:"File to write a trace log into. Accepted and ignored: no trace log is written."`
	ScriptExecutable          string   `long:"script-executable" description:"Interpreter for exec_script-declared scripts. Accepted and ignored."`
	FailOnUnusedArgs          bool     `long:"fail-on-unused-args" description:"Accepted and ignored: an unreferenced args.gn assignment never fails generation."`
	AddExportCompileCommands  []string `long:"add-export-compile-commands" description:"Additional target patterns for compile_commands.json export. Accepted and ignored."`
	RootTarget                string   `long:"root-target" description:"Root target label. Accepted and ignored: roots come from root patterns."`
	RootPattern               []string `long:"root-pattern" description:"Additional root label pattern to load (repeatable)."`
	Regeneration              bool     `long:"regeneration" description:"Internal: set when this invocation is a self-triggered regeneration."`
	RustProject               bool     `long:"export-rust-project" description:"Also write rust-project.json alongside build.ninja."`
	Workers                   int      `long:"workers" description:"Number of concurrent resolution workers. Defaults to GOMAXPROCS."`
	Watch                     bool     `long:"watch" description:"Stay running and regenerate build.ninja whenever a loaded build file changes."`
}

func parseArgs(argv []string) ([]string, error) {
	parser := flags.NewParser(&opts, flags.Default)
	return parser.ParseArgs(argv)
}
