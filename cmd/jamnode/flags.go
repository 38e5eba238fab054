package main

import "flag"

// flagSet wraps flag.FlagSet with ContinueOnError behavior, matching the
// teacher's CLI flag-parsing shape.
type flagSet struct {
	*flag.FlagSet
}

func newCustomFlagSet(name string) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &flagSet{FlagSet: fs}
}

// config is the CLI-resolved set of runtime options (spec.md's "CLI and
// entrypoint" ambient-stack section): a data directory for the genesis
// dictionary, a Unix-socket path for the conformance listener, a log
// verbosity, and which Params profile to run with.
type config struct {
	DataDir   string
	Socket    string
	Verbosity int
	Params    string // "default" or "tiny"
}

func defaultConfig() config {
	return config{
		DataDir:   "./jamnode-data",
		Socket:    "./jamnode.sock",
		Verbosity: 3,
		Params:    "tiny",
	}
}

func newFlagSet(cfg *config) *flagSet {
	fs := newCustomFlagSet("jamnode")
	fs.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "genesis/state data directory")
	fs.StringVar(&cfg.Socket, "socket", cfg.Socket, "conformance harness Unix-socket path")
	fs.IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level 0-5 (0=silent, 4-5=debug)")
	fs.StringVar(&cfg.Params, "params", cfg.Params, "parameter profile: default, tiny")
	return fs
}
