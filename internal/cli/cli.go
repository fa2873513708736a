// Package cli implements the cratepatch command-line interface: flag
// parsing, log levels, and the process exit code.
package cli

import (
	"fmt"
	"os"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"github.com/catfewd/cratepatch/internal/runner"
	"github.com/catfewd/cratepatch/internal/targets"
)

const version = "0.3.0"

type options struct {
	crate    string
	root     string
	triple   string
	manifest string
	noFetch  bool
	strict   bool
	dryRun   bool
	list     bool
	verbose  bool
	silent   bool
	version  bool
}

// Run is the main entry point for the CLI. It parses flags, runs the
// pipeline once and exits with the reporter's code.
func Run() {
	opts := parseOptions()

	switch {
	case opts.version:
		gologger.Info().Msgf("cratepatch %s", version)
		return
	case opts.list:
		printTargets()
		return
	}

	out, err := runner.Run(runner.Options{
		Target:   opts.crate,
		Root:     opts.root,
		Triple:   opts.triple,
		Manifest: opts.manifest,
		NoFetch:  opts.noFetch,
		Strict:   opts.strict,
		DryRun:   opts.dryRun,
	})
	os.Exit(runner.Report(out, err))
}

func parseOptions() *options {
	opts := &options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`cratepatch rewrites a known fragile fragment inside a crate's cached source
so builds that depend on it keep working where the upstream code fails, e.g.
cross-compiling ort-sys for Android.`)

	flagSet.CreateGroup("target", "Target",
		flagSet.StringVarP(&opts.crate, "crate", "c", "ort-sys", "patch target to apply"),
		flagSet.StringVarP(&opts.root, "registry-dir", "r", "", "cargo registry source root (default ~/.cargo/registry/src)"),
	)
	flagSet.CreateGroup("fetch", "Fetch",
		flagSet.StringVarP(&opts.triple, "target", "t", "", "rust target triple passed to cargo fetch"),
		flagSet.StringVarP(&opts.manifest, "manifest", "m", "", "Cargo.toml passed to cargo fetch"),
		flagSet.BoolVarP(&opts.noFetch, "no-fetch", "nf", false, "skip the cargo fetch step"),
	)
	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVar(&opts.strict, "strict", false, "fail instead of skipping when the crate is not cached"),
		flagSet.BoolVar(&opts.dryRun, "dry-run", false, "report the rewrite without writing it"),
		flagSet.BoolVarP(&opts.list, "list", "l", false, "list known patch targets"),
		flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output"),
		flagSet.BoolVar(&opts.silent, "silent", false, "show errors only"),
		flagSet.BoolVar(&opts.version, "version", false, "show version"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("could not parse flags: %s", err)
	}

	switch {
	case opts.silent:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelError)
	case opts.verbose:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	return opts
}

func printTargets() {
	fmt.Println("Available patch targets:")
	for _, t := range targets.List() {
		fmt.Printf("  %-12s %s\n", t.Name, t.Description)
	}
}
