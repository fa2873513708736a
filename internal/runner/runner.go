// Package runner wires the pipeline together: fetch the dependency, locate
// its cached source, patch the anchor, write the file back, and summarize
// the outcome for the caller's exit code.
package runner

import (
	"errors"
	"fmt"

	"github.com/projectdiscovery/gologger"
	fileutil "github.com/projectdiscovery/utils/file"

	"github.com/catfewd/cratepatch/internal/fetcher"
	"github.com/catfewd/cratepatch/internal/locator"
	"github.com/catfewd/cratepatch/internal/patch"
	"github.com/catfewd/cratepatch/internal/targets"
)

// Options come straight from the command line.
type Options struct {
	Target   string // registry key of the patch target
	Root     string // registry source root override; empty means ~/.cargo/registry/src
	Triple   string // Rust target triple for cargo fetch
	Manifest string // Cargo.toml for cargo fetch
	NoFetch  bool   // skip cargo fetch entirely
	Strict   bool   // treat a missing cached crate as a failure
	DryRun   bool   // stop before writing anything
}

// Outcome is what a finished run looks like to the reporter.
type Outcome struct {
	Target    targets.Target
	Candidate locator.Candidate
	Result    *patch.Result
	Skipped   bool // crate not cached and the run was not strict
	DryRun    bool
}

// Run executes the pipeline for one target. The returned error carries one
// of the sentinel kinds when the failure is an expected drift mode.
func Run(opts Options) (*Outcome, error) {
	t, err := targets.Get(opts.Target)
	if err != nil {
		return nil, err
	}

	// ── Step 1: fetch ─────────────────────────────────────────────────
	if opts.NoFetch {
		gologger.Verbose().Msgf("skipping cargo fetch")
	} else if err := fetcher.Fetch(fetcher.Options{Triple: opts.Triple, Manifest: opts.Manifest}); err != nil {
		// Best effort: the locator is the authoritative presence check.
		gologger.Warning().Msgf("%s", err)
	}

	// ── Step 2: locate ────────────────────────────────────────────────
	root := opts.Root
	if root == "" {
		if root, err = locator.DefaultRoot(); err != nil {
			return nil, err
		}
	}
	loc, err := locator.New(root, t)
	if err != nil {
		return nil, err
	}
	gologger.Verbose().Msgf("looking for %s", loc.Pattern())

	cand, err := loc.Find(t)
	if err != nil {
		if errors.Is(err, locator.ErrNotFound) && !opts.Strict {
			gologger.Info().Msgf("%s source not found, skipping patch", t.Name)
			return &Outcome{Target: t, Skipped: true}, nil
		}
		return nil, err
	}
	gologger.Info().Msgf("patching %s", cand.Path)

	// ── Step 3: patch ─────────────────────────────────────────────────
	file, err := patch.LoadFile(cand.Path)
	if err != nil {
		return nil, err
	}
	res, err := patch.Apply(file, t)
	if err != nil {
		return nil, err
	}
	if res.AlreadyPatched {
		gologger.Info().Msgf("already patched (line %d), nothing to do", res.Line+1)
		if !opts.DryRun {
			// The patched code still needs the directory; tmp cleaners may
			// have removed it since the run that wrote the patch.
			if err := ensureRuntimeDir(t); err != nil {
				return nil, err
			}
		}
		return &Outcome{Target: t, Candidate: cand, Result: res}, nil
	}
	gologger.Verbose().Msgf("%s rewrote line %d", res.Strategy, res.Line+1)

	// ── Step 4: write back ────────────────────────────────────────────
	if opts.DryRun {
		gologger.Info().Msgf("dry run: %s would rewrite line %d", res.Strategy, res.Line+1)
		return &Outcome{Target: t, Candidate: cand, Result: res, DryRun: true}, nil
	}
	if err := file.WriteBack(); err != nil {
		return nil, err
	}
	if err := ensureRuntimeDir(t); err != nil {
		return nil, err
	}

	return &Outcome{Target: t, Candidate: cand, Result: res}, nil
}

// ensureRuntimeDir creates the directory the patched code expects at
// runtime. Called whenever the run ends with the file in its patched
// state, never on a skip, a dry run or a failed match.
func ensureRuntimeDir(t targets.Target) error {
	if t.RuntimeDir == "" || fileutil.FolderExists(t.RuntimeDir) {
		return nil
	}
	if err := fileutil.CreateFolder(t.RuntimeDir); err != nil {
		return fmt.Errorf("cannot create runtime dir %s: %w", t.RuntimeDir, err)
	}
	return nil
}
