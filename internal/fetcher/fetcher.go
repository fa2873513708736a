// Package fetcher materializes crate sources in the local cargo registry
// cache before the locator goes looking for them.
package fetcher

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/projectdiscovery/gologger"
)

// Options controls the cargo invocation.
type Options struct {
	Triple   string // Rust target triple to fetch for, e.g. aarch64-linux-android
	Manifest string // Cargo.toml to resolve from; empty means the working directory
}

// Args returns the cargo argument vector for these options.
func (o Options) Args() []string {
	args := []string{"fetch"}
	if o.Triple != "" {
		args = append(args, "--target", o.Triple)
	}
	if o.Manifest != "" {
		args = append(args, "--manifest-path", o.Manifest)
	}
	return args
}

// Fetch runs cargo fetch once, best effort. The caller treats a failure as
// a diagnostic: whether the crate actually sits in the cache is decided by
// the locator, not by cargo's exit status.
func Fetch(opts Options) error {
	if _, err := exec.LookPath("cargo"); err != nil {
		return fmt.Errorf("cargo not found in PATH: %w", err)
	}

	args := opts.Args()
	gologger.Verbose().Msgf("running cargo %s", strings.Join(args, " "))

	out, err := exec.Command("cargo", args...).CombinedOutput()
	if output := strings.TrimSpace(string(out)); output != "" {
		for _, line := range strings.Split(output, "\n") {
			gologger.Verbose().Msgf("cargo: %s", line)
		}
	}
	if err != nil {
		return fmt.Errorf("cargo fetch failed: %w", err)
	}
	return nil
}
