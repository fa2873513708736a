package runner

import (
	"errors"

	"github.com/projectdiscovery/gologger"

	"github.com/catfewd/cratepatch/internal/locator"
	"github.com/catfewd/cratepatch/internal/patch"
)

// Report prints the outcome summary and returns the process exit code.
// Success, already-patched and a non-strict skip all exit zero; anything
// located but not patchable exits one so the invoking build stops.
func Report(out *Outcome, err error) int {
	if err != nil {
		switch {
		case errors.Is(err, locator.ErrNotFound):
			gologger.Error().Msgf("required crate source is missing: %s", err)
		case errors.Is(err, patch.ErrAnchorNotFound):
			gologger.Error().Msgf("anchor not found, upstream layout may have changed: %s", err)
		case errors.Is(err, patch.ErrStrategyExhausted):
			gologger.Error().Msgf("no safe rewrite for this layout: %s", err)
		default:
			gologger.Error().Msgf("%s", err)
		}
		return 1
	}

	switch {
	case out.Skipped, out.DryRun:
	case out.Result != nil && out.Result.AlreadyPatched:
	default:
		gologger.Info().Msgf("done")
	}
	return 0
}
